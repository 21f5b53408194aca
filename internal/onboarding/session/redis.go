package session

import (
	"context"
	"errors"
	"time"

	apperrors "employee-onboarding/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

// NewRedisStore keeps the id under key. A zero ttl never expires.
func NewRedisStore(rdb redis.UniversalClient, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	id, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && id == "") {
		return "", ErrNoSession
	}
	if err != nil {
		return "", apperrors.NewSessionStoreError("load", err)
	}
	return id, nil
}

func (s *RedisStore) Save(ctx context.Context, subjectID string) error {
	if err := s.rdb.Set(ctx, s.key, subjectID, s.ttl).Err(); err != nil {
		return apperrors.NewSessionStoreError("save", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return apperrors.NewSessionStoreError("clear", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

package session

import (
	"context"
	"fmt"
	"time"

	"employee-onboarding/internal/common/config"
	"employee-onboarding/internal/common/database"
	"employee-onboarding/internal/common/logger"
)

// Open builds the store selected by cfg.Session.Driver.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, error) {
	sc := cfg.Session
	switch sc.Driver {
	case config.SessionDriverRedis:
		rdb := database.NewRedis(cfg.Database.Redis)
		if err := database.PingRedis(ctx, rdb); err != nil {
			rdb.Close()
			return nil, err
		}
		log.Info("Session store ready", map[string]interface{}{"driver": sc.Driver, "address": cfg.Database.Redis.Address})
		return NewRedisStore(rdb, sc.Key, time.Duration(sc.TTL)*time.Millisecond), nil

	case config.SessionDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(db, sc.Key)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Session store ready", map[string]interface{}{"driver": sc.Driver, "database": cfg.Database.Postgres.Database})
		return store, nil

	case config.SessionDriverFile:
		log.Info("Session store ready", map[string]interface{}{"driver": sc.Driver, "path": sc.FilePath})
		return NewFileStore(sc.FilePath, sc.Key), nil

	case config.SessionDriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown session driver %q", sc.Driver)
}

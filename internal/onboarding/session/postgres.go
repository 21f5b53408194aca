package session

import (
	"context"
	"database/sql"
	"errors"

	apperrors "employee-onboarding/internal/common/errors"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS onboarding_sessions (
	session_key TEXT PRIMARY KEY,
	subject_id  TEXT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	selectSQL = `SELECT subject_id FROM onboarding_sessions WHERE session_key = $1`
	upsertSQL = `INSERT INTO onboarding_sessions (session_key, subject_id, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (session_key) DO UPDATE SET subject_id = EXCLUDED.subject_id, updated_at = NOW()`
	deleteSQL = `DELETE FROM onboarding_sessions WHERE session_key = $1`
)

type PostgresStore struct {
	db  *sql.DB
	key string
}

func NewPostgresStore(db *sql.DB, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

// EnsureSchema creates the sessions table when it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return apperrors.NewSessionStoreError("migrate", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, selectSQL, s.key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && id == "") {
		return "", ErrNoSession
	}
	if err != nil {
		return "", apperrors.NewSessionStoreError("load", err)
	}
	return id, nil
}

func (s *PostgresStore) Save(ctx context.Context, subjectID string) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, s.key, subjectID); err != nil {
		return apperrors.NewSessionStoreError("save", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, deleteSQL, s.key); err != nil {
		return apperrors.NewSessionStoreError("clear", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

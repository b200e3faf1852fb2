package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB interface for database operations (compatible with pgxpool.Pool and pgxmock)
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// PGStore implements SyncStore on PostgreSQL.
type PGStore struct {
	db DB
}

// NewPGStore creates a PostgreSQL-backed sync store
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// NewPGStoreWithDB creates a sync store with a custom DB interface
func NewPGStoreWithDB(db DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) LastSyncDate(ctx context.Context) (string, error) {
	query := `
		SELECT value
		FROM sync_state
		WHERE key = $1
	`

	var value string
	err := s.db.QueryRow(ctx, query, keyLastHealthSync).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read last sync date: %w", err)
	}
	return value, nil
}

func (s *PGStore) SetLastSyncDate(ctx context.Context, date string) error {
	query := `
		INSERT INTO sync_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = NOW()
	`

	_, err := s.db.Exec(ctx, query, keyLastHealthSync, date)
	if err != nil {
		return fmt.Errorf("write last sync date: %w", err)
	}
	return nil
}

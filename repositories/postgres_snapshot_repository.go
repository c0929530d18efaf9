package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &postgresSnapshotRepository{db: db}
}

// EnsureSnapshotSchema создаёт таблицу снапшота, если её ещё нет.
// Вызывается один раз на старте, до первой загрузки состояния.
func EnsureSnapshotSchema(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS board_snapshot (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure board_snapshot schema: %w", err)
	}
	return nil
}

func (r *postgresSnapshotRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT value FROM board_snapshot WHERE key = $1`
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSnapshotKeyNotFound
		}
		return "", fmt.Errorf("failed to read snapshot key %q: %w", key, err)
	}
	return value, nil
}

func (r *postgresSnapshotRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO board_snapshot (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write snapshot key %q: %w", key, err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

func (q *queries) SetConfig(ctx context.Context, key, value string) error {
	return q.setKV(ctx, "config", key, value)
}

// GetConfig returns the stored value, or "" when the key is unset.
func (q *queries) GetConfig(ctx context.Context, key string) (string, error) {
	return q.getKV(ctx, "config", key)
}

func (q *queries) SetMetadata(ctx context.Context, key, value string) error {
	return q.setKV(ctx, "metadata", key, value)
}

func (q *queries) GetMetadata(ctx context.Context, key string) (string, error) {
	return q.getKV(ctx, "metadata", key)
}

func (q *queries) setKV(ctx context.Context, table, key, value string) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO `+table+` (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s key %s: %w", table, key, err)
	}
	return nil
}

func (q *queries) getKV(ctx context.Context, table, key string) (string, error) {
	var value string
	err := q.q.QueryRowContext(ctx, `SELECT value FROM `+table+` WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s key %s: %w", table, key, err)
	}
	return value, nil
}

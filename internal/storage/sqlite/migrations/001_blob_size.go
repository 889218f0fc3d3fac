// Package migrations holds the ordered, idempotent schema migrations.
// Each migration probes pragma_table_info for its own effect before
// altering anything, so a fresh database passes straight through.
package migrations

import (
	"database/sql"
	"fmt"
)

func MigrateBlobSizeColumn(db *sql.DB) error {
	var colName string
	err := db.QueryRow(`
		SELECT name FROM pragma_table_info('blobs')
		WHERE name = 'size'
	`).Scan(&colName)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to inspect blobs table: %w", err)
	}

	if _, err := db.Exec(`ALTER TABLE blobs ADD COLUMN size INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("failed to add size column: %w", err)
	}
	if _, err := db.Exec(`UPDATE blobs SET size = length(content)`); err != nil {
		return fmt.Errorf("failed to backfill blob sizes: %w", err)
	}
	return nil
}

package migrations

import (
	"database/sql"
	"fmt"
)

func MigrateRevisionDocCount(db *sql.DB) error {
	var colName string
	err := db.QueryRow(`
		SELECT name FROM pragma_table_info('revisions')
		WHERE name = 'doc_count'
	`).Scan(&colName)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to inspect revisions table: %w", err)
	}

	if _, err := db.Exec(`ALTER TABLE revisions ADD COLUMN doc_count INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("failed to add doc_count column: %w", err)
	}
	_, err = db.Exec(`
		UPDATE revisions SET doc_count = (
			SELECT COUNT(*) FROM revision_items
			WHERE revision_items.revision_id = revisions.id AND is_deleted = 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to backfill doc counts: %w", err)
	}
	return nil
}

package migrations

import (
	"database/sql"
	"fmt"
)

func MigrateOutdatedColumn(db *sql.DB) error {
	var colName string
	err := db.QueryRow(`
		SELECT name FROM pragma_table_info('change_requests')
		WHERE name = 'outdated'
	`).Scan(&colName)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to inspect change_requests table: %w", err)
	}

	if _, err := db.Exec(`ALTER TABLE change_requests ADD COLUMN outdated INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("failed to add outdated column: %w", err)
	}
	return nil
}

package migrations

import (
	"database/sql"
	"fmt"
)

func MigrateReviewerCommentColumn(db *sql.DB) error {
	var colName string
	err := db.QueryRow(`
		SELECT name FROM pragma_table_info('cr_reviewers')
		WHERE name = 'comment'
	`).Scan(&colName)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to inspect cr_reviewers table: %w", err)
	}

	if _, err := db.Exec(`ALTER TABLE cr_reviewers ADD COLUMN comment TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("failed to add comment column: %w", err)
	}
	return nil
}

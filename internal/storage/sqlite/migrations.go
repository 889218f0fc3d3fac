// Package sqlite - database migrations
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/wikivault/wikivault/internal/storage/sqlite/migrations"
)

// Migration represents a single database migration.
type Migration struct {
	Name string
	Func func(*sql.DB) error
}

// migrationsList is the ordered list of all migrations. Each is
// idempotent: it checks for its own effect before applying, so running
// against a fresh schema is a no-op.
var migrationsList = []Migration{
	{"blob_size_column", migrations.MigrateBlobSizeColumn},
	{"revision_doc_count", migrations.MigrateRevisionDocCount},
	{"reviewer_comment_column", migrations.MigrateReviewerCommentColumn},
	{"cr_outdated_column", migrations.MigrateOutdatedColumn},
}

// MigrationInfo contains metadata about a migration for inspection.
type MigrationInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListMigrations returns all registered migrations with descriptions.
func ListMigrations() []MigrationInfo {
	result := make([]MigrationInfo, len(migrationsList))
	for i, m := range migrationsList {
		result[i] = MigrationInfo{
			Name:        m.Name,
			Description: migrationDescription(m.Name),
		}
	}
	return result
}

func migrationDescription(name string) string {
	descriptions := map[string]string{
		"blob_size_column":        "Adds size column to blobs and backfills from content length",
		"revision_doc_count":      "Adds doc_count column to revisions and backfills from revision_items",
		"reviewer_comment_column": "Adds comment column to cr_reviewers for review feedback",
		"cr_outdated_column":      "Adds outdated column to change_requests for base divergence tracking",
	}
	if desc, ok := descriptions[name]; ok {
		return desc
	}
	return "Unknown migration"
}

// RunMigrations executes all registered migrations in order under an
// EXCLUSIVE transaction. Without the exclusive lock, parallel processes
// can race on check-then-alter DDL and fail with duplicate column
// errors.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec("BEGIN EXCLUSIVE"); err != nil {
		return fmt.Errorf("failed to acquire exclusive lock for migrations: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_, _ = db.Exec("ROLLBACK")
		}
	}()

	for _, migration := range migrationsList {
		if err := migration.Func(db); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}
	}

	if _, err := db.Exec("COMMIT"); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}
	committed = true
	return nil
}

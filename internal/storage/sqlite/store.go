// Package sqlite implements the storage interface on SQLite via the
// ncruces driver (pure Go, wazero-based).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/wikivault/wikivault/internal/storage"
)

// querier is the subset of *sql.DB and *sql.Tx the query methods run
// against, so every operation works both standalone and inside a
// transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries carries every storage operation over a querier. Store and tx
// both embed it, which is what lets one method set serve direct calls
// and transactional calls alike.
type queries struct {
	q querier
}

// Store is the SQLite-backed storage. It is safe for concurrent use;
// writers serialize on SQLite's write lock via IMMEDIATE transactions.
type Store struct {
	queries
	db   *sql.DB
	path string
}

var _ storage.Storage = (*Store)(nil)

func connString(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_time_format=sqlite&_txlock=immediate",
		path,
	)
}

// New opens (creating if needed) the database at path, applies the
// schema, and runs pending migrations. Migrations are guarded by a
// sibling lock file so concurrent processes do not race on
// check-then-alter DDL.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", connString(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps raw BEGIN/COMMIT pairs on one handle
	// and sidesteps SQLITE_BUSY between pooled writers.
	db.SetMaxOpenConns(1)

	s := &Store{queries: queries{q: db}, db: db, path: path}
	if err := s.initialize(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	lock := flock.New(lockPath(s.path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return RunMigrations(s.db)
}

func lockPath(dbPath string) string {
	dir := filepath.Dir(dbPath)
	return filepath.Join(dir, "."+filepath.Base(dbPath)+".lock")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for maintenance commands.
func (s *Store) DB() *sql.DB {
	return s.db
}

// tx adapts an open *sql.Tx to the storage.Transaction interface.
type tx struct {
	queries
}

var _ storage.Transaction = (*tx)(nil)

// RunInTransaction executes fn within a single IMMEDIATE transaction.
// An error from fn rolls back; a nil return commits.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx storage.Transaction) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = dbTx.Rollback()
		}
	}()

	if err := fn(&tx{queries: queries{q: dbTx}}); err != nil {
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// isUniqueConstraintError checks if err is a UNIQUE constraint
// violation, which the blob store relies on for dedup.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

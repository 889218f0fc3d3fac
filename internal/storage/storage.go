// Package storage defines the interface for wiki storage backends.
package storage

import (
	"context"
	"errors"

	"github.com/wikivault/wikivault/internal/types"
)

// ErrDBNotInitialized is returned when a storage feature is used before
// the database has been opened and migrated.
var ErrDBNotInitialized = errors.New("database not initialized")

// Transaction exposes the Storage operations that execute within a
// single database transaction. Multi-step workflows (snapshotting a
// revision, applying a merge, rewriting routes) run through
// RunInTransaction so they either fully land or fully roll back.
//
// SQLite transactions start in IMMEDIATE mode to acquire the write lock
// up front, which serializes concurrent writers instead of deadlocking
// them mid-transaction.
type Transaction interface {
	// Spaces
	CreateSpace(ctx context.Context, space *types.Space) error
	GetSpace(ctx context.Context, id string) (*types.Space, error)
	GetSpaceByRoute(ctx context.Context, route string) (*types.Space, error)
	UpdateSpace(ctx context.Context, space *types.Space) error
	ListSpaces(ctx context.Context) ([]*types.Space, error)

	// Live documents
	CreateDocument(ctx context.Context, doc *types.Document) error
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	GetDocumentByKey(ctx context.Context, docKey string) (*types.Document, error)
	GetDocumentByRoute(ctx context.Context, route string) (*types.Document, error)
	ListChildren(ctx context.Context, parentID string) ([]*types.Document, error)
	ListSubtree(ctx context.Context, rootID string) ([]*types.Document, error)
	UpdateDocument(ctx context.Context, doc *types.Document) error
	UpdateSortOrders(ctx context.Context, orders map[string]int) error
	CountRouteConflicts(ctx context.Context, newPrefix string, excludeRootID string) (int, error)
	RewriteRoutePrefix(ctx context.Context, rootID, oldPrefix, newPrefix string) (int, error)
	RebuildNestedSet(ctx context.Context, rootID string) error
	DeleteDocument(ctx context.Context, id string) error

	// Content blobs
	PutBlob(ctx context.Context, content, contentType string) (*types.Blob, error)
	GetBlob(ctx context.Context, id string) (*types.Blob, error)
	GetBlobs(ctx context.Context, ids []string) (map[string]*types.Blob, error)

	// Revisions
	CreateRevision(ctx context.Context, rev *types.Revision) error
	GetRevision(ctx context.Context, id string) (*types.Revision, error)
	UpdateRevisionHashes(ctx context.Context, id, treeHash, contentHash string, docCount int) error
	PutRevisionItem(ctx context.Context, item *types.RevisionItem) error
	GetRevisionItem(ctx context.Context, revisionID, docKey string) (*types.RevisionItem, error)
	GetRevisionItems(ctx context.Context, revisionID string) (map[string]*types.RevisionItem, error)
	DeleteRevisionItem(ctx context.Context, revisionID, docKey string) error
	CopyRevisionItems(ctx context.Context, fromRevisionID, toRevisionID string) error

	// Change requests
	CreateChangeRequest(ctx context.Context, cr *types.ChangeRequest) error
	GetChangeRequest(ctx context.Context, id string) (*types.ChangeRequest, error)
	ListChangeRequests(ctx context.Context, spaceID string, status types.CRStatus) ([]*types.ChangeRequest, error)
	UpdateChangeRequest(ctx context.Context, cr *types.ChangeRequest) error
	SetReviewers(ctx context.Context, crID string, reviewers []types.Reviewer) error
	GetReviewers(ctx context.Context, crID string) ([]types.Reviewer, error)
	UpdateReviewer(ctx context.Context, crID string, reviewer types.Reviewer) error

	// Merge conflicts
	AddMergeConflict(ctx context.Context, conflict *types.MergeConflict) error
	ListMergeConflicts(ctx context.Context, crID string) ([]*types.MergeConflict, error)
	ClearMergeConflicts(ctx context.Context, crID string) error

	// Config and metadata
	SetConfig(ctx context.Context, key, value string) error
	GetConfig(ctx context.Context, key string) (string, error)
	SetMetadata(ctx context.Context, key, value string) error
	GetMetadata(ctx context.Context, key string) (string, error)
}

// Storage is the full backend interface: every Transaction operation,
// runnable outside an explicit transaction, plus transaction control and
// lifecycle.
type Storage interface {
	Transaction

	// RunInTransaction executes fn within a single database
	// transaction. An error from fn rolls the transaction back and is
	// returned; a nil return commits.
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error

	Close() error
}

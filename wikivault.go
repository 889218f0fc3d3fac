// Package wikivault provides a minimal public API for embedding the
// versioned wiki core in other Go programs.
//
// It exports only the essential types and entry points: open a store,
// construct the service, and drive the same operations the wv CLI uses.
package wikivault

import (
	"context"

	"github.com/wikivault/wikivault/internal/config"
	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/storage/sqlite"
	"github.com/wikivault/wikivault/internal/types"
	"github.com/wikivault/wikivault/internal/wiki"
)

// Storage is the interface for wiki storage operations.
type Storage = storage.Storage

// Transaction provides atomic multi-operation support within a database
// transaction. Use Storage.RunInTransaction() to obtain one.
type Transaction = storage.Transaction

// Service exposes the core wiki operations: spaces, live tree, change
// requests, reviews, and merges.
type Service = wiki.Service

// Open opens (and migrates) the SQLite database at dbPath.
func Open(ctx context.Context, dbPath string) (Storage, error) {
	return sqlite.New(ctx, dbPath)
}

// NewService constructs a Service over an open store.
func NewService(store Storage) *Service {
	return wiki.New(store)
}

// FindProjectDir finds the .wikivault/ directory in the current
// directory tree. Returns empty string if not found.
func FindProjectDir() string {
	return config.ProjectDir()
}

// Core types from internal/types.
type (
	Principal      = types.Principal
	Space          = types.Space
	Document       = types.Document
	Blob           = types.Blob
	Revision       = types.Revision
	RevisionItem   = types.RevisionItem
	ChangeRequest  = types.ChangeRequest
	Reviewer       = types.Reviewer
	MergeConflict  = types.MergeConflict
	DocumentUpdate = types.DocumentUpdate
	DiffEntry      = types.DiffEntry
	CRStatus       = types.CRStatus
	ReviewStatus   = types.ReviewStatus
	ConflictType   = types.ConflictType
	TreeNode       = wiki.TreeNode
	CRNode         = wiki.CRNode
	CRPage         = wiki.CRPage
	PageInput      = wiki.PageInput
)

// Role names understood by the core.
const (
	RoleWikiManager   = types.RoleWikiManager
	RoleWikiApprover  = types.RoleWikiApprover
	RoleSystemManager = types.RoleSystemManager
)

// Error kind predicates, for mapping core failures onto transport or
// exit-code classes.
var (
	IsValidation = types.IsValidation
	IsPermission = types.IsPermission
	IsNotFound   = types.IsNotFound
)

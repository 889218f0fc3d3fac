package sqlite

import (
	"context"
	"testing"

	"github.com/wikivault/wikivault/internal/idgen"
	"github.com/wikivault/wikivault/internal/types"
)

// testEnv provides a test environment with common setup and helpers.
// Use newTestEnv(t) to create one with automatic cleanup.
type testEnv struct {
	t     *testing.T
	Store *Store
	Ctx   context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:     t,
		Store: newTestStore(t),
		Ctx:   context.Background(),
	}
}

// newTestStore creates a Store on a temp-dir database file. File-based
// databases behave like production here; ":memory:" would give each
// pooled connection its own empty database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := New(ctx, t.TempDir()+"/test.db")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if cerr := store.Close(); cerr != nil {
			t.Fatalf("Failed to close test database: %v", cerr)
		}
	})
	return store
}

// CreateSpace inserts a space row with a generated id.
func (e *testEnv) CreateSpace(name, route string) *types.Space {
	e.t.Helper()
	space := &types.Space{
		ID:          idgen.NewID("space"),
		DisplayName: name,
		Route:       route,
	}
	if err := e.Store.CreateSpace(e.Ctx, space); err != nil {
		e.t.Fatalf("CreateSpace(%q) failed: %v", name, err)
	}
	return space
}

// CreateDocument inserts a live document row.
func (e *testEnv) CreateDocument(title, parentID, route string, sortOrder int) *types.Document {
	e.t.Helper()
	doc := &types.Document{
		ID:          idgen.NewID("doc"),
		DocKey:      idgen.DocKey(),
		Title:       title,
		Slug:        title,
		IsPublished: true,
		ParentID:    parentID,
		SortOrder:   sortOrder,
		Route:       route,
	}
	if err := e.Store.CreateDocument(e.Ctx, doc); err != nil {
		e.t.Fatalf("CreateDocument(%q) failed: %v", title, err)
	}
	return doc
}

// CreateRevision inserts a revision row for the space.
func (e *testEnv) CreateRevision(spaceID, message string) *types.Revision {
	e.t.Helper()
	rev := &types.Revision{
		ID:      idgen.NewID("rev"),
		SpaceID: spaceID,
		Message: message,
	}
	if err := e.Store.CreateRevision(e.Ctx, rev); err != nil {
		e.t.Fatalf("CreateRevision(%q) failed: %v", message, err)
	}
	return rev
}

// PutItem upserts a revision item row.
func (e *testEnv) PutItem(revisionID, docKey, title, parentKey string, orderIndex int, blobID string) *types.RevisionItem {
	e.t.Helper()
	item := &types.RevisionItem{
		RevisionID:  revisionID,
		DocKey:      docKey,
		Title:       title,
		Slug:        title,
		IsPublished: true,
		ParentKey:   parentKey,
		OrderIndex:  orderIndex,
		BlobID:      blobID,
	}
	if err := e.Store.PutRevisionItem(e.Ctx, item); err != nil {
		e.t.Fatalf("PutRevisionItem(%s/%s) failed: %v", revisionID, docKey, err)
	}
	return item
}

// Package wiki implements the core operations over the versioned
// document tree: space and live-tree management, change request
// lifecycle, the working-revision editor, diffing, review, and the
// three-way merge with its applier. All operations take the
// authenticated principal explicitly; permission checks happen here,
// never in storage.
package wiki

import (
	"context"

	"github.com/wikivault/wikivault/internal/revision"
	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/types"
)

// Service exposes every core operation over a storage backend.
type Service struct {
	store storage.Storage
}

// New builds a service over an opened storage backend.
func New(store storage.Storage) *Service {
	return &Service{store: store}
}

// openChangeRequest loads a change request and rejects closed ones.
func openChangeRequest(ctx context.Context, tx storage.Transaction, crID string) (*types.ChangeRequest, error) {
	cr, err := tx.GetChangeRequest(ctx, crID)
	if err != nil {
		return nil, err
	}
	if !cr.Open() {
		return nil, types.ValidationErrorf("change request %s is %s", cr.ID, cr.Status)
	}
	return cr, nil
}

// recomputeHashes refreshes a revision's fingerprints from its current
// item set. Editor operations call this on the working head after every
// mutation so head hashes are always comparable against main's.
func recomputeHashes(ctx context.Context, tx storage.Transaction, revisionID string) error {
	items, err := tx.GetRevisionItems(ctx, revisionID)
	if err != nil {
		return err
	}
	list := make([]*types.RevisionItem, 0, len(items))
	for _, item := range items {
		list = append(list, item)
	}
	h := revision.Compute(list)
	return tx.UpdateRevisionHashes(ctx, revisionID, h.TreeHash, h.ContentHash, h.DocCount)
}

// withOpenCR runs an editor operation against a change request's
// working head in one transaction and recomputes the head's hashes on
// the way out.
func (s *Service) withOpenCR(ctx context.Context, crID string, fn func(tx storage.Transaction, cr *types.ChangeRequest) error) error {
	return s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		cr, err := openChangeRequest(ctx, tx, crID)
		if err != nil {
			return err
		}
		if err := fn(tx, cr); err != nil {
			return err
		}
		return recomputeHashes(ctx, tx, cr.HeadRevisionID)
	})
}

// requireEditor allows working-revision edits by the change request's
// owner or a moderator.
func requireEditor(p types.Principal, cr *types.ChangeRequest) error {
	if cr.Owner == p.User || p.CanModerate() {
		return nil
	}
	return types.PermissionErrorf("%s may not edit change request %s", p.User, cr.ID)
}

// liveItems returns a revision's non-deleted items.
func liveItems(ctx context.Context, tx storage.Transaction, revisionID string) (map[string]*types.RevisionItem, error) {
	items, err := tx.GetRevisionItems(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	for key, item := range items {
		if item.IsDeleted {
			delete(items, key)
		}
	}
	return items, nil
}

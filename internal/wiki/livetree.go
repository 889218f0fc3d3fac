package wiki

import (
	"context"

	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/types"
)

// ReorderResult reports how a reorder landed: directly on the live
// tree, or as a contribution captured in the caller's draft change
// request.
type ReorderResult struct {
	Contribution bool                 `json:"is_contribution"`
	CR           *types.ChangeRequest `json:"cr,omitempty"`
}

// Reorder moves a document to a new position among the given siblings
// and, when the parent differs, reparents it. Callers with direct-write
// capability hit the live tree: one CASE-driven sort_order update, a
// nested-set rebuild only if the parent changed, and a "Direct reorder"
// snapshot that advances the main revision. Other callers have the same
// edit recorded in their draft change request instead. Routes are never
// touched either way.
func (s *Service) Reorder(ctx context.Context, p types.Principal, docID, newParentID string, siblingIDs []string) (*ReorderResult, error) {
	doc, err := s.store.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	space, err := s.spaceOfDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	if !p.CanWriteLive() {
		return s.reorderAsContribution(ctx, p, space, doc, newParentID, siblingIDs)
	}

	err = s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		space, err := tx.GetSpace(ctx, space.ID)
		if err != nil {
			return err
		}
		parentChanged := newParentID != "" && newParentID != doc.ParentID
		if parentChanged {
			if _, err := tx.GetDocument(ctx, newParentID); err != nil {
				return err
			}
			doc.ParentID = newParentID
			if err := tx.UpdateDocument(ctx, doc); err != nil {
				return err
			}
		}

		orders := make(map[string]int, len(siblingIDs))
		for i, id := range siblingIDs {
			orders[id] = i
		}
		if err := tx.UpdateSortOrders(ctx, orders); err != nil {
			return err
		}
		if parentChanged {
			if err := tx.RebuildNestedSet(ctx, space.RootGroupID); err != nil {
				return err
			}
		}

		rev, err := snapshotLive(ctx, tx, space, "Direct reorder", space.MainRevisionID, p.User)
		if err != nil {
			return err
		}
		space.MainRevisionID = rev.ID
		return tx.UpdateSpace(ctx, space)
	})
	if err != nil {
		return nil, err
	}
	return &ReorderResult{}, nil
}

// reorderAsContribution records a structural edit in the caller's draft
// change request: the moved document is reparented in the working
// revision and the sibling order is rewritten to match.
func (s *Service) reorderAsContribution(ctx context.Context, p types.Principal, space *types.Space, doc *types.Document, newParentID string, siblingIDs []string) (*ReorderResult, error) {
	cr, err := s.GetOrCreateDraft(ctx, p, space.Route)
	if err != nil {
		return nil, err
	}
	// Ensuring the main revision may have just assigned doc keys.
	doc, err = s.store.GetDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	newParentKey := ""
	if newParentID != "" && newParentID != doc.ParentID {
		parent, err := s.store.GetDocument(ctx, newParentID)
		if err != nil {
			return nil, err
		}
		newParentKey = parent.DocKey
	}

	siblingKeys := make([]string, 0, len(siblingIDs))
	for _, id := range siblingIDs {
		sibling, err := s.store.GetDocument(ctx, id)
		if types.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if sibling.DocKey != "" {
			siblingKeys = append(siblingKeys, sibling.DocKey)
		}
	}

	err = s.withOpenCR(ctx, cr.ID, func(tx storage.Transaction, cr *types.ChangeRequest) error {
		if newParentKey != "" {
			item, err := tx.GetRevisionItem(ctx, cr.HeadRevisionID, doc.DocKey)
			if err != nil {
				return err
			}
			item.ParentKey = newParentKey
			if err := tx.PutRevisionItem(ctx, item); err != nil {
				return err
			}
		}
		for i, key := range siblingKeys {
			item, err := tx.GetRevisionItem(ctx, cr.HeadRevisionID, key)
			if types.IsNotFound(err) {
				continue
			}
			if err != nil {
				return err
			}
			item.OrderIndex = i
			if err := tx.PutRevisionItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ReorderResult{Contribution: true, CR: cr}, nil
}

// spaceOfDocument walks a document's parent chain to its root and
// resolves the space owning that root group.
func (s *Service) spaceOfDocument(ctx context.Context, doc *types.Document) (*types.Space, error) {
	rootID := doc.ID
	current := doc
	seen := map[string]bool{doc.ID: true}
	for current.ParentID != "" {
		parent, err := s.store.GetDocument(ctx, current.ParentID)
		if err != nil {
			return nil, err
		}
		if seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		rootID = parent.ID
		current = parent
	}

	spaces, err := s.store.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}
	for _, space := range spaces {
		if space.RootGroupID == rootID {
			return space, nil
		}
	}
	return nil, types.NotFoundErrorf("document %s belongs to no space", doc.ID)
}

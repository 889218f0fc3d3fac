package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/wikivault/wikivault/internal/idgen"
	"github.com/wikivault/wikivault/internal/merge"
	"github.com/wikivault/wikivault/internal/revision"
	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/types"
)

// Merge three-way merges a change request into its space's live tree.
// Base is the CR's base revision, ours the current main revision,
// theirs the CR's working head.
//
// Everything happens in one transaction: a clean merge creates a merge
// revision, applies it to the live documents, and promotes it to main;
// a conflicted merge records every conflict, commits only those rows,
// and fails with a validation error. The live tree never sees a partial
// merge.
func (s *Service) Merge(ctx context.Context, p types.Principal, crID string) (*types.Revision, error) {
	if !p.CanModerate() {
		return nil, types.PermissionErrorf("%s may not merge change requests", p.User)
	}

	var mergeRev *types.Revision
	var conflicts []*types.MergeConflict
	err := s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		cr, err := openChangeRequest(ctx, tx, crID)
		if err != nil {
			return err
		}
		space, err := tx.GetSpace(ctx, cr.SpaceID)
		if err != nil {
			return err
		}

		base, err := loadMergeItems(ctx, tx, cr.BaseRevisionID)
		if err != nil {
			return err
		}
		ours, err := loadMergeItems(ctx, tx, space.MainRevisionID)
		if err != nil {
			return err
		}
		theirs, err := loadMergeItems(ctx, tx, cr.HeadRevisionID)
		if err != nil {
			return err
		}

		merged := make(map[string]*merge.Item)
		for _, key := range unionKeys(base, ours, theirs) {
			result, conflictType := merge.ThreeWay(base[key], ours[key], theirs[key])
			if conflictType != "" {
				conflicts = append(conflicts, &types.MergeConflict{
					ChangeRequestID: crID,
					DocKey:          key,
					Type:            conflictType,
					BasePayload:     conflictPayload(base[key]),
					OursPayload:     conflictPayload(ours[key]),
					TheirsPayload:   conflictPayload(theirs[key]),
				})
				continue
			}
			if result != nil {
				merged[key] = result
			}
		}

		if err := tx.ClearMergeConflicts(ctx, crID); err != nil {
			return err
		}
		if len(conflicts) > 0 {
			// Commit the conflict rows and nothing else; the caller
			// gets the validation error after the transaction lands.
			for _, c := range conflicts {
				if err := tx.AddMergeConflict(ctx, c); err != nil {
					return err
				}
			}
			return nil
		}

		mergeRev = &types.Revision{
			ID:               idgen.NewID("rev"),
			SpaceID:          space.ID,
			ParentRevisionID: cr.BaseRevisionID,
			ChangeRequestID:  cr.ID,
			Message:          fmt.Sprintf("Merge %s", cr.ID),
			IsMerge:          true,
			CreatedBy:        p.User,
		}
		if err := tx.CreateRevision(ctx, mergeRev); err != nil {
			return err
		}

		items := make([]*types.RevisionItem, 0, len(merged))
		for _, key := range sortedKeys(merged) {
			m := merged[key]
			blob, err := tx.PutBlob(ctx, m.Content, "")
			if err != nil {
				return err
			}
			item := &types.RevisionItem{
				RevisionID:  mergeRev.ID,
				DocKey:      m.DocKey,
				Title:       m.Title,
				Slug:        m.Slug,
				IsGroup:     m.IsGroup,
				IsPublished: m.IsPublished,
				ParentKey:   m.ParentKey,
				OrderIndex:  m.OrderIndex,
				BlobID:      blob.ID,
				ContentHash: blob.Hash,
			}
			if err := tx.PutRevisionItem(ctx, item); err != nil {
				return err
			}
			items = append(items, item)
		}
		h := revision.Compute(items)
		if err := tx.UpdateRevisionHashes(ctx, mergeRev.ID, h.TreeHash, h.ContentHash, h.DocCount); err != nil {
			return err
		}
		mergeRev.TreeHash, mergeRev.ContentHash, mergeRev.DocCount = h.TreeHash, h.ContentHash, h.DocCount

		if err := applyMergeRevision(ctx, tx, space, mergeRev.ID); err != nil {
			return err
		}

		now := time.Now().UTC()
		cr.Status = types.StatusMerged
		cr.MergeRevisionID = mergeRev.ID
		cr.MergedAt = &now
		cr.MergedBy = p.User
		cr.Outdated = false
		return tx.UpdateChangeRequest(ctx, cr)
	})
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, types.ValidationErrorf("merge of change request %s hit %d conflicts", crID, len(conflicts))
	}
	return mergeRev, nil
}

// loadMergeItems resolves a revision's non-deleted items into pure
// merge inputs, blob contents included.
func loadMergeItems(ctx context.Context, tx storage.Transaction, revisionID string) (map[string]*merge.Item, error) {
	items, err := liveItems(ctx, tx, revisionID)
	if err != nil {
		return nil, err
	}
	var blobIDs []string
	for _, item := range items {
		if item.BlobID != "" {
			blobIDs = append(blobIDs, item.BlobID)
		}
	}
	blobs, err := tx.GetBlobs(ctx, blobIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*merge.Item, len(items))
	for key, item := range items {
		m := &merge.Item{
			DocKey:      item.DocKey,
			Title:       item.Title,
			Slug:        item.Slug,
			IsGroup:     item.IsGroup,
			IsPublished: item.IsPublished,
			ParentKey:   item.ParentKey,
			OrderIndex:  item.OrderIndex,
		}
		if blob := blobs[item.BlobID]; blob != nil {
			m.Content = blob.Content
		}
		out[key] = m
	}
	return out, nil
}

// applyMergeRevision writes a revision's tree into the live documents
// and promotes it to the space's main revision. Existing documents keep
// their route no matter how they moved; new documents get a route under
// their parent. Order is pre-order so parents land before children.
func applyMergeRevision(ctx context.Context, tx storage.Transaction, space *types.Space, revisionID string) error {
	items, err := tx.GetRevisionItems(ctx, revisionID)
	if err != nil {
		return err
	}
	order := revision.TreeOrder(items)

	var blobIDs []string
	for _, item := range items {
		if item.BlobID != "" {
			blobIDs = append(blobIDs, item.BlobID)
		}
	}
	blobs, err := tx.GetBlobs(ctx, blobIDs)
	if err != nil {
		return err
	}

	docByKey := make(map[string]*types.Document, len(items))
	for _, key := range order {
		doc, err := tx.GetDocumentByKey(ctx, key)
		if err == nil {
			docByKey[key] = doc
		} else if !types.IsNotFound(err) {
			return err
		}
	}

	for _, key := range order {
		item := items[key]
		if item.IsDeleted {
			continue
		}
		content := ""
		if blob := blobs[item.BlobID]; blob != nil {
			content = blob.Content
		}
		parentID, parentRoute := "", space.Route
		if item.ParentKey != "" {
			if parent := docByKey[item.ParentKey]; parent != nil {
				parentID, parentRoute = parent.ID, parent.Route
			} else {
				parentID = space.RootGroupID
			}
		}

		if doc := docByKey[key]; doc != nil {
			doc.Title = item.Title
			doc.Slug = item.Slug
			doc.IsGroup = item.IsGroup
			doc.IsPublished = item.IsPublished
			doc.ParentID = parentID
			doc.SortOrder = item.OrderIndex
			doc.Content = content
			if err := tx.UpdateDocument(ctx, doc); err != nil {
				return err
			}
			continue
		}

		doc := &types.Document{
			ID:          idgen.NewID("doc"),
			DocKey:      key,
			Title:       item.Title,
			Slug:        item.Slug,
			IsGroup:     item.IsGroup,
			IsPublished: item.IsPublished,
			ParentID:    parentID,
			SortOrder:   item.OrderIndex,
			Route:       parentRoute + "/" + item.Slug,
			Content:     content,
		}
		if err := tx.CreateDocument(ctx, doc); err != nil {
			if !types.IsValidation(err) {
				return err
			}
			// Route taken; disambiguate with the stable doc key.
			doc.Route = doc.Route + "-" + key
			if err := tx.CreateDocument(ctx, doc); err != nil {
				return err
			}
		}
		docByKey[key] = doc
	}

	if err := tx.RebuildNestedSet(ctx, space.RootGroupID); err != nil {
		return err
	}
	space.MainRevisionID = revisionID
	return tx.UpdateSpace(ctx, space)
}

// ListConflicts returns the recorded conflicts of the last failed merge
// attempt, ordered by doc key.
func (s *Service) ListConflicts(ctx context.Context, crID string) ([]*types.MergeConflict, error) {
	return s.store.ListMergeConflicts(ctx, crID)
}

func conflictPayload(item *merge.Item) string {
	if item == nil {
		return ""
	}
	data, err := json.Marshal(item)
	if err != nil {
		return ""
	}
	return string(data)
}

func unionKeys(maps ...map[string]*merge.Item) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range maps {
		for key := range m {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]*merge.Item) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

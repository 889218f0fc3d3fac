package wiki

import (
	"context"

	"github.com/wikivault/wikivault/internal/idgen"
	"github.com/wikivault/wikivault/internal/revision"
	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/types"
)

// snapshotLive captures the live tree of a space as a new revision.
// Documents without a doc key are assigned one in the same transaction,
// so every snapshot after the first sees stable keys. Content goes
// through the blob store, deduplicated by hash.
func snapshotLive(ctx context.Context, tx storage.Transaction, space *types.Space, message, parentRevisionID, actor string) (*types.Revision, error) {
	docs, err := tx.ListSubtree(ctx, space.RootGroupID)
	if err != nil {
		return nil, err
	}

	rev := &types.Revision{
		ID:               idgen.NewID("rev"),
		SpaceID:          space.ID,
		ParentRevisionID: parentRevisionID,
		Message:          message,
		CreatedBy:        actor,
	}
	if err := tx.CreateRevision(ctx, rev); err != nil {
		return nil, err
	}

	keyByID := make(map[string]string, len(docs))
	for _, doc := range docs {
		if doc.DocKey == "" {
			doc.DocKey = idgen.DocKey()
			if err := tx.UpdateDocument(ctx, doc); err != nil {
				return nil, err
			}
		}
		keyByID[doc.ID] = doc.DocKey
	}

	items := make([]*types.RevisionItem, 0, len(docs))
	for _, doc := range docs {
		blob, err := tx.PutBlob(ctx, doc.Content, "")
		if err != nil {
			return nil, err
		}
		item := &types.RevisionItem{
			RevisionID:  rev.ID,
			DocKey:      doc.DocKey,
			Title:       doc.Title,
			Slug:        doc.Slug,
			IsGroup:     doc.IsGroup,
			IsPublished: doc.IsPublished,
			ParentKey:   keyByID[doc.ParentID],
			OrderIndex:  doc.SortOrder,
			BlobID:      blob.ID,
			ContentHash: blob.Hash,
		}
		if err := tx.PutRevisionItem(ctx, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	h := revision.Compute(items)
	if err := tx.UpdateRevisionHashes(ctx, rev.ID, h.TreeHash, h.ContentHash, h.DocCount); err != nil {
		return nil, err
	}
	rev.TreeHash, rev.ContentHash, rev.DocCount = h.TreeHash, h.ContentHash, h.DocCount
	return rev, nil
}

// cloneRevision shallow-copies a base revision into a fresh working
// revision owned by a change request. Blob ids are shared; only the
// item rows are duplicated.
func cloneRevision(ctx context.Context, tx storage.Transaction, base *types.Revision, crID, actor string) (*types.Revision, error) {
	head := &types.Revision{
		ID:               idgen.NewID("rev"),
		SpaceID:          base.SpaceID,
		ParentRevisionID: base.ID,
		ChangeRequestID:  crID,
		Message:          "Working revision",
		IsWorking:        true,
		TreeHash:         base.TreeHash,
		ContentHash:      base.ContentHash,
		DocCount:         base.DocCount,
		CreatedBy:        actor,
	}
	if err := tx.CreateRevision(ctx, head); err != nil {
		return nil, err
	}
	if err := tx.CopyRevisionItems(ctx, base.ID, head.ID); err != nil {
		return nil, err
	}
	return head, nil
}

// ensureMainRevision snapshots the live tree as the initial main
// revision when the space has none yet.
func ensureMainRevision(ctx context.Context, tx storage.Transaction, space *types.Space, actor string) (*types.Revision, error) {
	if space.MainRevisionID != "" {
		return tx.GetRevision(ctx, space.MainRevisionID)
	}
	rev, err := snapshotLive(ctx, tx, space, "Initial main", "", actor)
	if err != nil {
		return nil, err
	}
	space.MainRevisionID = rev.ID
	if err := tx.UpdateSpace(ctx, space); err != nil {
		return nil, err
	}
	return rev, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wikivault/wikivault/internal/types"
)

func (q *queries) CreateRevision(ctx context.Context, rev *types.Revision) error {
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO revisions (id, space_id, parent_revision_id, change_request_id, message,
			is_working, is_merge, tree_hash, content_hash, doc_count, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rev.ID, rev.SpaceID, rev.ParentRevisionID, rev.ChangeRequestID, rev.Message,
		rev.IsWorking, rev.IsMerge, rev.TreeHash, rev.ContentHash, rev.DocCount,
		rev.CreatedAt, rev.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert revision: %w", err)
	}
	return nil
}

func (q *queries) GetRevision(ctx context.Context, id string) (*types.Revision, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT id, space_id, parent_revision_id, change_request_id, message,
		       is_working, is_merge, tree_hash, content_hash, doc_count, created_at, created_by
		FROM revisions WHERE id = ?
	`, id)

	var rev types.Revision
	err := row.Scan(&rev.ID, &rev.SpaceID, &rev.ParentRevisionID, &rev.ChangeRequestID,
		&rev.Message, &rev.IsWorking, &rev.IsMerge, &rev.TreeHash, &rev.ContentHash,
		&rev.DocCount, &rev.CreatedAt, &rev.CreatedBy)
	if err == sql.ErrNoRows {
		return nil, types.NotFoundErrorf("revision %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision: %w", err)
	}
	return &rev, nil
}

// UpdateRevisionHashes stores recomputed fingerprints. Working heads
// recompute after every editor operation, so this leaves the working
// flag alone.
func (q *queries) UpdateRevisionHashes(ctx context.Context, id, treeHash, contentHash string, docCount int) error {
	res, err := q.q.ExecContext(ctx, `
		UPDATE revisions SET tree_hash = ?, content_hash = ?, doc_count = ?
		WHERE id = ?
	`, treeHash, contentHash, docCount, id)
	if err != nil {
		return fmt.Errorf("failed to update revision hashes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return types.NotFoundErrorf("revision %s not found", id)
	}
	return nil
}

// PutRevisionItem upserts one item row keyed by (revision_id, doc_key).
func (q *queries) PutRevisionItem(ctx context.Context, item *types.RevisionItem) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO revision_items (revision_id, doc_key, title, slug, is_group, is_published,
			parent_key, order_index, blob_id, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(revision_id, doc_key) DO UPDATE SET
			title = excluded.title, slug = excluded.slug, is_group = excluded.is_group,
			is_published = excluded.is_published, parent_key = excluded.parent_key,
			order_index = excluded.order_index, blob_id = excluded.blob_id,
			is_deleted = excluded.is_deleted
	`, item.RevisionID, item.DocKey, item.Title, item.Slug, item.IsGroup, item.IsPublished,
		item.ParentKey, item.OrderIndex, item.BlobID, item.IsDeleted)
	if err != nil {
		return fmt.Errorf("failed to upsert revision item: %w", err)
	}
	return nil
}

const revisionItemColumns = `i.revision_id, i.doc_key, i.title, i.slug, i.is_group,
	i.is_published, i.parent_key, i.order_index, i.blob_id, i.is_deleted,
	COALESCE(b.hash, '')`

func (q *queries) GetRevisionItem(ctx context.Context, revisionID, docKey string) (*types.RevisionItem, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+revisionItemColumns+`
		FROM revision_items i LEFT JOIN blobs b ON i.blob_id = b.id
		WHERE i.revision_id = ? AND i.doc_key = ?
	`, revisionID, docKey)

	item, err := scanRevisionItem(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFoundErrorf("document %s not found in revision %s", docKey, revisionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision item: %w", err)
	}
	return item, nil
}

func scanRevisionItem(row rowScanner) (*types.RevisionItem, error) {
	var item types.RevisionItem
	err := row.Scan(&item.RevisionID, &item.DocKey, &item.Title, &item.Slug, &item.IsGroup,
		&item.IsPublished, &item.ParentKey, &item.OrderIndex, &item.BlobID, &item.IsDeleted,
		&item.ContentHash)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetRevisionItems loads all items of a revision keyed by doc_key,
// with blob hashes joined in for fingerprint computation. Deleted
// items are included; callers filter.
func (q *queries) GetRevisionItems(ctx context.Context, revisionID string) (map[string]*types.RevisionItem, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+revisionItemColumns+`
		FROM revision_items i LEFT JOIN blobs b ON i.blob_id = b.id
		WHERE i.revision_id = ?
	`, revisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query revision items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]*types.RevisionItem)
	for rows.Next() {
		item, err := scanRevisionItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision item: %w", err)
		}
		items[item.DocKey] = item
	}
	return items, rows.Err()
}

func (q *queries) DeleteRevisionItem(ctx context.Context, revisionID, docKey string) error {
	res, err := q.q.ExecContext(ctx, `
		DELETE FROM revision_items WHERE revision_id = ? AND doc_key = ?
	`, revisionID, docKey)
	if err != nil {
		return fmt.Errorf("failed to delete revision item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return types.NotFoundErrorf("document %s not found in revision %s", docKey, revisionID)
	}
	return nil
}

// CopyRevisionItems clones every item of one revision into another,
// which is how a working revision starts as its base's snapshot.
func (q *queries) CopyRevisionItems(ctx context.Context, fromRevisionID, toRevisionID string) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO revision_items (revision_id, doc_key, title, slug, is_group, is_published,
			parent_key, order_index, blob_id, is_deleted)
		SELECT ?, doc_key, title, slug, is_group, is_published,
			parent_key, order_index, blob_id, is_deleted
		FROM revision_items WHERE revision_id = ?
	`, toRevisionID, fromRevisionID)
	if err != nil {
		return fmt.Errorf("failed to copy revision items: %w", err)
	}
	return nil
}

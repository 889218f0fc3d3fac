package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wikivault/wikivault/internal/idgen"
	"github.com/wikivault/wikivault/internal/revision"
	"github.com/wikivault/wikivault/internal/types"
)

// PutBlob stores content in the blob table, deduplicating on hash. The
// returned blob is the existing row when the content was already
// stored. Concurrent inserts of the same content race on the UNIQUE
// index; the loser refetches the winner's row.
func (q *queries) PutBlob(ctx context.Context, content, contentType string) (*types.Blob, error) {
	if contentType == "" {
		contentType = types.DefaultContentType
	}
	hash := revision.BlobHash(content)

	if blob, err := q.getBlobByHash(ctx, hash); err == nil {
		return blob, nil
	} else if !types.IsNotFound(err) {
		return nil, err
	}

	blob := &types.Blob{
		ID:          idgen.NewID("blob"),
		Hash:        hash,
		Content:     content,
		ContentType: contentType,
		Size:        int64(len(content)),
		CreatedAt:   time.Now().UTC(),
	}
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO blobs (id, hash, content, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, blob.ID, blob.Hash, blob.Content, blob.ContentType, blob.Size, blob.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return q.getBlobByHash(ctx, hash)
		}
		return nil, fmt.Errorf("failed to insert blob: %w", err)
	}
	return blob, nil
}

func (q *queries) GetBlob(ctx context.Context, id string) (*types.Blob, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT id, hash, content, content_type, size, created_at
		FROM blobs WHERE id = ?
	`, id)
	return scanBlob(row, id)
}

func (q *queries) getBlobByHash(ctx context.Context, hash string) (*types.Blob, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT id, hash, content, content_type, size, created_at
		FROM blobs WHERE hash = ?
	`, hash)
	return scanBlob(row, hash)
}

func scanBlob(row *sql.Row, ref string) (*types.Blob, error) {
	var blob types.Blob
	err := row.Scan(&blob.ID, &blob.Hash, &blob.Content, &blob.ContentType, &blob.Size, &blob.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, types.NotFoundErrorf("blob %s not found", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}
	return &blob, nil
}

// GetBlobs fetches a batch of blobs by id. Missing ids are simply
// absent from the result map.
func (q *queries) GetBlobs(ctx context.Context, ids []string) (map[string]*types.Blob, error) {
	result := make(map[string]*types.Blob)
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT id, hash, content, content_type, size, created_at
		FROM blobs WHERE id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query blobs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blob types.Blob
		if err := rows.Scan(&blob.ID, &blob.Hash, &blob.Content, &blob.ContentType,
			&blob.Size, &blob.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blob: %w", err)
		}
		result[blob.ID] = &blob
	}
	return result, rows.Err()
}

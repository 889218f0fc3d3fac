package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/wikivault/wikivault/internal/types"
)

func (q *queries) AddMergeConflict(ctx context.Context, conflict *types.MergeConflict) error {
	if conflict.Status == "" {
		conflict.Status = types.ConflictOpen
	}
	if conflict.CreatedAt.IsZero() {
		conflict.CreatedAt = time.Now().UTC()
	}
	res, err := q.q.ExecContext(ctx, `
		INSERT INTO merge_conflicts (change_request_id, doc_key, conflict_type,
			base_payload, ours_payload, theirs_payload, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, conflict.ChangeRequestID, conflict.DocKey, string(conflict.Type),
		conflict.BasePayload, conflict.OursPayload, conflict.TheirsPayload,
		string(conflict.Status), conflict.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert merge conflict: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read conflict id: %w", err)
	}
	conflict.ID = id
	return nil
}

func (q *queries) ListMergeConflicts(ctx context.Context, crID string) ([]*types.MergeConflict, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, change_request_id, doc_key, conflict_type,
		       base_payload, ours_payload, theirs_payload, status, created_at
		FROM merge_conflicts WHERE change_request_id = ? ORDER BY doc_key, id
	`, crID)
	if err != nil {
		return nil, fmt.Errorf("failed to query merge conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []*types.MergeConflict
	for rows.Next() {
		var c types.MergeConflict
		var conflictType, status string
		if err := rows.Scan(&c.ID, &c.ChangeRequestID, &c.DocKey, &conflictType,
			&c.BasePayload, &c.OursPayload, &c.TheirsPayload, &status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan merge conflict: %w", err)
		}
		c.Type = types.ConflictType(conflictType)
		c.Status = types.ConflictStatus(status)
		conflicts = append(conflicts, &c)
	}
	return conflicts, rows.Err()
}

// ClearMergeConflicts drops every recorded conflict of a change
// request, which happens before each fresh merge attempt.
func (q *queries) ClearMergeConflicts(ctx context.Context, crID string) error {
	if _, err := q.q.ExecContext(ctx, `
		DELETE FROM merge_conflicts WHERE change_request_id = ?
	`, crID); err != nil {
		return fmt.Errorf("failed to clear merge conflicts: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wikivault/wikivault/internal/types"
)

const changeRequestColumns = `id, space_id, title, description, status, base_revision_id,
	head_revision_id, merge_revision_id, outdated, owner, created_at, updated_at,
	merged_at, merged_by, archived_at`

func (q *queries) CreateChangeRequest(ctx context.Context, cr *types.ChangeRequest) error {
	now := time.Now().UTC()
	if cr.CreatedAt.IsZero() {
		cr.CreatedAt = now
	}
	cr.UpdatedAt = now

	_, err := q.q.ExecContext(ctx, `
		INSERT INTO change_requests (`+changeRequestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cr.ID, cr.SpaceID, cr.Title, cr.Description, string(cr.Status), cr.BaseRevisionID,
		cr.HeadRevisionID, cr.MergeRevisionID, cr.Outdated, cr.Owner, cr.CreatedAt, cr.UpdatedAt,
		cr.MergedAt, cr.MergedBy, cr.ArchivedAt)
	if err != nil {
		return fmt.Errorf("failed to insert change request: %w", err)
	}
	return nil
}

func scanChangeRequest(row rowScanner) (*types.ChangeRequest, error) {
	var cr types.ChangeRequest
	var status string
	var mergedAt, archivedAt sql.NullTime
	err := row.Scan(&cr.ID, &cr.SpaceID, &cr.Title, &cr.Description, &status,
		&cr.BaseRevisionID, &cr.HeadRevisionID, &cr.MergeRevisionID, &cr.Outdated, &cr.Owner,
		&cr.CreatedAt, &cr.UpdatedAt, &mergedAt, &cr.MergedBy, &archivedAt)
	if err != nil {
		return nil, err
	}
	cr.Status = types.CRStatus(status)
	if mergedAt.Valid {
		cr.MergedAt = &mergedAt.Time
	}
	if archivedAt.Valid {
		cr.ArchivedAt = &archivedAt.Time
	}
	return &cr, nil
}

func (q *queries) GetChangeRequest(ctx context.Context, id string) (*types.ChangeRequest, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+changeRequestColumns+` FROM change_requests WHERE id = ?
	`, id)
	cr, err := scanChangeRequest(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFoundErrorf("change request %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get change request: %w", err)
	}

	reviewers, err := q.GetReviewers(ctx, id)
	if err != nil {
		return nil, err
	}
	cr.Reviewers = reviewers
	return cr, nil
}

// ListChangeRequests returns a space's change requests, newest first.
// An empty status matches all statuses. Reviewer lists are not loaded;
// use GetChangeRequest for the full record.
func (q *queries) ListChangeRequests(ctx context.Context, spaceID string, status types.CRStatus) ([]*types.ChangeRequest, error) {
	query := `SELECT ` + changeRequestColumns + ` FROM change_requests WHERE space_id = ?`
	args := []any{spaceID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list change requests: %w", err)
	}
	defer rows.Close()

	var crs []*types.ChangeRequest
	for rows.Next() {
		cr, err := scanChangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change request: %w", err)
		}
		crs = append(crs, cr)
	}
	return crs, rows.Err()
}

func (q *queries) UpdateChangeRequest(ctx context.Context, cr *types.ChangeRequest) error {
	cr.UpdatedAt = time.Now().UTC()
	res, err := q.q.ExecContext(ctx, `
		UPDATE change_requests
		SET title = ?, description = ?, status = ?, base_revision_id = ?, head_revision_id = ?,
		    merge_revision_id = ?, outdated = ?, owner = ?, updated_at = ?,
		    merged_at = ?, merged_by = ?, archived_at = ?
		WHERE id = ?
	`, cr.Title, cr.Description, string(cr.Status), cr.BaseRevisionID, cr.HeadRevisionID,
		cr.MergeRevisionID, cr.Outdated, cr.Owner, cr.UpdatedAt,
		cr.MergedAt, cr.MergedBy, cr.ArchivedAt, cr.ID)
	if err != nil {
		return fmt.Errorf("failed to update change request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return types.NotFoundErrorf("change request %s not found", cr.ID)
	}
	return nil
}

// SetReviewers replaces the reviewer set of a change request. Requesting
// review again resets everyone to a fresh row, dropping prior approvals.
func (q *queries) SetReviewers(ctx context.Context, crID string, reviewers []types.Reviewer) error {
	if _, err := q.q.ExecContext(ctx, `
		DELETE FROM cr_reviewers WHERE change_request_id = ?
	`, crID); err != nil {
		return fmt.Errorf("failed to clear reviewers: %w", err)
	}

	for _, r := range reviewers {
		if r.Status == "" {
			r.Status = types.ReviewRequested
		}
		_, err := q.q.ExecContext(ctx, `
			INSERT INTO cr_reviewers (change_request_id, reviewer, status, reviewed_at, comment)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(change_request_id, reviewer) DO NOTHING
		`, crID, r.Reviewer, string(r.Status), r.ReviewedAt, r.Comment)
		if err != nil {
			return fmt.Errorf("failed to add reviewer: %w", err)
		}
	}
	return nil
}

func (q *queries) GetReviewers(ctx context.Context, crID string) ([]types.Reviewer, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT reviewer, status, reviewed_at, comment
		FROM cr_reviewers WHERE change_request_id = ? ORDER BY reviewer
	`, crID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviewers: %w", err)
	}
	defer rows.Close()

	var reviewers []types.Reviewer
	for rows.Next() {
		var r types.Reviewer
		var status string
		var reviewedAt sql.NullTime
		if err := rows.Scan(&r.Reviewer, &status, &reviewedAt, &r.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan reviewer: %w", err)
		}
		r.Status = types.ReviewStatus(status)
		if reviewedAt.Valid {
			r.ReviewedAt = &reviewedAt.Time
		}
		reviewers = append(reviewers, r)
	}
	return reviewers, rows.Err()
}

// UpdateReviewer upserts one reviewer row. A moderator recording a
// review for someone who was never formally requested still lands.
func (q *queries) UpdateReviewer(ctx context.Context, crID string, reviewer types.Reviewer) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO cr_reviewers (change_request_id, reviewer, status, reviewed_at, comment)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(change_request_id, reviewer) DO UPDATE SET
			status = excluded.status, reviewed_at = excluded.reviewed_at,
			comment = excluded.comment
	`, crID, reviewer.Reviewer, string(reviewer.Status), reviewer.ReviewedAt, reviewer.Comment)
	if err != nil {
		return fmt.Errorf("failed to upsert reviewer: %w", err)
	}
	return nil
}

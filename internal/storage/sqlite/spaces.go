package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wikivault/wikivault/internal/types"
)

func (q *queries) CreateSpace(ctx context.Context, space *types.Space) error {
	now := time.Now().UTC()
	if space.CreatedAt.IsZero() {
		space.CreatedAt = now
	}
	space.UpdatedAt = now

	_, err := q.q.ExecContext(ctx, `
		INSERT INTO spaces (id, display_name, route, root_group_id, main_revision_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, space.ID, space.DisplayName, space.Route, space.RootGroupID, space.MainRevisionID,
		space.CreatedAt, space.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return types.ValidationErrorf("space route %q is already taken", space.Route)
		}
		return fmt.Errorf("failed to insert space: %w", err)
	}
	return nil
}

func (q *queries) GetSpace(ctx context.Context, id string) (*types.Space, error) {
	return q.scanSpace(ctx, `WHERE id = ?`, id)
}

func (q *queries) GetSpaceByRoute(ctx context.Context, route string) (*types.Space, error) {
	return q.scanSpace(ctx, `WHERE route = ?`, route)
}

func (q *queries) scanSpace(ctx context.Context, where string, arg any) (*types.Space, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT id, display_name, route, root_group_id, main_revision_id, created_at, updated_at
		FROM spaces `+where, arg)

	var space types.Space
	err := row.Scan(&space.ID, &space.DisplayName, &space.Route, &space.RootGroupID,
		&space.MainRevisionID, &space.CreatedAt, &space.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, types.NotFoundErrorf("space %v not found", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	return &space, nil
}

func (q *queries) UpdateSpace(ctx context.Context, space *types.Space) error {
	space.UpdatedAt = time.Now().UTC()
	res, err := q.q.ExecContext(ctx, `
		UPDATE spaces
		SET display_name = ?, route = ?, root_group_id = ?, main_revision_id = ?, updated_at = ?
		WHERE id = ?
	`, space.DisplayName, space.Route, space.RootGroupID, space.MainRevisionID,
		space.UpdatedAt, space.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return types.ValidationErrorf("space route %q is already taken", space.Route)
		}
		return fmt.Errorf("failed to update space: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return types.NotFoundErrorf("space %s not found", space.ID)
	}
	return nil
}

func (q *queries) ListSpaces(ctx context.Context) ([]*types.Space, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, display_name, route, root_group_id, main_revision_id, created_at, updated_at
		FROM spaces ORDER BY display_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer rows.Close()

	var spaces []*types.Space
	for rows.Next() {
		var space types.Space
		if err := rows.Scan(&space.ID, &space.DisplayName, &space.Route, &space.RootGroupID,
			&space.MainRevisionID, &space.CreatedAt, &space.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan space: %w", err)
		}
		spaces = append(spaces, &space)
	}
	return spaces, rows.Err()
}

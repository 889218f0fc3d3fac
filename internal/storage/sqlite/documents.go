package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wikivault/wikivault/internal/types"
)

const documentColumns = `id, doc_key, title, slug, is_group, is_published, parent_id,
	sort_order, route, content, lft, rgt, created_at, updated_at`

func (q *queries) CreateDocument(ctx context.Context, doc *types.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := q.q.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.DocKey, doc.Title, doc.Slug, doc.IsGroup, doc.IsPublished, doc.ParentID,
		doc.SortOrder, doc.Route, doc.Content, doc.Lft, doc.Rgt, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return types.ValidationErrorf("document route %q is already taken", doc.Route)
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (q *queries) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	return q.scanDocumentWhere(ctx, `WHERE id = ?`, id)
}

func (q *queries) GetDocumentByKey(ctx context.Context, docKey string) (*types.Document, error) {
	return q.scanDocumentWhere(ctx, `WHERE doc_key = ?`, docKey)
}

func (q *queries) GetDocumentByRoute(ctx context.Context, route string) (*types.Document, error) {
	return q.scanDocumentWhere(ctx, `WHERE route = ?`, route)
}

func (q *queries) scanDocumentWhere(ctx context.Context, where string, arg any) (*types.Document, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents `+where, arg)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFoundErrorf("document %v not found", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*types.Document, error) {
	var doc types.Document
	err := row.Scan(&doc.ID, &doc.DocKey, &doc.Title, &doc.Slug, &doc.IsGroup, &doc.IsPublished,
		&doc.ParentID, &doc.SortOrder, &doc.Route, &doc.Content, &doc.Lft, &doc.Rgt,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (q *queries) listDocuments(ctx context.Context, query string, args ...any) ([]*types.Document, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListChildren returns the direct children of a document ordered by
// (sort_order, title), the display order of the tree.
func (q *queries) ListChildren(ctx context.Context, parentID string) ([]*types.Document, error) {
	return q.listDocuments(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE parent_id = ? ORDER BY sort_order, title
	`, parentID)
}

// ListSubtree returns the subtree rooted at rootID, root included, in
// depth-first order. Membership follows parent links; lft orders the
// result because each root's nested-set indices are rebuilt over
// exactly its own subtree.
func (q *queries) ListSubtree(ctx context.Context, rootID string) ([]*types.Document, error) {
	return q.listDocuments(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM documents WHERE id = ?
			UNION ALL
			SELECT d.id FROM documents d JOIN subtree s ON d.parent_id = s.id
		)
		SELECT `+documentColumns+` FROM documents
		WHERE id IN (SELECT id FROM subtree)
		ORDER BY lft
	`, rootID)
}

func (q *queries) UpdateDocument(ctx context.Context, doc *types.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	res, err := q.q.ExecContext(ctx, `
		UPDATE documents
		SET doc_key = ?, title = ?, slug = ?, is_group = ?, is_published = ?, parent_id = ?,
		    sort_order = ?, route = ?, content = ?, lft = ?, rgt = ?, updated_at = ?
		WHERE id = ?
	`, doc.DocKey, doc.Title, doc.Slug, doc.IsGroup, doc.IsPublished, doc.ParentID,
		doc.SortOrder, doc.Route, doc.Content, doc.Lft, doc.Rgt, doc.UpdatedAt, doc.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return types.ValidationErrorf("document route %q is already taken", doc.Route)
		}
		return fmt.Errorf("failed to update document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return types.NotFoundErrorf("document %s not found", doc.ID)
	}
	return nil
}

// UpdateSortOrders applies a batch of sort_order assignments in a
// single CASE-driven UPDATE, so a sibling reorder is one statement.
func (q *queries) UpdateSortOrders(ctx context.Context, orders map[string]int) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(`UPDATE documents SET sort_order = CASE id `)
	args := make([]any, 0, 2*len(ids)+len(ids)+1)
	for _, id := range ids {
		b.WriteString(`WHEN ? THEN ? `)
		args = append(args, id, orders[id])
	}
	b.WriteString(`END, updated_at = ? WHERE id IN (`)
	args = append(args, time.Now().UTC())
	for i, id := range ids {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
		args = append(args, id)
	}
	b.WriteString(")")

	if _, err := q.q.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("failed to update sort orders: %w", err)
	}
	return nil
}

// CountRouteConflicts counts documents outside the subtree of
// excludeRootID whose route equals newPrefix or lives under it.
func (q *queries) CountRouteConflicts(ctx context.Context, newPrefix string, excludeRootID string) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, `
		WITH RECURSIVE excluded(id) AS (
			SELECT id FROM documents WHERE id = ?2
			UNION ALL
			SELECT d.id FROM documents d JOIN excluded e ON d.parent_id = e.id
		)
		SELECT COUNT(*) FROM documents d
		WHERE (d.route = ?1 OR d.route LIKE ?1 || '/%')
		  AND d.id NOT IN (SELECT id FROM excluded)
	`, newPrefix, excludeRootID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count route conflicts: %w", err)
	}
	return count, nil
}

// RewriteRoutePrefix substitutes oldPrefix with newPrefix across the
// subtree of rootID in one UPDATE and returns the number of rewritten
// rows. Routes are otherwise permalinks; this is the only operation
// that touches them in bulk.
func (q *queries) RewriteRoutePrefix(ctx context.Context, rootID, oldPrefix, newPrefix string) (int, error) {
	res, err := q.q.ExecContext(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM documents WHERE id = ?4
			UNION ALL
			SELECT d.id FROM documents d JOIN subtree s ON d.parent_id = s.id
		)
		UPDATE documents
		SET route = ?1 || substr(route, length(?2) + 1), updated_at = ?3
		WHERE (route = ?2 OR route LIKE ?2 || '/%')
		  AND id IN (SELECT id FROM subtree)
	`, newPrefix, oldPrefix, time.Now().UTC(), rootID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, types.ValidationErrorf("route rewrite to %q collides with an existing route", newPrefix)
		}
		return 0, fmt.Errorf("failed to rewrite routes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rewrite result: %w", err)
	}
	return int(affected), nil
}

// RebuildNestedSet recomputes lft/rgt for the subtree of rootID from
// parent_id and sort_order. Children order is (sort_order, id) for
// determinism. The whole rebuild lands in one CASE UPDATE.
func (q *queries) RebuildNestedSet(ctx context.Context, rootID string) error {
	rows, err := q.q.QueryContext(ctx, `
		WITH RECURSIVE subtree(id, parent_id, sort_order) AS (
			SELECT id, parent_id, sort_order FROM documents WHERE id = ?
			UNION ALL
			SELECT d.id, d.parent_id, d.sort_order
			FROM documents d JOIN subtree s ON d.parent_id = s.id
		)
		SELECT id, parent_id, sort_order FROM subtree
	`, rootID)
	if err != nil {
		return fmt.Errorf("failed to load subtree: %w", err)
	}
	defer rows.Close()

	type node struct {
		id        string
		parentID  string
		sortOrder int
	}
	children := make(map[string][]node)
	var count int
	for rows.Next() {
		var n node
		if err := rows.Scan(&n.id, &n.parentID, &n.sortOrder); err != nil {
			return fmt.Errorf("failed to scan subtree node: %w", err)
		}
		children[n.parentID] = append(children[n.parentID], n)
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating subtree: %w", err)
	}
	if count == 0 {
		return types.NotFoundErrorf("document %s not found", rootID)
	}
	for parent := range children {
		nodes := children[parent]
		sort.Slice(nodes, func(i, j int) bool {
			if nodes[i].sortOrder != nodes[j].sortOrder {
				return nodes[i].sortOrder < nodes[j].sortOrder
			}
			return nodes[i].id < nodes[j].id
		})
	}

	lft := make(map[string]int, count)
	rgt := make(map[string]int, count)
	counter := 0
	var walk func(id string)
	walk = func(id string) {
		counter++
		lft[id] = counter
		for _, child := range children[id] {
			if child.id == id {
				continue
			}
			walk(child.id)
		}
		counter++
		rgt[id] = counter
	}
	walk(rootID)

	ids := make([]string, 0, len(lft))
	for id := range lft {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	args := make([]any, 0, 4*len(ids)+len(ids))
	b.WriteString(`UPDATE documents SET lft = CASE id `)
	for _, id := range ids {
		b.WriteString(`WHEN ? THEN ? `)
		args = append(args, id, lft[id])
	}
	b.WriteString(`END, rgt = CASE id `)
	for _, id := range ids {
		b.WriteString(`WHEN ? THEN ? `)
		args = append(args, id, rgt[id])
	}
	b.WriteString(`END WHERE id IN (`)
	for i, id := range ids {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
		args = append(args, id)
	}
	b.WriteString(")")

	if _, err := q.q.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("failed to write nested-set indices: %w", err)
	}
	return nil
}

func (q *queries) DeleteDocument(ctx context.Context, id string) error {
	res, err := q.q.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return types.NotFoundErrorf("document %s not found", id)
	}
	return nil
}

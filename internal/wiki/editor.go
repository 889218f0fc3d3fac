package wiki

import (
	"context"
	"sort"
	"strings"

	"github.com/wikivault/wikivault/internal/idgen"
	"github.com/wikivault/wikivault/internal/slug"
	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/types"
)

// PageInput carries the fields for a new page in a working revision.
type PageInput struct {
	ParentKey   string
	Title       string
	Slug        string
	IsGroup     bool
	IsPublished bool
	Content     string
	OrderIndex  *int
}

// CRNode is one revision item in a change request's tree view, with the
// live document's id and route attached when the document exists.
type CRNode struct {
	Item     *types.RevisionItem `json:"item"`
	LiveID   string              `json:"live_id,omitempty"`
	Route    string              `json:"route,omitempty"`
	Children []*CRNode           `json:"children,omitempty"`
}

// CRPage is one revision item with its blob content resolved.
type CRPage struct {
	Item    *types.RevisionItem `json:"item"`
	Content string              `json:"content"`
	LiveID  string              `json:"live_id,omitempty"`
	Route   string              `json:"route,omitempty"`
}

// CreatePage adds a document to a change request's working revision.
// Missing slug falls back to the slugified title; missing order index
// places the page after its last sibling; an empty parent key attaches
// the page to the root group.
func (s *Service) CreatePage(ctx context.Context, p types.Principal, crID string, in PageInput) (*types.RevisionItem, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, types.ValidationErrorf("page title is required")
	}

	var created *types.RevisionItem
	err := s.withOpenCR(ctx, crID, func(tx storage.Transaction, cr *types.ChangeRequest) error {
		if err := requireEditor(p, cr); err != nil {
			return err
		}
		items, err := liveItems(ctx, tx, cr.HeadRevisionID)
		if err != nil {
			return err
		}
		parentKey := in.ParentKey
		if parentKey == "" {
			parentKey = rootKey(items)
		} else if _, ok := items[parentKey]; !ok {
			return types.ValidationErrorf("parent %s not found in change request %s", parentKey, crID)
		}

		order := 0
		if in.OrderIndex != nil {
			order = *in.OrderIndex
		} else {
			for _, item := range items {
				if item.ParentKey == parentKey && item.OrderIndex >= order {
					order = item.OrderIndex + 1
				}
			}
		}
		pageSlug := in.Slug
		if pageSlug == "" {
			pageSlug = slug.Make(in.Title)
		}

		blob, err := tx.PutBlob(ctx, in.Content, "")
		if err != nil {
			return err
		}
		created = &types.RevisionItem{
			RevisionID:  cr.HeadRevisionID,
			DocKey:      idgen.DocKey(),
			Title:       strings.TrimSpace(in.Title),
			Slug:        pageSlug,
			IsGroup:     in.IsGroup,
			IsPublished: in.IsPublished,
			ParentKey:   parentKey,
			OrderIndex:  order,
			BlobID:      blob.ID,
			ContentHash: blob.Hash,
		}
		return tx.PutRevisionItem(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePage applies a partial update to one document in the working
// revision. Content updates go through the blob store.
func (s *Service) UpdatePage(ctx context.Context, p types.Principal, crID, docKey string, upd types.DocumentUpdate) (*types.RevisionItem, error) {
	var updated *types.RevisionItem
	err := s.withOpenCR(ctx, crID, func(tx storage.Transaction, cr *types.ChangeRequest) error {
		if err := requireEditor(p, cr); err != nil {
			return err
		}
		item, err := tx.GetRevisionItem(ctx, cr.HeadRevisionID, docKey)
		if err != nil {
			return err
		}
		if upd.Title != nil {
			item.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Slug != nil {
			item.Slug = *upd.Slug
		}
		if upd.IsGroup != nil {
			item.IsGroup = *upd.IsGroup
		}
		if upd.IsPublished != nil {
			item.IsPublished = *upd.IsPublished
		}
		if upd.IsDeleted != nil {
			item.IsDeleted = *upd.IsDeleted
		}
		if upd.Content != nil {
			blob, err := tx.PutBlob(ctx, *upd.Content, "")
			if err != nil {
				return err
			}
			item.BlobID = blob.ID
			item.ContentHash = blob.Hash
		}
		updated = item
		return tx.PutRevisionItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MovePage reparents a document within the working revision. When no
// order index is given the page lands after the last child of its new
// parent. Routes are untouched; they belong to the live tree.
func (s *Service) MovePage(ctx context.Context, p types.Principal, crID, docKey, newParentKey string, newOrder *int) error {
	return s.withOpenCR(ctx, crID, func(tx storage.Transaction, cr *types.ChangeRequest) error {
		if err := requireEditor(p, cr); err != nil {
			return err
		}
		item, err := tx.GetRevisionItem(ctx, cr.HeadRevisionID, docKey)
		if err != nil {
			return err
		}
		items, err := liveItems(ctx, tx, cr.HeadRevisionID)
		if err != nil {
			return err
		}
		if newParentKey != "" {
			if _, ok := items[newParentKey]; !ok {
				return types.ValidationErrorf("parent %s not found in change request %s", newParentKey, crID)
			}
		}
		item.ParentKey = newParentKey
		if newOrder != nil {
			item.OrderIndex = *newOrder
		} else {
			order := 0
			for _, sibling := range items {
				if sibling.DocKey != docKey && sibling.ParentKey == newParentKey && sibling.OrderIndex >= order {
					order = sibling.OrderIndex + 1
				}
			}
			item.OrderIndex = order
		}
		return tx.PutRevisionItem(ctx, item)
	})
}

// ReorderChildren rewrites the order indices of a parent's children to
// match the given key sequence. Keys that do not resolve are skipped.
func (s *Service) ReorderChildren(ctx context.Context, p types.Principal, crID, parentKey string, orderedKeys []string) error {
	return s.withOpenCR(ctx, crID, func(tx storage.Transaction, cr *types.ChangeRequest) error {
		if err := requireEditor(p, cr); err != nil {
			return err
		}
		for i, key := range orderedKeys {
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
}

// DeletePage marks a document and all its descendants deleted in the
// working revision. Traversal is by parent key with a visited set, so a
// cyclic parent chain cannot loop it.
func (s *Service) DeletePage(ctx context.Context, p types.Principal, crID, docKey string) error {
	return s.withOpenCR(ctx, crID, func(tx storage.Transaction, cr *types.ChangeRequest) error {
		if err := requireEditor(p, cr); err != nil {
			return err
		}
		items, err := liveItems(ctx, tx, cr.HeadRevisionID)
		if err != nil {
			return err
		}
		target, ok := items[docKey]
		if !ok {
			return types.NotFoundErrorf("document %s not found in change request %s", docKey, crID)
		}
		if target.ParentKey == "" {
			return types.ValidationErrorf("the root group cannot be deleted")
		}

		children := make(map[string][]string)
		for key, item := range items {
			children[item.ParentKey] = append(children[item.ParentKey], key)
		}

		visited := make(map[string]bool)
		queue := []string{docKey}
		for len(queue) > 0 {
			key := queue[0]
			queue = queue[1:]
			if visited[key] {
				continue
			}
			visited[key] = true
			item := items[key]
			item.IsDeleted = true
			if err := tx.PutRevisionItem(ctx, item); err != nil {
				return err
			}
			queue = append(queue, children[key]...)
		}
		return nil
	})
}

// GetCRTree returns the non-deleted tree of a change request's working
// revision, rooted at the root group.
func (s *Service) GetCRTree(ctx context.Context, crID string) (*CRNode, error) {
	cr, err := s.store.GetChangeRequest(ctx, crID)
	if err != nil {
		return nil, err
	}
	items, err := liveItems(ctx, s.store, cr.HeadRevisionID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*CRNode, len(items))
	for key, item := range items {
		node := &CRNode{Item: item}
		if doc, err := s.store.GetDocumentByKey(ctx, key); err == nil {
			node.LiveID = doc.ID
			node.Route = doc.Route
		}
		nodes[key] = node
	}

	var root *CRNode
	for key, item := range items {
		if item.ParentKey == "" {
			root = nodes[key]
			continue
		}
		parent := nodes[item.ParentKey]
		if parent == nil {
			continue
		}
		parent.Children = append(parent.Children, nodes[key])
	}
	for _, node := range nodes {
		children := node.Children
		sort.Slice(children, func(i, j int) bool {
			a, b := children[i].Item, children[j].Item
			if a.OrderIndex != b.OrderIndex {
				return a.OrderIndex < b.OrderIndex
			}
			return a.Title < b.Title
		})
	}
	if root == nil {
		return nil, types.ValidationErrorf("change request %s has no root group", crID)
	}
	return root, nil
}

// GetCRPage returns one document of the working revision with its
// content. Deleted documents read as not found.
func (s *Service) GetCRPage(ctx context.Context, crID, docKey string) (*CRPage, error) {
	cr, err := s.store.GetChangeRequest(ctx, crID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetRevisionItem(ctx, cr.HeadRevisionID, docKey)
	if err != nil {
		return nil, err
	}
	if item.IsDeleted {
		return nil, types.NotFoundErrorf("document %s is deleted in change request %s", docKey, crID)
	}

	page := &CRPage{Item: item}
	if item.BlobID != "" {
		blob, err := s.store.GetBlob(ctx, item.BlobID)
		if err != nil {
			return nil, err
		}
		page.Content = blob.Content
	}
	if doc, err := s.store.GetDocumentByKey(ctx, docKey); err == nil {
		page.LiveID = doc.ID
		page.Route = doc.Route
	}
	return page, nil
}

// rootKey returns the doc key of the item with no parent.
func rootKey(items map[string]*types.RevisionItem) string {
	for key, item := range items {
		if item.ParentKey == "" {
			return key
		}
	}
	return ""
}

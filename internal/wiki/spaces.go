package wiki

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/wikivault/wikivault/internal/idgen"
	"github.com/wikivault/wikivault/internal/slug"
	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/types"
)

// TreeNode is one live document with its ordered children.
type TreeNode struct {
	Document *types.Document `json:"document"`
	Children []*TreeNode     `json:"children,omitempty"`
}

// CreateSpace creates a space with a fresh, unpublished root group
// document at the space's route. The main revision stays unset until
// the first change request or direct write snapshots the tree.
func (s *Service) CreateSpace(ctx context.Context, p types.Principal, name, route string) (*types.Space, error) {
	if !p.CanWriteLive() {
		return nil, types.PermissionErrorf("%s may not create spaces", p.User)
	}
	name = strings.TrimSpace(name)
	route = strings.Trim(strings.TrimSpace(route), "/")
	if name == "" || route == "" {
		return nil, types.ValidationErrorf("space name and route are required")
	}

	space := &types.Space{
		ID:          idgen.NewID("space"),
		DisplayName: name,
		Route:       route,
	}
	err := s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		root := &types.Document{
			ID:      idgen.NewID("doc"),
			DocKey:  idgen.DocKey(),
			Title:   name + " [Root Group]",
			Slug:    slug.Make(name),
			IsGroup: true,
			Route:   route,
		}
		if err := tx.CreateDocument(ctx, root); err != nil {
			return err
		}
		if err := tx.RebuildNestedSet(ctx, root.ID); err != nil {
			return err
		}
		space.RootGroupID = root.ID
		return tx.CreateSpace(ctx, space)
	})
	if err != nil {
		return nil, err
	}
	return space, nil
}

// GetSpace resolves a space by its route.
func (s *Service) GetSpace(ctx context.Context, route string) (*types.Space, error) {
	return s.store.GetSpaceByRoute(ctx, strings.Trim(route, "/"))
}

// ListSpaces returns all spaces ordered by display name.
func (s *Service) ListSpaces(ctx context.Context) ([]*types.Space, error) {
	return s.store.ListSpaces(ctx)
}

// GetTree returns the live document tree of a space. Sibling order
// follows (sort_order, id); nested-set indices only speed up the
// subtree read.
func (s *Service) GetTree(ctx context.Context, route string) (*TreeNode, error) {
	space, err := s.GetSpace(ctx, route)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.ListSubtree(ctx, space.RootGroupID)
	if err != nil {
		return nil, err
	}
	return buildTree(docs, space.RootGroupID), nil
}

func buildTree(docs []*types.Document, rootID string) *TreeNode {
	nodes := make(map[string]*TreeNode, len(docs))
	for _, doc := range docs {
		nodes[doc.ID] = &TreeNode{Document: doc}
	}
	root := nodes[rootID]
	if root == nil {
		return nil
	}
	for _, doc := range docs {
		if doc.ID == rootID {
			continue
		}
		parent := nodes[doc.ParentID]
		if parent == nil {
			continue
		}
		parent.Children = append(parent.Children, nodes[doc.ID])
	}
	for _, node := range nodes {
		children := node.Children
		sort.Slice(children, func(i, j int) bool {
			a, b := children[i].Document, children[j].Document
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.ID < b.ID
		})
	}
	return root
}

// GetPage resolves a live document by its permalink route.
func (s *Service) GetPage(ctx context.Context, route string) (*types.Document, error) {
	return s.store.GetDocumentByRoute(ctx, strings.Trim(route, "/"))
}

// UpdateRoutes moves a space and its whole subtree to a new route
// prefix. This is the only operation that rewrites routes; it returns
// the number of documents whose route changed.
func (s *Service) UpdateRoutes(ctx context.Context, p types.Principal, route, newRoute string) (int, error) {
	if !p.CanWriteLive() {
		return 0, types.PermissionErrorf("%s may not rewrite routes", p.User)
	}
	newRoute = strings.Trim(strings.TrimSpace(newRoute), "/")
	if newRoute == "" {
		return 0, types.ValidationErrorf("new route must not be empty")
	}

	var updated int
	err := s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		space, err := tx.GetSpaceByRoute(ctx, strings.Trim(route, "/"))
		if err != nil {
			return err
		}
		if newRoute == space.Route {
			return types.ValidationErrorf("space already lives at %q", newRoute)
		}
		conflicts, err := tx.CountRouteConflicts(ctx, newRoute, space.RootGroupID)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return types.ValidationErrorf("%d documents outside the space already use the %q prefix", conflicts, newRoute)
		}
		updated, err = tx.RewriteRoutePrefix(ctx, space.RootGroupID, space.Route, newRoute)
		if err != nil {
			return err
		}
		space.Route = newRoute
		space.UpdatedAt = time.Now().UTC()
		return tx.UpdateSpace(ctx, space)
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

package wiki

import (
	"context"
	"sort"

	"github.com/wikivault/wikivault/internal/types"
)

// PageDiff is the full before/after view of one document in a change
// request, content included. A nil side means the document does not
// exist there.
type PageDiff struct {
	DocKey string  `json:"doc_key"`
	Base   *CRPage `json:"base,omitempty"`
	Head   *CRPage `json:"head,omitempty"`
}

// Diff summarizes what a change request would do to its base revision:
// one entry per added, deleted, or modified document, sorted by doc
// key. Deleted working items count as absent.
func (s *Service) Diff(ctx context.Context, crID string) ([]types.DiffEntry, error) {
	cr, err := s.store.GetChangeRequest(ctx, crID)
	if err != nil {
		return nil, err
	}
	base, err := liveItems(ctx, s.store, cr.BaseRevisionID)
	if err != nil {
		return nil, err
	}
	head, err := liveItems(ctx, s.store, cr.HeadRevisionID)
	if err != nil {
		return nil, err
	}

	var entries []types.DiffEntry
	for key, item := range head {
		before, ok := base[key]
		switch {
		case !ok:
			entries = append(entries, diffEntry(item, types.ChangeAdded))
		case itemChanged(before, item):
			entries = append(entries, diffEntry(item, types.ChangeModified))
		}
	}
	for key, item := range base {
		if _, ok := head[key]; !ok {
			entries = append(entries, diffEntry(item, types.ChangeDeleted))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].DocKey < entries[j].DocKey })
	return entries, nil
}

// DiffPage returns both sides of one document, blob content resolved.
func (s *Service) DiffPage(ctx context.Context, crID, docKey string) (*PageDiff, error) {
	cr, err := s.store.GetChangeRequest(ctx, crID)
	if err != nil {
		return nil, err
	}
	diff := &PageDiff{DocKey: docKey}

	diff.Base, err = s.loadPageSide(ctx, cr.BaseRevisionID, docKey)
	if err != nil {
		return nil, err
	}
	diff.Head, err = s.loadPageSide(ctx, cr.HeadRevisionID, docKey)
	if err != nil {
		return nil, err
	}
	if diff.Base == nil && diff.Head == nil {
		return nil, types.NotFoundErrorf("document %s not found in change request %s", docKey, crID)
	}
	return diff, nil
}

func (s *Service) loadPageSide(ctx context.Context, revisionID, docKey string) (*CRPage, error) {
	item, err := s.store.GetRevisionItem(ctx, revisionID, docKey)
	if types.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if item.IsDeleted {
		return nil, nil
	}
	page := &CRPage{Item: item}
	if item.BlobID != "" {
		blob, err := s.store.GetBlob(ctx, item.BlobID)
		if err != nil {
			return nil, err
		}
		page.Content = blob.Content
	}
	return page, nil
}

func diffEntry(item *types.RevisionItem, change string) types.DiffEntry {
	return types.DiffEntry{
		DocKey:     item.DocKey,
		ChangeType: change,
		Title:      item.Title,
		IsGroup:    item.IsGroup,
	}
}

// itemChanged compares the fields that make two revision items
// equivalent, content by blob hash.
func itemChanged(a, b *types.RevisionItem) bool {
	return a.Title != b.Title ||
		a.Slug != b.Slug ||
		a.IsGroup != b.IsGroup ||
		a.IsPublished != b.IsPublished ||
		a.ParentKey != b.ParentKey ||
		a.OrderIndex != b.OrderIndex ||
		a.ContentHash != b.ContentHash
}

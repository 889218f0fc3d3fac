// Package merge implements three-way merging of revision items: a
// per-document decision matrix over base/ours/theirs snapshots, with
// field-level resolution for metadata and line-level merging for
// content. The package is pure; callers resolve blob contents before
// calling in and persist the results after.
package merge

import (
	"github.com/wikivault/wikivault/internal/types"
)

// Item is one document's snapshot as seen by the merge: its metadata
// plus the resolved blob content.
type Item struct {
	DocKey      string `json:"doc_key"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	IsGroup     bool   `json:"is_group"`
	IsPublished bool   `json:"is_published"`
	ParentKey   string `json:"parent_key"`
	OrderIndex  int    `json:"order_index"`
	Content     string `json:"content"`
}

// ThreeWay merges one document across the three sides. A nil side means
// the document does not exist there. The result is the merged item, or
// nil when the document should be absent from the merge; a non-empty
// conflict type means the divergence could not be reconciled.
//
// Divergent placement (parent or order) is a tree conflict. A metadata
// field changed to different values on both sides is a meta conflict.
// Everything else that fails is a content conflict, including
// delete-versus-edit and both-added-differently.
func ThreeWay(base, ours, theirs *Item) (*Item, types.ConflictType) {
	if base == nil && ours == nil && theirs == nil {
		return nil, ""
	}

	if base == nil {
		// Added on at least one side.
		if ours == nil {
			return clone(theirs), ""
		}
		if theirs == nil {
			return clone(ours), ""
		}
		if itemsEqual(ours, theirs) {
			return clone(ours), ""
		}
		return nil, types.ConflictContent
	}

	if ours == nil && theirs == nil {
		return nil, ""
	}
	if ours == nil {
		// Deleted in ours; fine unless theirs also changed it.
		if itemsEqual(theirs, base) {
			return nil, ""
		}
		return nil, types.ConflictContent
	}
	if theirs == nil {
		if itemsEqual(ours, base) {
			return nil, ""
		}
		return nil, types.ConflictContent
	}

	if itemsEqual(ours, theirs) {
		return clone(ours), ""
	}
	if itemsEqual(ours, base) {
		return clone(theirs), ""
	}
	if itemsEqual(theirs, base) {
		return clone(ours), ""
	}

	if ours.ParentKey != theirs.ParentKey || ours.OrderIndex != theirs.OrderIndex {
		return nil, types.ConflictTree
	}
	if metadataConflict(base, ours, theirs) {
		return nil, types.ConflictMeta
	}

	content, ok := Text(base.Content, ours.Content, theirs.Content)
	if !ok {
		return nil, types.ConflictContent
	}

	return &Item{
		DocKey:      ours.DocKey,
		Title:       resolve(base.Title, ours.Title, theirs.Title),
		Slug:        resolve(base.Slug, ours.Slug, theirs.Slug),
		IsGroup:     resolve(base.IsGroup, ours.IsGroup, theirs.IsGroup),
		IsPublished: resolve(base.IsPublished, ours.IsPublished, theirs.IsPublished),
		ParentKey:   ours.ParentKey,
		OrderIndex:  ours.OrderIndex,
		Content:     content,
	}, ""
}

func clone(item *Item) *Item {
	if item == nil {
		return nil
	}
	c := *item
	return &c
}

func itemsEqual(a, b *Item) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Title == b.Title &&
		a.Slug == b.Slug &&
		a.IsGroup == b.IsGroup &&
		a.IsPublished == b.IsPublished &&
		a.ParentKey == b.ParentKey &&
		a.OrderIndex == b.OrderIndex &&
		a.Content == b.Content
}

// metadataConflict reports whether any metadata field was changed to
// different values on both sides relative to base.
func metadataConflict(base, ours, theirs *Item) bool {
	return fieldConflict(base.Title, ours.Title, theirs.Title) ||
		fieldConflict(base.Slug, ours.Slug, theirs.Slug) ||
		fieldConflict(base.IsGroup, ours.IsGroup, theirs.IsGroup) ||
		fieldConflict(base.IsPublished, ours.IsPublished, theirs.IsPublished)
}

func fieldConflict[T comparable](base, ours, theirs T) bool {
	if ours == theirs {
		return false
	}
	if ours == base || theirs == base {
		return false
	}
	return true
}

// resolve picks the changed side of a field. When both sides changed to
// different values ours wins; metadataConflict has already ruled that
// state out for the fields it guards.
func resolve[T comparable](base, ours, theirs T) T {
	if ours == theirs {
		return ours
	}
	if ours == base {
		return theirs
	}
	if theirs == base {
		return ours
	}
	return ours
}

package revision

import (
	"sort"

	"github.com/wikivault/wikivault/internal/types"
)

// TreeOrder returns the doc keys of an item map in pre-order: parents
// before children, siblings ascending by order_index (ties broken by
// doc_key for determinism). Items whose parent_key does not resolve
// within the map are treated as roots, so a partially deleted tree still
// yields a stable order.
func TreeOrder(items map[string]*types.RevisionItem) []string {
	children := make(map[string][]string)
	for key, item := range items {
		parent := item.ParentKey
		if parent != "" {
			if _, ok := items[parent]; !ok {
				parent = ""
			}
		}
		children[parent] = append(children[parent], key)
	}
	for parent := range children {
		keys := children[parent]
		sort.Slice(keys, func(i, j int) bool {
			a, b := items[keys[i]], items[keys[j]]
			if a.OrderIndex != b.OrderIndex {
				return a.OrderIndex < b.OrderIndex
			}
			return a.DocKey < b.DocKey
		})
	}

	ordered := make([]string, 0, len(items))
	seen := make(map[string]bool)
	var walk func(parent string)
	walk = func(parent string) {
		for _, key := range children[parent] {
			if seen[key] {
				continue
			}
			seen[key] = true
			ordered = append(ordered, key)
			walk(key)
		}
	}
	walk("")
	return ordered
}

// Package revision holds the pure functions over revision item sets:
// fingerprint computation and tree ordering. Both operate on
// denormalized items (ContentHash filled in from the blob store) and are
// deliberately independent of any storage backend.
package revision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/wikivault/wikivault/internal/types"
)

// Hashes is the pair of fingerprints that identify a revision's shape
// and content. Two revisions are structurally equal iff both hashes
// match.
type Hashes struct {
	TreeHash    string
	ContentHash string
	DocCount    int
}

// Compute derives the tree and content hashes for a set of revision
// items. Deleted items are excluded; the result depends only on the
// remaining items and their blob hashes, never on row order.
//
// tree_hash covers "{doc_key}|{parent_key}|{order_index}|{slug}" lines;
// content_hash covers "{doc_key}:{blob_hash}" lines; both newline-joined
// over items sorted ascending by doc_key and hashed with SHA-256.
func Compute(items []*types.RevisionItem) Hashes {
	live := make([]*types.RevisionItem, 0, len(items))
	for _, item := range items {
		if item.IsDeleted {
			continue
		}
		live = append(live, item)
	}
	sort.Slice(live, func(i, j int) bool { return live[i].DocKey < live[j].DocKey })

	treeParts := make([]string, 0, len(live))
	contentParts := make([]string, 0, len(live))
	for _, item := range live {
		treeParts = append(treeParts, fmt.Sprintf("%s|%s|%d|%s",
			item.DocKey, item.ParentKey, item.OrderIndex, item.Slug))
		contentParts = append(contentParts, fmt.Sprintf("%s:%s", item.DocKey, item.ContentHash))
	}

	return Hashes{
		TreeHash:    sha256Hex(strings.Join(treeParts, "\n")),
		ContentHash: sha256Hex(strings.Join(contentParts, "\n")),
		DocCount:    len(live),
	}
}

// BlobHash returns the hex SHA-256 of content, the addressing scheme of
// the blob store.
func BlobHash(content string) string {
	return sha256Hex(content)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

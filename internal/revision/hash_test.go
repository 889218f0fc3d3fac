package revision

import (
	"math/rand"
	"testing"

	"github.com/wikivault/wikivault/internal/types"
)

func item(key, parent string, order int, slug, contentHash string) *types.RevisionItem {
	return &types.RevisionItem{
		DocKey:      key,
		ParentKey:   parent,
		OrderIndex:  order,
		Slug:        slug,
		ContentHash: contentHash,
	}
}

func TestComputeOrderIndependent(t *testing.T) {
	items := []*types.RevisionItem{
		item("aaa", "", 0, "root", "h1"),
		item("bbb", "aaa", 0, "intro", "h2"),
		item("ccc", "aaa", 1, "guide", "h3"),
	}
	base := Compute(items)
	if base.DocCount != 3 {
		t.Fatalf("DocCount = %d, want 3", base.DocCount)
	}

	shuffled := make([]*types.RevisionItem, len(items))
	copy(shuffled, items)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Compute(shuffled)
		if got != base {
			t.Fatalf("Compute changed under shuffle: %+v vs %+v", got, base)
		}
	}
}

func TestComputeExcludesDeleted(t *testing.T) {
	live := []*types.RevisionItem{
		item("aaa", "", 0, "root", "h1"),
		item("bbb", "aaa", 0, "intro", "h2"),
	}
	withDeleted := append([]*types.RevisionItem{}, live...)
	deleted := item("ccc", "aaa", 1, "gone", "h3")
	deleted.IsDeleted = true
	withDeleted = append(withDeleted, deleted)

	a, b := Compute(live), Compute(withDeleted)
	if a != b {
		t.Fatalf("deleted item changed hashes: %+v vs %+v", a, b)
	}
	if b.DocCount != 2 {
		t.Fatalf("DocCount = %d, want 2", b.DocCount)
	}
}

func TestComputeDistinguishesTreeAndContent(t *testing.T) {
	base := []*types.RevisionItem{
		item("aaa", "", 0, "root", "h1"),
		item("bbb", "aaa", 0, "intro", "h2"),
	}
	orig := Compute(base)

	moved := []*types.RevisionItem{
		item("aaa", "", 0, "root", "h1"),
		item("bbb", "aaa", 1, "intro", "h2"),
	}
	got := Compute(moved)
	if got.TreeHash == orig.TreeHash {
		t.Error("order change did not alter tree hash")
	}
	if got.ContentHash != orig.ContentHash {
		t.Error("order change altered content hash")
	}

	edited := []*types.RevisionItem{
		item("aaa", "", 0, "root", "h1"),
		item("bbb", "aaa", 0, "intro", "h9"),
	}
	got = Compute(edited)
	if got.ContentHash == orig.ContentHash {
		t.Error("content change did not alter content hash")
	}
	if got.TreeHash != orig.TreeHash {
		t.Error("content change altered tree hash")
	}
}

func TestBlobHashStable(t *testing.T) {
	if BlobHash("hello") != BlobHash("hello") {
		t.Fatal("BlobHash not deterministic")
	}
	if BlobHash("hello") == BlobHash("hello\n") {
		t.Fatal("BlobHash ignored trailing newline")
	}
	if len(BlobHash("")) != 64 {
		t.Fatalf("BlobHash length = %d, want 64 hex chars", len(BlobHash("")))
	}
}

func TestTreeOrder(t *testing.T) {
	items := map[string]*types.RevisionItem{
		"root": item("root", "", 0, "root", ""),
		"b":    item("b", "root", 1, "b", ""),
		"a":    item("a", "root", 0, "a", ""),
		"a1":   item("a1", "a", 0, "a1", ""),
		"a2":   item("a2", "a", 1, "a2", ""),
	}
	got := TreeOrder(items)
	want := []string{"root", "a", "a1", "a2", "b"}
	if len(got) != len(want) {
		t.Fatalf("TreeOrder = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TreeOrder = %v, want %v", got, want)
		}
	}
}

func TestTreeOrderOrphanedParent(t *testing.T) {
	items := map[string]*types.RevisionItem{
		"a": item("a", "missing", 0, "a", ""),
		"b": item("b", "", 1, "b", ""),
	}
	got := TreeOrder(items)
	if len(got) != 2 {
		t.Fatalf("TreeOrder dropped orphaned item: %v", got)
	}
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("TreeOrder = %v, want [a b]", got)
	}
}

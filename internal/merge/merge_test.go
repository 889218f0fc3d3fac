package merge

import (
	"testing"

	"github.com/wikivault/wikivault/internal/types"
)

func page(key, title, content string) *Item {
	return &Item{
		DocKey:      key,
		Title:       title,
		Slug:        "page",
		IsPublished: true,
		ParentKey:   "root",
		OrderIndex:  0,
		Content:     content,
	}
}

func TestThreeWayUntouched(t *testing.T) {
	base := page("k1", "Page", "hello\n")
	got, conflict := ThreeWay(base, clone(base), clone(base))
	if conflict != "" {
		t.Fatalf("conflict = %q, want none", conflict)
	}
	if got == nil || got.Content != "hello\n" {
		t.Fatalf("got %+v, want unchanged item", got)
	}
}

func TestThreeWayOneSideChanged(t *testing.T) {
	base := page("k1", "Page", "hello\n")
	theirs := clone(base)
	theirs.Content = "hello world\n"

	got, conflict := ThreeWay(base, clone(base), theirs)
	if conflict != "" {
		t.Fatalf("conflict = %q, want none", conflict)
	}
	if got.Content != "hello world\n" {
		t.Fatalf("Content = %q, want theirs", got.Content)
	}
}

func TestThreeWayAddedBothSides(t *testing.T) {
	added := page("k1", "New", "same\n")
	got, conflict := ThreeWay(nil, clone(added), clone(added))
	if conflict != "" || got == nil {
		t.Fatalf("identical adds should merge, got conflict %q", conflict)
	}

	other := clone(added)
	other.Content = "different\n"
	got, conflict = ThreeWay(nil, clone(added), other)
	if conflict != types.ConflictContent {
		t.Fatalf("divergent adds: conflict = %q, want content", conflict)
	}
	if got != nil {
		t.Fatalf("divergent adds returned item %+v", got)
	}
}

func TestThreeWayAddedOneSide(t *testing.T) {
	added := page("k1", "New", "body\n")
	got, conflict := ThreeWay(nil, nil, added)
	if conflict != "" || got == nil || got.Title != "New" {
		t.Fatalf("one-sided add: got %+v conflict %q", got, conflict)
	}
}

func TestThreeWayDeleteVsUntouched(t *testing.T) {
	base := page("k1", "Page", "hello\n")
	got, conflict := ThreeWay(base, nil, clone(base))
	if conflict != "" || got != nil {
		t.Fatalf("delete of untouched doc: got %+v conflict %q", got, conflict)
	}
}

func TestThreeWayDeleteVsEdit(t *testing.T) {
	base := page("k1", "Page", "hello\n")
	theirs := clone(base)
	theirs.Content = "edited\n"

	_, conflict := ThreeWay(base, nil, theirs)
	if conflict != types.ConflictContent {
		t.Fatalf("delete vs edit: conflict = %q, want content", conflict)
	}
}

func TestThreeWayDeletedBothSides(t *testing.T) {
	base := page("k1", "Page", "hello\n")
	got, conflict := ThreeWay(base, nil, nil)
	if conflict != "" || got != nil {
		t.Fatalf("both deleted: got %+v conflict %q", got, conflict)
	}
}

func TestThreeWayTreeConflict(t *testing.T) {
	base := page("k1", "Page", "hello\n")
	ours := clone(base)
	ours.ParentKey = "groupA"
	theirs := clone(base)
	theirs.ParentKey = "groupB"

	_, conflict := ThreeWay(base, ours, theirs)
	if conflict != types.ConflictTree {
		t.Fatalf("divergent reparent: conflict = %q, want tree", conflict)
	}

	ours = clone(base)
	ours.OrderIndex = 1
	theirs = clone(base)
	theirs.OrderIndex = 2
	_, conflict = ThreeWay(base, ours, theirs)
	if conflict != types.ConflictTree {
		t.Fatalf("divergent reorder: conflict = %q, want tree", conflict)
	}
}

func TestThreeWayMetaConflict(t *testing.T) {
	base := page("k1", "Page", "hello\n")
	ours := clone(base)
	ours.Title = "Ours Title"
	theirs := clone(base)
	theirs.Title = "Theirs Title"

	_, conflict := ThreeWay(base, ours, theirs)
	if conflict != types.ConflictMeta {
		t.Fatalf("divergent titles: conflict = %q, want meta", conflict)
	}
}

func TestThreeWayMetaOneSided(t *testing.T) {
	base := page("k1", "Page", "hello\n")
	ours := clone(base)
	ours.Title = "Renamed"
	theirs := clone(base)
	theirs.IsPublished = false

	got, conflict := ThreeWay(base, ours, theirs)
	if conflict != "" {
		t.Fatalf("conflict = %q, want none", conflict)
	}
	if got.Title != "Renamed" || got.IsPublished {
		t.Fatalf("field resolution wrong: %+v", got)
	}
}

func TestThreeWayContentMergesDisjointEdits(t *testing.T) {
	base := page("k1", "Page", "one\ntwo\nthree\nfour\nfive\n")
	ours := clone(base)
	ours.Content = "ONE\ntwo\nthree\nfour\nfive\n"
	theirs := clone(base)
	theirs.Content = "one\ntwo\nthree\nfour\nFIVE\n"

	got, conflict := ThreeWay(base, ours, theirs)
	if conflict != "" {
		t.Fatalf("conflict = %q, want none", conflict)
	}
	want := "ONE\ntwo\nthree\nfour\nFIVE\n"
	if got.Content != want {
		t.Fatalf("Content = %q, want %q", got.Content, want)
	}
}

func TestThreeWayContentConflictSameLine(t *testing.T) {
	base := page("k1", "Page", "one\ntwo\nthree\n")
	ours := clone(base)
	ours.Content = "one\nOURS\nthree\n"
	theirs := clone(base)
	theirs.Content = "one\nTHEIRS\nthree\n"

	_, conflict := ThreeWay(base, ours, theirs)
	if conflict != types.ConflictContent {
		t.Fatalf("same-line edits: conflict = %q, want content", conflict)
	}
}

func TestResolveField(t *testing.T) {
	if got := resolve("b", "b", "t"); got != "t" {
		t.Errorf("resolve(b,b,t) = %q, want t", got)
	}
	if got := resolve("b", "o", "b"); got != "o" {
		t.Errorf("resolve(b,o,b) = %q, want o", got)
	}
	if got := resolve("b", "x", "x"); got != "x" {
		t.Errorf("resolve(b,x,x) = %q, want x", got)
	}
	if got := resolve("b", "o", "t"); got != "o" {
		t.Errorf("resolve(b,o,t) = %q, want ours", got)
	}
}

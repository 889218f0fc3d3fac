package wiki

import (
	"testing"

	"github.com/wikivault/wikivault/internal/types"
)

// advanceMain snapshots the live tree into a fresh main revision via a
// direct no-op reorder of the given document.
func (w *testWiki) advanceMain(docID string) {
	w.t.Helper()
	if _, err := w.Svc.Reorder(w.Ctx, manager, docID, "", []string{docID}); err != nil {
		w.t.Fatalf("advanceMain reorder failed: %v", err)
	}
}

func TestMergePermissionAndState(t *testing.T) {
	w := newTestWiki(t)
	w.Space()
	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Change", "")

	if _, err := w.Svc.Merge(w.Ctx, author, cr.ID); !types.IsPermission(err) {
		t.Fatalf("owner merge = %v, want permission error", err)
	}

	if _, err := w.Svc.Merge(w.Ctx, manager, cr.ID); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if _, err := w.Svc.Merge(w.Ctx, manager, cr.ID); !types.IsValidation(err) {
		t.Fatalf("second merge = %v, want validation error", err)
	}
}

func TestNoOpMergeRoundTrip(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	a := w.LiveDoc("A", space.RootGroupID, "docs/a", "hello\n")
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "No edits", "")
	base, _ := w.Store.GetRevision(w.Ctx, cr.BaseRevisionID)

	mergeRev, err := w.Svc.Merge(w.Ctx, approver, cr.ID)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !mergeRev.IsMerge || mergeRev.ParentRevisionID != cr.BaseRevisionID {
		t.Errorf("merge revision wrong: %+v", mergeRev)
	}
	if mergeRev.TreeHash != base.TreeHash || mergeRev.ContentHash != base.ContentHash {
		t.Errorf("no-op merge changed hashes: %+v vs %+v", mergeRev, base)
	}

	space, _ = w.Svc.GetSpace(w.Ctx, "docs")
	if space.MainRevisionID != mergeRev.ID {
		t.Error("merge did not advance main")
	}
	got, _ := w.Svc.GetChangeRequest(w.Ctx, cr.ID)
	if got.Status != types.StatusMerged || got.MergedAt == nil || got.MergedBy != approver.User {
		t.Errorf("CR not closed: %+v", got)
	}
	doc, _ := w.Store.GetDocument(w.Ctx, a.ID)
	if doc.Route != "docs/a" || doc.Content != "hello\n" {
		t.Errorf("no-op merge touched the live document: %+v", doc)
	}
}

func TestMergeAddsNewPage(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Add page", "")
	page, err := w.Svc.CreatePage(w.Ctx, author, cr.ID, PageInput{
		Title: "Getting Started", Content: "# Welcome\n", IsPublished: true,
	})
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}

	if _, err := w.Svc.Merge(w.Ctx, manager, cr.ID); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	doc, err := w.Store.GetDocumentByKey(w.Ctx, page.DocKey)
	if err != nil {
		t.Fatalf("merged page missing from live tree: %v", err)
	}
	if doc.Route != "docs/getting-started" {
		t.Errorf("route = %q, want docs/getting-started", doc.Route)
	}
	if doc.Content != "# Welcome\n" || !doc.IsPublished {
		t.Errorf("merged page fields wrong: %+v", doc)
	}

	tree, _ := w.Svc.GetTree(w.Ctx, "docs")
	if len(tree.Children) != 1 || tree.Children[0].Document.DocKey != page.DocKey {
		t.Fatalf("live tree wrong after merge: %+v", tree.Children)
	}
}

func TestNonOverlappingContentMerge(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	p := w.LiveDoc("P", space.RootGroupID, "docs/p", "line1\nline2\nline3\n")
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Edit line 1", "")
	crContent := "line1-cr\nline2\nline3\n"
	if _, err := w.Svc.UpdatePage(w.Ctx, author, cr.ID, p.DocKey, types.DocumentUpdate{Content: &crContent}); err != nil {
		t.Fatalf("UpdatePage failed: %v", err)
	}

	// Meanwhile main moves on with an edit to line 3.
	p.Content = "line1\nline2\nline3-main\n"
	if err := w.Store.UpdateDocument(w.Ctx, p); err != nil {
		t.Fatalf("live edit failed: %v", err)
	}
	w.advanceMain(p.ID)

	if _, err := w.Svc.Merge(w.Ctx, manager, cr.ID); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	doc, _ := w.Store.GetDocument(w.Ctx, p.ID)
	if doc.Content != "line1-cr\nline2\nline3-main\n" {
		t.Errorf("merged content = %q", doc.Content)
	}
}

func TestContentConflict(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	p := w.LiveDoc("P", space.RootGroupID, "docs/p", "v1")
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Conflicting edit", "")
	crContent := "cr-change"
	if _, err := w.Svc.UpdatePage(w.Ctx, author, cr.ID, p.DocKey, types.DocumentUpdate{Content: &crContent}); err != nil {
		t.Fatalf("UpdatePage failed: %v", err)
	}

	p.Content = "main-change"
	if err := w.Store.UpdateDocument(w.Ctx, p); err != nil {
		t.Fatalf("live edit failed: %v", err)
	}
	w.advanceMain(p.ID)

	if _, err := w.Svc.Merge(w.Ctx, manager, cr.ID); !types.IsValidation(err) {
		t.Fatalf("conflicting merge = %v, want validation error", err)
	}

	conflicts, err := w.Svc.ListConflicts(w.Ctx, cr.ID)
	if err != nil {
		t.Fatalf("ListConflicts failed: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].Type != types.ConflictContent {
		t.Fatalf("conflicts = %+v, want one content conflict", conflicts)
	}
	if conflicts[0].DocKey != p.DocKey {
		t.Errorf("conflict doc key = %q, want %q", conflicts[0].DocKey, p.DocKey)
	}

	// No live writes on a failed merge.
	doc, _ := w.Store.GetDocument(w.Ctx, p.ID)
	if doc.Content != "main-change" {
		t.Errorf("failed merge touched live content: %q", doc.Content)
	}
	got, _ := w.Svc.GetChangeRequest(w.Ctx, cr.ID)
	if got.Status == types.StatusMerged {
		t.Error("conflicted CR was marked merged")
	}
}

func TestTreeConflict(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	g1 := w.LiveGroup("G1", space.RootGroupID, "docs/g1")
	g2 := w.LiveGroup("G2", space.RootGroupID, "docs/g2")
	p := w.LiveDoc("P", space.RootGroupID, "docs/p", "")
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Move P to G1", "")
	if err := w.Svc.MovePage(w.Ctx, author, cr.ID, p.DocKey, g1.DocKey, nil); err != nil {
		t.Fatalf("MovePage failed: %v", err)
	}

	// Main moves P under G2 instead.
	if _, err := w.Svc.Reorder(w.Ctx, manager, p.ID, g2.ID, []string{p.ID}); err != nil {
		t.Fatalf("live reorder failed: %v", err)
	}

	if _, err := w.Svc.Merge(w.Ctx, manager, cr.ID); !types.IsValidation(err) {
		t.Fatalf("diverged placement merge = %v, want validation error", err)
	}
	conflicts, _ := w.Svc.ListConflicts(w.Ctx, cr.ID)
	if len(conflicts) != 1 || conflicts[0].Type != types.ConflictTree {
		t.Fatalf("conflicts = %+v, want one tree conflict", conflicts)
	}

	doc, _ := w.Store.GetDocument(w.Ctx, p.ID)
	if doc.ParentID != g2.ID {
		t.Errorf("failed merge moved live document: %+v", doc)
	}
}

func TestMergedReparentKeepsRoute(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	g1 := w.LiveGroup("G1", space.RootGroupID, "docs/g1")
	p := w.LiveDoc("P", space.RootGroupID, "docs/p", "")
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Move P", "")
	if err := w.Svc.MovePage(w.Ctx, author, cr.ID, p.DocKey, g1.DocKey, nil); err != nil {
		t.Fatalf("MovePage failed: %v", err)
	}
	if _, err := w.Svc.Merge(w.Ctx, manager, cr.ID); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	doc, _ := w.Store.GetDocument(w.Ctx, p.ID)
	if doc.ParentID != g1.ID {
		t.Fatalf("merge did not reparent: %+v", doc)
	}
	if doc.Route != "docs/p" {
		t.Errorf("merge rewrote the route: %q", doc.Route)
	}
	if _, err := w.Svc.GetPage(w.Ctx, "docs/p"); err != nil {
		t.Errorf("permalink broken after merge: %v", err)
	}
}

func TestMergedDeleteCascade(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	g := w.LiveGroup("G", space.RootGroupID, "docs/g")
	w.LiveDoc("C", g.ID, "docs/g/c", "")
	keep := w.LiveDoc("Keep", space.RootGroupID, "docs/keep", "")
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Drop G", "")
	if err := w.Svc.DeletePage(w.Ctx, author, cr.ID, g.DocKey); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	mergeRev, err := w.Svc.Merge(w.Ctx, manager, cr.ID)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	// Root group plus the kept page.
	if mergeRev.DocCount != 2 {
		t.Errorf("merge revision doc count = %d, want 2", mergeRev.DocCount)
	}
	items, _ := w.Store.GetRevisionItems(w.Ctx, mergeRev.ID)
	if _, ok := items[g.DocKey]; ok {
		t.Error("deleted group still in merge revision")
	}
	if _, ok := items[keep.DocKey]; !ok {
		t.Error("kept page missing from merge revision")
	}
}

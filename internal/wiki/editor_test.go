package wiki

import (
	"testing"

	"github.com/wikivault/wikivault/internal/types"
)

func TestCreatePagePlacement(t *testing.T) {
	w := newTestWiki(t)
	w.Space()
	cr, err := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Add pages", "")
	if err != nil {
		t.Fatalf("CreateChangeRequest failed: %v", err)
	}

	first, err := w.Svc.CreatePage(w.Ctx, author, cr.ID, PageInput{Title: "Getting Started", Content: "# Hi\n"})
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}
	if len(first.DocKey) != types.DocKeyLength {
		t.Errorf("doc key %q has wrong length", first.DocKey)
	}
	if first.Slug != "getting-started" {
		t.Errorf("slug = %q, want getting-started", first.Slug)
	}

	second, err := w.Svc.CreatePage(w.Ctx, author, cr.ID, PageInput{Title: "Next"})
	if err != nil {
		t.Fatalf("second CreatePage failed: %v", err)
	}
	if second.OrderIndex != first.OrderIndex+1 {
		t.Errorf("second page order %d, want %d", second.OrderIndex, first.OrderIndex+1)
	}
	if second.ParentKey != first.ParentKey {
		t.Errorf("pages landed under different parents")
	}

	// Both attach to the root group by default.
	tree, err := w.Svc.GetCRTree(w.Ctx, cr.ID)
	if err != nil {
		t.Fatalf("GetCRTree failed: %v", err)
	}
	if len(tree.Children) != 2 || tree.Children[0].Item.DocKey != first.DocKey {
		t.Fatalf("working tree children wrong: %+v", tree.Children)
	}

	stranger := types.Principal{User: "stranger@example.com"}
	if _, err := w.Svc.CreatePage(w.Ctx, stranger, cr.ID, PageInput{Title: "Nope"}); !types.IsPermission(err) {
		t.Errorf("stranger CreatePage = %v, want permission error", err)
	}
}

func TestUpdatePageContent(t *testing.T) {
	w := newTestWiki(t)
	w.Space()
	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Edit", "")
	page, err := w.Svc.CreatePage(w.Ctx, author, cr.ID, PageInput{Title: "Page", Content: "v1"})
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}

	content := "v2"
	published := true
	updated, err := w.Svc.UpdatePage(w.Ctx, author, cr.ID, page.DocKey, types.DocumentUpdate{
		Content: &content, IsPublished: &published,
	})
	if err != nil {
		t.Fatalf("UpdatePage failed: %v", err)
	}
	if updated.ContentHash == page.ContentHash {
		t.Error("content update did not change the blob")
	}

	got, err := w.Svc.GetCRPage(w.Ctx, cr.ID, page.DocKey)
	if err != nil {
		t.Fatalf("GetCRPage failed: %v", err)
	}
	if got.Content != "v2" || !got.Item.IsPublished {
		t.Errorf("update did not land: %+v", got)
	}
}

func TestMoveAndReorder(t *testing.T) {
	w := newTestWiki(t)
	w.Space()
	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Restructure", "")
	group, _ := w.Svc.CreatePage(w.Ctx, author, cr.ID, PageInput{Title: "Guides", IsGroup: true})
	a, _ := w.Svc.CreatePage(w.Ctx, author, cr.ID, PageInput{Title: "A"})
	b, _ := w.Svc.CreatePage(w.Ctx, author, cr.ID, PageInput{Title: "B"})

	if err := w.Svc.MovePage(w.Ctx, author, cr.ID, a.DocKey, group.DocKey, nil); err != nil {
		t.Fatalf("MovePage failed: %v", err)
	}
	if err := w.Svc.MovePage(w.Ctx, author, cr.ID, b.DocKey, group.DocKey, nil); err != nil {
		t.Fatalf("second MovePage failed: %v", err)
	}

	movedA, _ := w.Svc.GetCRPage(w.Ctx, cr.ID, a.DocKey)
	movedB, _ := w.Svc.GetCRPage(w.Ctx, cr.ID, b.DocKey)
	if movedA.Item.ParentKey != group.DocKey || movedB.Item.ParentKey != group.DocKey {
		t.Fatal("pages not reparented")
	}
	if movedB.Item.OrderIndex <= movedA.Item.OrderIndex {
		t.Errorf("B should land after A: %d vs %d", movedB.Item.OrderIndex, movedA.Item.OrderIndex)
	}

	// Reorder ignores keys that do not resolve.
	err := w.Svc.ReorderChildren(w.Ctx, author, cr.ID, group.DocKey, []string{b.DocKey, "missingkey00", a.DocKey})
	if err != nil {
		t.Fatalf("ReorderChildren failed: %v", err)
	}
	tree, _ := w.Svc.GetCRTree(w.Ctx, cr.ID)
	var groupNode *CRNode
	for _, child := range tree.Children {
		if child.Item.DocKey == group.DocKey {
			groupNode = child
		}
	}
	if groupNode == nil || len(groupNode.Children) != 2 {
		t.Fatalf("group node wrong: %+v", groupNode)
	}
	if groupNode.Children[0].Item.DocKey != b.DocKey {
		t.Errorf("B not first after reorder")
	}

	if err := w.Svc.MovePage(w.Ctx, author, cr.ID, a.DocKey, "missingkey00", nil); !types.IsValidation(err) {
		t.Errorf("move under missing parent = %v, want validation error", err)
	}
}

func TestDeleteCascade(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	g := w.LiveGroup("G", space.RootGroupID, "docs/g")
	c := w.LiveDoc("C", g.ID, "docs/g/c", "body\n")
	w.Rebuild(space.RootGroupID)

	cr, err := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Remove G", "")
	if err != nil {
		t.Fatalf("CreateChangeRequest failed: %v", err)
	}
	if err := w.Svc.DeletePage(w.Ctx, author, cr.ID, g.DocKey); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}

	entries, err := w.Svc.Diff(w.Ctx, cr.ID)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	deleted := make(map[string]bool)
	for _, e := range entries {
		if e.ChangeType == types.ChangeDeleted {
			deleted[e.DocKey] = true
		}
	}
	if !deleted[g.DocKey] || !deleted[c.DocKey] {
		t.Fatalf("cascade missed nodes: %v", entries)
	}

	tree, _ := w.Svc.GetCRTree(w.Ctx, cr.ID)
	if len(tree.Children) != 0 {
		t.Errorf("deleted subtree still in working tree: %+v", tree.Children)
	}
	if _, err := w.Svc.GetCRPage(w.Ctx, cr.ID, c.DocKey); !types.IsNotFound(err) {
		t.Errorf("deleted page read = %v, want not found", err)
	}
}

func TestDeleteCascadeSurvivesCycle(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	g := w.LiveGroup("G", space.RootGroupID, "docs/g")
	c := w.LiveDoc("C", g.ID, "docs/g/c", "")
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Cycle", "")

	// Corrupt the working revision into a parent cycle G -> C -> G.
	item, err := w.Store.GetRevisionItem(w.Ctx, cr.HeadRevisionID, g.DocKey)
	if err != nil {
		t.Fatalf("GetRevisionItem failed: %v", err)
	}
	item.ParentKey = c.DocKey
	if err := w.Store.PutRevisionItem(w.Ctx, item); err != nil {
		t.Fatalf("PutRevisionItem failed: %v", err)
	}

	if err := w.Svc.DeletePage(w.Ctx, author, cr.ID, g.DocKey); err != nil {
		t.Fatalf("DeletePage on cyclic tree failed: %v", err)
	}
}

func TestRootGroupCannotBeDeleted(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	w.Rebuild(space.RootGroupID)
	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Nuke", "")

	root, err := w.Store.GetDocument(w.Ctx, space.RootGroupID)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if err := w.Svc.DeletePage(w.Ctx, author, cr.ID, root.DocKey); !types.IsValidation(err) {
		t.Fatalf("root delete = %v, want validation error", err)
	}
}

func TestDiffSummary(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	a := w.LiveDoc("A", space.RootGroupID, "docs/a", "one\n")
	b := w.LiveDoc("B", space.RootGroupID, "docs/b", "two\n")
	w.Rebuild(space.RootGroupID)

	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Mixed", "")
	content := "one edited\n"
	if _, err := w.Svc.UpdatePage(w.Ctx, author, cr.ID, a.DocKey, types.DocumentUpdate{Content: &content}); err != nil {
		t.Fatalf("UpdatePage failed: %v", err)
	}
	if err := w.Svc.DeletePage(w.Ctx, author, cr.ID, b.DocKey); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	added, err := w.Svc.CreatePage(w.Ctx, author, cr.ID, PageInput{Title: "New"})
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}

	entries, err := w.Svc.Diff(w.Ctx, cr.ID)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	byKey := make(map[string]string)
	for _, e := range entries {
		byKey[e.DocKey] = e.ChangeType
	}
	if byKey[a.DocKey] != types.ChangeModified {
		t.Errorf("A = %q, want modified", byKey[a.DocKey])
	}
	if byKey[b.DocKey] != types.ChangeDeleted {
		t.Errorf("B = %q, want deleted", byKey[b.DocKey])
	}
	if byKey[added.DocKey] != types.ChangeAdded {
		t.Errorf("new page = %q, want added", byKey[added.DocKey])
	}
	if len(entries) != 3 {
		t.Errorf("diff has %d entries, want 3: %v", len(entries), entries)
	}

	diff, err := w.Svc.DiffPage(w.Ctx, cr.ID, a.DocKey)
	if err != nil {
		t.Fatalf("DiffPage failed: %v", err)
	}
	if diff.Base == nil || diff.Base.Content != "one\n" {
		t.Errorf("base side wrong: %+v", diff.Base)
	}
	if diff.Head == nil || diff.Head.Content != "one edited\n" {
		t.Errorf("head side wrong: %+v", diff.Head)
	}
}

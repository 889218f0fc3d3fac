package wiki

import (
	"testing"

	"github.com/wikivault/wikivault/internal/types"
)

func TestCreateChangeRequestSnapshotsMain(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	w.LiveDoc("A", space.RootGroupID, "docs/a", "hello\n")
	w.Rebuild(space.RootGroupID)

	cr, err := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "My change", "")
	if err != nil {
		t.Fatalf("CreateChangeRequest failed: %v", err)
	}
	if cr.Status != types.StatusDraft || cr.Owner != author.User {
		t.Errorf("new CR fields wrong: %+v", cr)
	}

	space, _ = w.Svc.GetSpace(w.Ctx, "docs")
	if space.MainRevisionID != cr.BaseRevisionID {
		t.Errorf("CR base %s is not main %s", cr.BaseRevisionID, space.MainRevisionID)
	}
	base, _ := w.Store.GetRevision(w.Ctx, cr.BaseRevisionID)
	if base.Message != "Initial main" || base.IsWorking {
		t.Errorf("initial main revision wrong: %+v", base)
	}

	head, _ := w.Store.GetRevision(w.Ctx, cr.HeadRevisionID)
	if !head.IsWorking || head.ChangeRequestID != cr.ID {
		t.Errorf("working head wrong: %+v", head)
	}
	if head.TreeHash != base.TreeHash || head.ContentHash != base.ContentHash {
		t.Errorf("fresh head hashes diverge from base")
	}
}

func TestGetOrCreateDraftReuse(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	w.LiveDoc("A", space.RootGroupID, "docs/a", "")
	w.Rebuild(space.RootGroupID)

	first, err := w.Svc.GetOrCreateDraft(w.Ctx, author, "docs")
	if err != nil {
		t.Fatalf("GetOrCreateDraft failed: %v", err)
	}
	second, err := w.Svc.GetOrCreateDraft(w.Ctx, author, "docs")
	if err != nil {
		t.Fatalf("second GetOrCreateDraft failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("draft not reused: %s vs %s", first.ID, second.ID)
	}

	// A different user gets their own draft.
	other, err := w.Svc.GetOrCreateDraft(w.Ctx, manager, "docs")
	if err != nil {
		t.Fatalf("GetOrCreateDraft for manager failed: %v", err)
	}
	if other.ID == first.ID {
		t.Error("drafts shared across owners")
	}
}

func TestRebaseElision(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	a := w.LiveDoc("A", space.RootGroupID, "docs/a", "")
	b := w.LiveDoc("B", space.RootGroupID, "docs/b", "")
	w.Rebuild(space.RootGroupID)

	stale, err := w.Svc.GetOrCreateDraft(w.Ctx, author, "docs")
	if err != nil {
		t.Fatalf("GetOrCreateDraft failed: %v", err)
	}

	// Advance main without changing tree shape or content: reorder to
	// the order the tree already has.
	if _, err := w.Svc.Reorder(w.Ctx, manager, a.ID, "", []string{a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	fresh, err := w.Svc.GetOrCreateDraft(w.Ctx, author, "docs")
	if err != nil {
		t.Fatalf("GetOrCreateDraft after rebase failed: %v", err)
	}
	if fresh.ID == stale.ID {
		t.Fatal("structurally identical stale draft was not replaced")
	}
	archived, _ := w.Svc.GetChangeRequest(w.Ctx, stale.ID)
	if archived.Status != types.StatusArchived || archived.ArchivedAt == nil {
		t.Errorf("stale draft not archived: %+v", archived)
	}
	updated, _ := w.Svc.GetSpace(w.Ctx, "docs")
	if fresh.BaseRevisionID != updated.MainRevisionID {
		t.Errorf("fresh draft base is not the new main")
	}
}

func TestOutdatedDraftIsKept(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	a := w.LiveDoc("A", space.RootGroupID, "docs/a", "")
	b := w.LiveDoc("B", space.RootGroupID, "docs/b", "")
	w.Rebuild(space.RootGroupID)

	draft, err := w.Svc.GetOrCreateDraft(w.Ctx, author, "docs")
	if err != nil {
		t.Fatalf("GetOrCreateDraft failed: %v", err)
	}
	// An edit makes the head diverge from any future main.
	content := "draft content\n"
	if _, err := w.Svc.UpdatePage(w.Ctx, author, draft.ID, a.DocKey, types.DocumentUpdate{Content: &content}); err != nil {
		t.Fatalf("UpdatePage failed: %v", err)
	}

	if _, err := w.Svc.Reorder(w.Ctx, manager, b.ID, "", []string{b.ID, a.ID}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	same, err := w.Svc.GetOrCreateDraft(w.Ctx, author, "docs")
	if err != nil {
		t.Fatalf("GetOrCreateDraft failed: %v", err)
	}
	if same.ID != draft.ID {
		t.Fatal("draft with real edits was replaced")
	}
	if !same.Outdated {
		t.Error("diverged draft not marked outdated")
	}
}

func TestCheckOutdated(t *testing.T) {
	w := newTestWiki(t)
	space := w.Space()
	a := w.LiveDoc("A", space.RootGroupID, "docs/a", "")
	w.Rebuild(space.RootGroupID)

	cr, err := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Change", "")
	if err != nil {
		t.Fatalf("CreateChangeRequest failed: %v", err)
	}
	outdated, err := w.Svc.CheckOutdated(w.Ctx, cr.ID)
	if err != nil {
		t.Fatalf("CheckOutdated failed: %v", err)
	}
	if outdated {
		t.Fatal("fresh CR reported outdated")
	}

	if _, err := w.Svc.Reorder(w.Ctx, manager, a.ID, "", []string{a.ID}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	outdated, err = w.Svc.CheckOutdated(w.Ctx, cr.ID)
	if err != nil {
		t.Fatalf("CheckOutdated failed: %v", err)
	}
	if !outdated {
		t.Fatal("CheckOutdated = false after main advanced")
	}
	got, _ := w.Svc.GetChangeRequest(w.Ctx, cr.ID)
	if !got.Outdated {
		t.Error("outdated flag not persisted")
	}
}

func TestUpdateAndArchiveChangeRequest(t *testing.T) {
	w := newTestWiki(t)
	w.Space()

	cr, err := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Before", "")
	if err != nil {
		t.Fatalf("CreateChangeRequest failed: %v", err)
	}

	title := "After"
	stranger := types.Principal{User: "stranger@example.com"}
	if _, err := w.Svc.UpdateChangeRequest(w.Ctx, stranger, cr.ID, &title, nil); !types.IsPermission(err) {
		t.Fatalf("stranger edit = %v, want permission error", err)
	}
	updated, err := w.Svc.UpdateChangeRequest(w.Ctx, author, cr.ID, &title, nil)
	if err != nil {
		t.Fatalf("UpdateChangeRequest failed: %v", err)
	}
	if updated.Title != "After" {
		t.Errorf("title = %q", updated.Title)
	}

	if err := w.Svc.ArchiveChangeRequest(w.Ctx, author, cr.ID); err != nil {
		t.Fatalf("ArchiveChangeRequest failed: %v", err)
	}
	got, _ := w.Svc.GetChangeRequest(w.Ctx, cr.ID)
	if got.Status != types.StatusArchived || got.ArchivedAt == nil {
		t.Errorf("archive did not land: %+v", got)
	}

	// Closed CRs reject edits.
	if _, err := w.Svc.UpdateChangeRequest(w.Ctx, author, cr.ID, &title, nil); !types.IsValidation(err) {
		t.Errorf("edit of archived CR = %v, want validation error", err)
	}
}

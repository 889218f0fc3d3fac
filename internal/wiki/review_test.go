package wiki

import (
	"testing"

	"github.com/wikivault/wikivault/internal/types"
)

func TestRequestReview(t *testing.T) {
	w := newTestWiki(t)
	w.Space()
	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Review me", "")

	err := w.Svc.RequestReview(w.Ctx, author, cr.ID, []string{
		"alice@example.com", "bob@example.com", "alice@example.com", " ",
	})
	if err != nil {
		t.Fatalf("RequestReview failed: %v", err)
	}

	got, _ := w.Svc.GetChangeRequest(w.Ctx, cr.ID)
	if got.Status != types.StatusInReview {
		t.Errorf("status = %s, want In Review", got.Status)
	}
	if len(got.Reviewers) != 2 {
		t.Fatalf("reviewers = %d, want 2 after dedupe", len(got.Reviewers))
	}
	for _, r := range got.Reviewers {
		if r.Status != types.ReviewRequested {
			t.Errorf("reviewer %s status = %s, want Requested", r.Reviewer, r.Status)
		}
	}

	if err := w.Svc.RequestReview(w.Ctx, author, cr.ID, nil); !types.IsValidation(err) {
		t.Errorf("empty reviewer list = %v, want validation error", err)
	}
}

func TestReviewStatusFunction(t *testing.T) {
	cases := []struct {
		name     string
		statuses []types.ReviewStatus
		want     types.CRStatus
	}{
		{"no reviews yet", []types.ReviewStatus{types.ReviewRequested, types.ReviewRequested}, types.StatusInReview},
		{"partial approval", []types.ReviewStatus{types.ReviewApproved, types.ReviewRequested}, types.StatusInReview},
		{"unanimous approval", []types.ReviewStatus{types.ReviewApproved, types.ReviewApproved}, types.StatusApproved},
		{"changes requested wins", []types.ReviewStatus{types.ReviewApproved, types.ReviewChangesRequested}, types.StatusChangesRequested},
		{"no reviewers", nil, types.StatusInReview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var reviewers []types.Reviewer
			for i, status := range tc.statuses {
				reviewers = append(reviewers, types.Reviewer{Reviewer: string(rune('a' + i)), Status: status})
			}
			if got := reviewOutcome(reviewers); got != tc.want {
				t.Errorf("reviewOutcome(%v) = %s, want %s", tc.statuses, got, tc.want)
			}
		})
	}
}

func TestReviewActionPermissions(t *testing.T) {
	w := newTestWiki(t)
	w.Space()
	cr, _ := w.Svc.CreateChangeRequest(w.Ctx, author, "docs", "Review me", "")
	reviewer := types.Principal{User: "alice@example.com"}
	if err := w.Svc.RequestReview(w.Ctx, author, cr.ID, []string{reviewer.User}); err != nil {
		t.Fatalf("RequestReview failed: %v", err)
	}

	// A bystander can neither review nor impersonate.
	stranger := types.Principal{User: "stranger@example.com"}
	if _, err := w.Svc.ReviewAction(w.Ctx, stranger, cr.ID, "", types.ReviewApproved, ""); !types.IsPermission(err) {
		t.Errorf("stranger review = %v, want permission error", err)
	}
	if _, err := w.Svc.ReviewAction(w.Ctx, stranger, cr.ID, reviewer.User, types.ReviewApproved, ""); !types.IsPermission(err) {
		t.Errorf("impersonation = %v, want permission error", err)
	}
	if _, err := w.Svc.ReviewAction(w.Ctx, reviewer, cr.ID, "", "bogus", ""); !types.IsValidation(err) {
		t.Errorf("bogus action = %v, want validation error", err)
	}

	got, err := w.Svc.ReviewAction(w.Ctx, reviewer, cr.ID, "", types.ReviewApproved, "ship it")
	if err != nil {
		t.Fatalf("ReviewAction failed: %v", err)
	}
	if got.Status != types.StatusApproved {
		t.Errorf("status = %s, want Approved", got.Status)
	}
	if got.Reviewers[0].ReviewedAt == nil || got.Reviewers[0].Comment != "ship it" {
		t.Errorf("review row incomplete: %+v", got.Reviewers[0])
	}

	// A moderator may record a verdict on someone's behalf, even for a
	// reviewer who was never requested.
	got, err = w.Svc.ReviewAction(w.Ctx, approver, cr.ID, "carol@example.com", types.ReviewChangesRequested, "needs work")
	if err != nil {
		t.Fatalf("moderator review failed: %v", err)
	}
	if got.Status != types.StatusChangesRequested {
		t.Errorf("status = %s, want Changes Requested", got.Status)
	}
}

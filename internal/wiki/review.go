package wiki

import (
	"context"
	"strings"
	"time"

	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/types"
)

// RequestReview replaces the reviewer set of an open change request and
// moves it to In Review. Duplicate reviewers collapse; order of first
// appearance wins.
func (s *Service) RequestReview(ctx context.Context, p types.Principal, crID string, reviewers []string) error {
	var rows []types.Reviewer
	seen := make(map[string]bool)
	for _, r := range reviewers {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		rows = append(rows, types.Reviewer{Reviewer: r, Status: types.ReviewRequested})
	}
	if len(rows) == 0 {
		return types.ValidationErrorf("at least one reviewer is required")
	}

	return s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		cr, err := openChangeRequest(ctx, tx, crID)
		if err != nil {
			return err
		}
		if err := requireEditor(p, cr); err != nil {
			return err
		}
		if err := tx.SetReviewers(ctx, crID, rows); err != nil {
			return err
		}
		cr.Status = types.StatusInReview
		return tx.UpdateChangeRequest(ctx, cr)
	})
}

// ReviewAction records one reviewer's verdict and recomputes the change
// request status. An empty reviewer means the caller reviews as
// themselves; recording for someone else takes a moderator role.
func (s *Service) ReviewAction(ctx context.Context, p types.Principal, crID, reviewer string, action types.ReviewStatus, comment string) (*types.ChangeRequest, error) {
	if action != types.ReviewApproved && action != types.ReviewChangesRequested {
		return nil, types.ValidationErrorf("review action must be %q or %q", types.ReviewApproved, types.ReviewChangesRequested)
	}
	if reviewer == "" {
		reviewer = p.User
	}
	if reviewer != p.User && !p.CanModerate() {
		return nil, types.PermissionErrorf("%s may not review on behalf of %s", p.User, reviewer)
	}

	var cr *types.ChangeRequest
	err := s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var err error
		cr, err = openChangeRequest(ctx, tx, crID)
		if err != nil {
			return err
		}
		if reviewer == p.User && !p.CanModerate() && !isReviewer(cr.Reviewers, reviewer) {
			return types.PermissionErrorf("%s is not a reviewer on change request %s", reviewer, crID)
		}

		now := time.Now().UTC()
		err = tx.UpdateReviewer(ctx, crID, types.Reviewer{
			Reviewer:   reviewer,
			Status:     action,
			ReviewedAt: &now,
			Comment:    comment,
		})
		if err != nil {
			return err
		}

		reviewers, err := tx.GetReviewers(ctx, crID)
		if err != nil {
			return err
		}
		cr.Reviewers = reviewers
		cr.Status = reviewOutcome(reviewers)
		return tx.UpdateChangeRequest(ctx, cr)
	})
	if err != nil {
		return nil, err
	}
	return cr, nil
}

func isReviewer(reviewers []types.Reviewer, user string) bool {
	for _, r := range reviewers {
		if r.Reviewer == user {
			return true
		}
	}
	return false
}

// reviewOutcome folds reviewer verdicts into a change request status:
// any Changes Requested wins, a unanimous non-empty approval wins,
// anything else stays In Review.
func reviewOutcome(reviewers []types.Reviewer) types.CRStatus {
	approved := 0
	for _, r := range reviewers {
		switch r.Status {
		case types.ReviewChangesRequested:
			return types.StatusChangesRequested
		case types.ReviewApproved:
			approved++
		}
	}
	if approved > 0 && approved == len(reviewers) {
		return types.StatusApproved
	}
	return types.StatusInReview
}

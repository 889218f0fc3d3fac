package wiki

import (
	"context"
	"strings"
	"time"

	"github.com/wikivault/wikivault/internal/idgen"
	"github.com/wikivault/wikivault/internal/storage"
	"github.com/wikivault/wikivault/internal/types"
)

// CreateChangeRequest opens a draft change request on a space. The
// space's main revision is snapshotted first if it does not exist yet;
// the new CR branches off main with a working head cloned from it.
func (s *Service) CreateChangeRequest(ctx context.Context, p types.Principal, route, title, description string) (*types.ChangeRequest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, types.ValidationErrorf("change request title is required")
	}

	var cr *types.ChangeRequest
	err := s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		space, err := tx.GetSpaceByRoute(ctx, strings.Trim(route, "/"))
		if err != nil {
			return err
		}
		base, err := ensureMainRevision(ctx, tx, space, p.User)
		if err != nil {
			return err
		}

		crID := idgen.NewID("cr")
		head, err := cloneRevision(ctx, tx, base, crID, p.User)
		if err != nil {
			return err
		}
		cr = &types.ChangeRequest{
			ID:             crID,
			SpaceID:        space.ID,
			Title:          title,
			Description:    description,
			Status:         types.StatusDraft,
			BaseRevisionID: base.ID,
			HeadRevisionID: head.ID,
			Owner:          p.User,
		}
		return tx.CreateChangeRequest(ctx, cr)
	})
	if err != nil {
		return nil, err
	}
	return cr, nil
}

// GetOrCreateDraft returns the caller's most recent editable change
// request on a space, opening a fresh one when none exists. A draft
// whose base fell behind main is marked outdated, except when its head
// is already structurally identical to the new main: then the stale
// draft carries nothing worth keeping and is archived in favor of a
// fresh one.
func (s *Service) GetOrCreateDraft(ctx context.Context, p types.Principal, route string) (*types.ChangeRequest, error) {
	var cr *types.ChangeRequest
	err := s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		space, err := tx.GetSpaceByRoute(ctx, strings.Trim(route, "/"))
		if err != nil {
			return err
		}
		draft, err := latestDraft(ctx, tx, space.ID, p.User)
		if err != nil {
			return err
		}
		if draft == nil {
			return nil
		}
		if space.MainRevisionID != draft.BaseRevisionID {
			main, err := tx.GetRevision(ctx, space.MainRevisionID)
			if err != nil {
				return err
			}
			head, err := tx.GetRevision(ctx, draft.HeadRevisionID)
			if err != nil {
				return err
			}
			if head.TreeHash == main.TreeHash && head.ContentHash == main.ContentHash {
				now := time.Now().UTC()
				draft.Status = types.StatusArchived
				draft.ArchivedAt = &now
				if err := tx.UpdateChangeRequest(ctx, draft); err != nil {
					return err
				}
				return nil
			}
			draft.Outdated = true
			if err := tx.UpdateChangeRequest(ctx, draft); err != nil {
				return err
			}
		}
		cr = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cr != nil {
		return cr, nil
	}
	return s.CreateChangeRequest(ctx, p, route, "Draft changes", "")
}

// latestDraft finds the newest Draft or Changes Requested change
// request owned by the given user.
func latestDraft(ctx context.Context, tx storage.Transaction, spaceID, owner string) (*types.ChangeRequest, error) {
	crs, err := tx.ListChangeRequests(ctx, spaceID, "")
	if err != nil {
		return nil, err
	}
	for _, cr := range crs {
		if cr.Owner != owner {
			continue
		}
		if cr.Status == types.StatusDraft || cr.Status == types.StatusChangesRequested {
			return cr, nil
		}
	}
	return nil, nil
}

// ListChangeRequests returns a space's change requests, newest first,
// optionally filtered by status.
func (s *Service) ListChangeRequests(ctx context.Context, route string, status types.CRStatus) ([]*types.ChangeRequest, error) {
	space, err := s.GetSpace(ctx, route)
	if err != nil {
		return nil, err
	}
	return s.store.ListChangeRequests(ctx, space.ID, status)
}

// GetChangeRequest loads a change request with its reviewer list.
func (s *Service) GetChangeRequest(ctx context.Context, id string) (*types.ChangeRequest, error) {
	return s.store.GetChangeRequest(ctx, id)
}

// UpdateChangeRequest edits the title or description of an open change
// request. Only the owner or a moderator may edit.
func (s *Service) UpdateChangeRequest(ctx context.Context, p types.Principal, id string, title, description *string) (*types.ChangeRequest, error) {
	var cr *types.ChangeRequest
	err := s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var err error
		cr, err = openChangeRequest(ctx, tx, id)
		if err != nil {
			return err
		}
		if cr.Owner != p.User && !p.CanModerate() {
			return types.PermissionErrorf("%s may not edit change request %s", p.User, id)
		}
		if title != nil {
			if strings.TrimSpace(*title) == "" {
				return types.ValidationErrorf("change request title must not be empty")
			}
			cr.Title = strings.TrimSpace(*title)
		}
		if description != nil {
			cr.Description = *description
		}
		return tx.UpdateChangeRequest(ctx, cr)
	})
	if err != nil {
		return nil, err
	}
	return cr, nil
}

// ArchiveChangeRequest closes an open change request without merging.
func (s *Service) ArchiveChangeRequest(ctx context.Context, p types.Principal, id string) error {
	return s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		cr, err := openChangeRequest(ctx, tx, id)
		if err != nil {
			return err
		}
		if cr.Owner != p.User && !p.CanModerate() {
			return types.PermissionErrorf("%s may not archive change request %s", p.User, id)
		}
		now := time.Now().UTC()
		cr.Status = types.StatusArchived
		cr.ArchivedAt = &now
		return tx.UpdateChangeRequest(ctx, cr)
	})
}

// CheckOutdated recomputes and persists whether a change request's base
// revision is still the space's main revision.
func (s *Service) CheckOutdated(ctx context.Context, id string) (bool, error) {
	var outdated bool
	err := s.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		cr, err := tx.GetChangeRequest(ctx, id)
		if err != nil {
			return err
		}
		space, err := tx.GetSpace(ctx, cr.SpaceID)
		if err != nil {
			return err
		}
		outdated = space.MainRevisionID != cr.BaseRevisionID
		if outdated == cr.Outdated {
			return nil
		}
		cr.Outdated = outdated
		return tx.UpdateChangeRequest(ctx, cr)
	})
	if err != nil {
		return false, err
	}
	return outdated, nil
}

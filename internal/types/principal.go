package types

// Role names understood by the core. Transport and authentication live
// outside the core; handlers receive an already-authenticated principal
// with a resolved role set.
const (
	RoleWikiManager   = "Wiki Manager"
	RoleWikiApprover  = "Wiki Approver"
	RoleSystemManager = "System Manager"
)

// Principal is the authenticated caller of a core operation.
type Principal struct {
	User  string
	Roles []string
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanModerate reports whether the principal may review on behalf of
// others and merge change requests.
func (p Principal) CanModerate() bool {
	return p.HasRole(RoleWikiManager) || p.HasRole(RoleWikiApprover) || p.HasRole(RoleSystemManager)
}

// CanWriteLive reports whether the principal may write to live documents
// directly. Callers without this capability have their structural edits
// routed into a draft change request instead.
func (p Principal) CanWriteLive() bool {
	return p.HasRole(RoleWikiManager) || p.HasRole(RoleSystemManager)
}

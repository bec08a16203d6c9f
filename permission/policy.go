package permission

import (
	"errors"
	"slices"
)

// ErrForbidden is returned by every guard that denies an action.
var ErrForbidden = errors.New("forbidden")

// Subject is the authenticated principal a guard is evaluated against.
type Subject struct {
	ID      string
	Role    Role
	TeamIDs []string
	Active  bool
}

// Policy evaluates authorization guards against a fixed role map.
//
// A Policy is immutable after construction and safe for concurrent use.
type Policy struct {
	roles map[Role]Mask64
}

// NewPolicy copies roles into a new [Policy]. A nil map selects
// [DefaultRolePermissions].
func NewPolicy(roles map[Role]Mask64) *Policy {
	if roles == nil {
		roles = DefaultRolePermissions
	}
	copied := make(map[Role]Mask64, len(roles))
	for r, m := range roles {
		copied[r] = m
	}
	return &Policy{roles: copied}
}

// Permissions returns the mask granted to role. Unknown roles get none.
func (p *Policy) Permissions(role Role) Mask64 {
	return p.roles[role]
}

// RequireRole fails unless the subject's role is one of allowed.
func (p *Policy) RequireRole(s Subject, allowed ...Role) error {
	if !s.Active {
		return ErrForbidden
	}
	if slices.Contains(allowed, s.Role) {
		return nil
	}
	return ErrForbidden
}

// RequirePermission fails unless the subject's role grants perm.
func (p *Policy) RequirePermission(s Subject, perm Permission) error {
	if !s.Active {
		return ErrForbidden
	}
	if p.roles[s.Role].Has(perm) {
		return nil
	}
	return ErrForbidden
}

// RequireTeamMembership fails unless the subject belongs to teamID. Admins
// always pass.
func (p *Policy) RequireTeamMembership(s Subject, teamID string) error {
	if !s.Active {
		return ErrForbidden
	}
	if s.Role == RoleAdmin {
		return nil
	}
	if teamID != "" && slices.Contains(s.TeamIDs, teamID) {
		return nil
	}
	return ErrForbidden
}

// RequireOwnership fails unless the subject is ownerID. Admins always pass.
func (p *Policy) RequireOwnership(s Subject, ownerID string) error {
	if !s.Active {
		return ErrForbidden
	}
	if s.Role == RoleAdmin {
		return nil
	}
	if ownerID != "" && s.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

package service

import domainsession "github.com/dlretail/sessiongate/internal/domain/session"

// PermissionView derives capability checks from a session user. Views are
// cheap value types recomputed per call; never hold one across a session
// change.
type PermissionView struct {
	user *domainsession.User
}

// NewPermissionView builds a view over user, which may be nil.
func NewPermissionView(user *domainsession.User) PermissionView {
	return PermissionView{user: user}
}

// HasPermission reports membership of name in the user's permission set.
// Always false when unauthenticated.
func (v PermissionView) HasPermission(name string) bool {
	if !v.user.Valid() {
		return false
	}
	return v.user.HasPermission(name)
}

// HasAnyPermission reports whether the user holds at least one of names.
// With no names given there is nothing to require, so it reports true for
// any authenticated user.
func (v PermissionView) HasAnyPermission(names ...string) bool {
	if !v.user.Valid() {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if v.user.HasPermission(name) {
			return true
		}
	}
	return false
}

// HasRole reports an exact match against the user's role.
func (v PermissionView) HasRole(role domainsession.Role) bool {
	return v.user.Valid() && v.user.Role == role
}

// Named capability predicates. Pure compositions of HasRole; they carry no
// state of their own.

// CanManageTeam reports whether the user can manage the sales team.
func (v PermissionView) CanManageTeam() bool {
	return v.HasRole(domainsession.RoleManager)
}

// CanViewReports reports whether the user can open performance reports.
func (v PermissionView) CanViewReports() bool {
	return v.HasRole(domainsession.RoleManager)
}

// CanManageSettings reports whether the user can change workspace settings.
func (v PermissionView) CanManageSettings() bool {
	return v.HasRole(domainsession.RoleManager)
}

// CanAccessAds reports whether the user can open the ads workspace.
func (v PermissionView) CanAccessAds() bool {
	return v.HasRole(domainsession.RoleManager) || v.HasRole(domainsession.RoleAds)
}

// CanCreateAds reports whether the user can create ad campaigns.
func (v PermissionView) CanCreateAds() bool {
	return v.HasRole(domainsession.RoleManager) || v.HasRole(domainsession.RoleAds)
}

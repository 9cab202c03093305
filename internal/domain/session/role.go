package session

import "strings"

// Role represents an application's authorization role.
// Keep string form for easy persistence and storage round-trips.
// Valid values are defined as constants below.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleSales   Role = "SALES"
	RoleAds     Role = "ADS"
)

// DefaultRole is the fallback for unrecognized role strings. The permissive
// default (sales rather than deny) is carried over from the legacy
// application; see DESIGN.md for the open question around it.
const DefaultRole = RoleSales

// roleSynonyms maps known free-form role spellings onto canonical roles.
// The table is fixed; anything missing falls back to DefaultRole.
var roleSynonyms = map[string]Role{
	"manager":       RoleManager,
	"admin":         RoleManager,
	"administrator": RoleManager,
	"sales":         RoleSales,
	"sales-rep":     RoleSales,
	"salesperson":   RoleSales,
	"seller":        RoleSales,
	"ads":           RoleAds,
	"ads-operator":  RoleAds,
	"advertiser":    RoleAds,
	"marketing":     RoleAds,
}

// NormalizeRole maps a free-form role string onto the closed Role enum.
// Matching is case-insensitive and ignores surrounding whitespace.
// Unrecognized input deterministically falls back to DefaultRole.
func NormalizeRole(raw string) Role {
	v := strings.ToLower(strings.TrimSpace(raw))
	if role, ok := roleSynonyms[v]; ok {
		return role
	}
	return DefaultRole
}

// ValidRole reports whether r is one of the canonical enum values.
// NormalizeRole output is always valid; stored data may not be.
func ValidRole(r Role) bool {
	switch r {
	case RoleManager, RoleSales, RoleAds:
		return true
	}
	return false
}

// HomeRoute returns the default landing route for a role. It is total:
// unrecognized roles land on the DefaultRole home.
func HomeRoute(role Role) string {
	switch role {
	case RoleManager:
		return "/manager-home"
	case RoleSales:
		return "/sales-home"
	case RoleAds:
		return "/ads-home"
	}
	return HomeRoute(DefaultRole)
}

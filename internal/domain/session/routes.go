package session

import "strings"

// LoginRoute is the public route hosting the login form. Guards redirect
// unauthenticated users here and authenticated users away from here.
const LoginRoute = "/login"

// ReturnTargetParam is the query parameter carrying the original path an
// unauthenticated user tried to reach, so login can forward them back.
const ReturnTargetParam = "next"

// RouteScope classifies a navigable path for guard decisions.
type RouteScope int

const (
	// ScopePublic covers login, error and not-found routes, plus anything
	// the classifier does not recognize.
	ScopePublic RouteScope = iota
	// ScopeRole marks a path bound to exactly one role's subtree.
	ScopeRole
)

// RouteClass is the result of classifying a path. Role is meaningful only
// when Scope is ScopeRole.
type RouteClass struct {
	Scope RouteScope
	Role  Role
}

// roleSegments maps the first path segment of each role subtree to its role.
var roleSegments = map[string]Role{
	"manager-home": RoleManager,
	"sales-home":   RoleSales,
	"ads-home":     RoleAds,
}

// ClassifyRoute derives the scope of a path. The classification is computed
// per navigation and never cached.
func ClassifyRoute(path string) RouteClass {
	seg := firstSegment(path)
	if role, ok := roleSegments[seg]; ok {
		return RouteClass{Scope: ScopeRole, Role: role}
	}
	return RouteClass{Scope: ScopePublic}
}

// SamePath reports whether two paths are equal ignoring trailing slashes.
// Redirect idempotence is defined in terms of this comparison.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return trimTrailingSlashes(a) == trimTrailingSlashes(b)
}

func trimTrailingSlashes(p string) string {
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func firstSegment(path string) string {
	// Strip any query portion before segmenting.
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

package guard

// Package guard holds the authorization policy and its two enforcement
// adapters. The role/permission rules are defined once, on Policy; the
// navigation guard and the render guard only differ in how they act on a
// policy outcome.

import (
	"net/url"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
	"github.com/dlretail/sessiongate/internal/service"
)

// DecisionKind classifies a navigation policy outcome.
type DecisionKind int

const (
	// DecisionAllow lets the navigation proceed.
	DecisionAllow DecisionKind = iota
	// DecisionLoading means the session outcome is unknown; render a neutral
	// loading view and perform no redirect.
	DecisionLoading
	// DecisionRedirect replaces the current location with Target.
	DecisionRedirect
)

// Decision is the outcome of evaluating a navigation against the session.
type Decision struct {
	Kind   DecisionKind
	Target string // set when Kind is DecisionRedirect
}

// Policy evaluates role and permission rules against session snapshots. It
// is stateless; construct one and share it between both guard layers.
type Policy struct{}

// Decide evaluates a navigation to path. The rules, in order:
// a loading session decides nothing; public paths are allowed except that an
// authenticated user headed to the login route is sent home; role-scoped
// paths require authentication (redirect to login with a return target) and
// the matching role (a wrong role is silently rerouted to its own home,
// never shown an access-denied page at this layer).
func (Policy) Decide(snap service.Snapshot, path string) Decision {
	if snap.Loading() {
		return Decision{Kind: DecisionLoading}
	}

	class := domainsession.ClassifyRoute(path)
	if class.Scope == domainsession.ScopePublic {
		if snap.IsAuthenticated() && domainsession.SamePath(pathOnly(path), domainsession.LoginRoute) {
			return Decision{Kind: DecisionRedirect, Target: domainsession.HomeRoute(snap.User.Role)}
		}
		return Decision{Kind: DecisionAllow}
	}

	if !snap.IsAuthenticated() {
		return Decision{Kind: DecisionRedirect, Target: loginWithReturnTarget(path)}
	}
	if snap.User.Role != class.Role {
		return Decision{Kind: DecisionRedirect, Target: domainsession.HomeRoute(snap.User.Role)}
	}
	return Decision{Kind: DecisionAllow}
}

// Requirement is a per-feature check enforced by the render guard.
// Zero-value fields are not checked. RequiredRole takes priority over
// RequiredPermission, matching the legacy component.
type Requirement struct {
	RequiredRole       domainsession.Role
	RequiredPermission string
}

// DenialReason classifies why a render-level check failed.
type DenialReason int

const (
	// ReasonNotAuthenticated: no session; the view asks the user to log in.
	ReasonNotAuthenticated DenialReason = iota
	// ReasonRoleMismatch: authenticated but the required role differs.
	ReasonRoleMismatch
	// ReasonMissingPermission: authenticated but the permission is absent.
	ReasonMissingPermission
)

// Denial is the view data for a failed render-level check. It is terminal
// for the current render; only a new navigation or a session change
// re-evaluates.
type Denial struct {
	Reason       DenialReason
	RequiredRole domainsession.Role
	ActualRole   domainsession.Role
	Permission   string
}

// Message renders the user-facing denial text.
func (d *Denial) Message() string {
	switch d.Reason {
	case ReasonRoleMismatch:
		return "Insufficient access level: requires " + string(d.RequiredRole) +
			", you have " + string(d.ActualRole) + "."
	case ReasonMissingPermission:
		return "Insufficient permission: missing " + d.Permission + "."
	default:
		return "Access denied. Please log in to view this page."
	}
}

// Check evaluates a render-level requirement. A nil result means the
// children may render.
func (Policy) Check(snap service.Snapshot, req Requirement) *Denial {
	if !snap.IsAuthenticated() {
		return &Denial{Reason: ReasonNotAuthenticated}
	}
	if req.RequiredRole != "" && snap.User.Role != req.RequiredRole {
		return &Denial{
			Reason:       ReasonRoleMismatch,
			RequiredRole: req.RequiredRole,
			ActualRole:   snap.User.Role,
		}
	}
	if req.RequiredPermission != "" && !snap.User.HasPermission(req.RequiredPermission) {
		return &Denial{
			Reason:     ReasonMissingPermission,
			Permission: req.RequiredPermission,
		}
	}
	return nil
}

// loginWithReturnTarget builds the login redirect carrying the original path
// so login can forward the user back after success.
func loginWithReturnTarget(path string) string {
	return domainsession.LoginRoute + "?" + domainsession.ReturnTargetParam + "=" + url.QueryEscape(path)
}

// pathOnly strips any query portion from a path.
func pathOnly(path string) string {
	if u, err := url.Parse(path); err == nil {
		return u.Path
	}
	return path
}

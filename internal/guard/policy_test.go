package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
	"github.com/dlretail/sessiongate/internal/service"
)

func authedSnap(role domainsession.Role, perms ...string) service.Snapshot {
	return service.Snapshot{
		Token: "tok-1",
		User: &domainsession.User{
			ID:          "u-1",
			Email:       "pat@dlretail.com",
			Role:        role,
			Permissions: perms,
		},
		State: service.StateAuthenticated,
	}
}

func anonSnap() service.Snapshot {
	return service.Snapshot{State: service.StateUnauthenticated}
}

func TestPolicyDecide_LoadingDecidesNothing(t *testing.T) {
	var policy Policy
	for _, state := range []service.State{service.StateInitializing, service.StateAuthenticating} {
		snap := service.Snapshot{State: state}
		decision := policy.Decide(snap, "/manager-home")
		assert.Equal(t, DecisionLoading, decision.Kind, "state %s", state)
	}
}

func TestPolicyDecide_UnauthenticatedGetsLoginWithReturnTarget(t *testing.T) {
	var policy Policy
	decision := policy.Decide(anonSnap(), "/manager-home/reports")
	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/login?next=%2Fmanager-home%2Freports", decision.Target)
}

func TestPolicyDecide_WrongRoleReroutesToOwnHome(t *testing.T) {
	var policy Policy
	decision := policy.Decide(authedSnap(domainsession.RoleSales), "/manager-home")
	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/sales-home", decision.Target)
}

func TestPolicyDecide_MatchingRoleAllowed(t *testing.T) {
	var policy Policy
	tests := []struct {
		role domainsession.Role
		path string
	}{
		{domainsession.RoleManager, "/manager-home"},
		{domainsession.RoleSales, "/sales-home/deals/12"},
		{domainsession.RoleAds, "/ads-home/"},
	}
	for _, tc := range tests {
		decision := policy.Decide(authedSnap(tc.role), tc.path)
		assert.Equal(t, DecisionAllow, decision.Kind, "%s on %s", tc.role, tc.path)
	}
}

func TestPolicyDecide_AuthenticatedOnLoginGoesHome(t *testing.T) {
	var policy Policy
	decision := policy.Decide(authedSnap(domainsession.RoleAds), "/login")
	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/ads-home", decision.Target)

	// The return-target query string does not change the outcome.
	decision = policy.Decide(authedSnap(domainsession.RoleAds), "/login?next=%2Fads-home")
	assert.Equal(t, DecisionRedirect, decision.Kind)
}

func TestPolicyDecide_PublicPathsAllowed(t *testing.T) {
	var policy Policy
	for _, path := range []string{"/", "/about", "/login"} {
		assert.Equal(t, DecisionAllow, policy.Decide(anonSnap(), path).Kind, path)
	}
	// Public paths other than login stay open when authenticated.
	assert.Equal(t, DecisionAllow, policy.Decide(authedSnap(domainsession.RoleManager), "/about").Kind)
}

func TestPolicyCheck_NotAuthenticated(t *testing.T) {
	var policy Policy
	denial := policy.Check(anonSnap(), Requirement{RequiredRole: domainsession.RoleManager})
	require.NotNil(t, denial)
	assert.Equal(t, ReasonNotAuthenticated, denial.Reason)
	assert.Equal(t, "Access denied. Please log in to view this page.", denial.Message())
}

func TestPolicyCheck_RoleMismatch(t *testing.T) {
	var policy Policy
	denial := policy.Check(authedSnap(domainsession.RoleSales), Requirement{RequiredRole: domainsession.RoleManager})
	require.NotNil(t, denial)
	assert.Equal(t, ReasonRoleMismatch, denial.Reason)
	assert.Equal(t, domainsession.RoleManager, denial.RequiredRole)
	assert.Equal(t, domainsession.RoleSales, denial.ActualRole)
	assert.Equal(t, "Insufficient access level: requires MANAGER, you have SALES.", denial.Message())
}

func TestPolicyCheck_MissingPermission(t *testing.T) {
	var policy Policy
	denial := policy.Check(authedSnap(domainsession.RoleSales, "create-sale"), Requirement{RequiredPermission: "manage-team"})
	require.NotNil(t, denial)
	assert.Equal(t, ReasonMissingPermission, denial.Reason)
	assert.Equal(t, "manage-team", denial.Permission)
	assert.Equal(t, "Insufficient permission: missing manage-team.", denial.Message())
}

func TestPolicyCheck_RoleTakesPriorityOverPermission(t *testing.T) {
	var policy Policy
	// Both checks would fail; the role denial wins.
	denial := policy.Check(authedSnap(domainsession.RoleSales), Requirement{
		RequiredRole:       domainsession.RoleManager,
		RequiredPermission: "manage-team",
	})
	require.NotNil(t, denial)
	assert.Equal(t, ReasonRoleMismatch, denial.Reason)
}

func TestPolicyCheck_Passes(t *testing.T) {
	var policy Policy
	assert.Nil(t, policy.Check(authedSnap(domainsession.RoleManager, "manage-team"), Requirement{
		RequiredRole:       domainsession.RoleManager,
		RequiredPermission: "manage-team",
	}))
	// An empty requirement only demands authentication.
	assert.Nil(t, policy.Check(authedSnap(domainsession.RoleSales), Requirement{}))
}

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
)

func TestRenderGuard_CheckDeniesAnonymous(t *testing.T) {
	guard := NewRenderGuard(fixedSnapshot{anonSnap()})

	denial := guard.Check(Requirement{RequiredRole: domainsession.RoleManager})
	require.NotNil(t, denial)
	assert.Equal(t, ReasonNotAuthenticated, denial.Reason)
}

func TestRenderGuard_CheckDeniesWrongRole(t *testing.T) {
	guard := NewRenderGuard(fixedSnapshot{authedSnap(domainsession.RoleAds)})

	denial := guard.Check(Requirement{RequiredRole: domainsession.RoleManager})
	require.NotNil(t, denial)
	assert.Equal(t, ReasonRoleMismatch, denial.Reason)
	assert.Equal(t, domainsession.RoleAds, denial.ActualRole)
}

func TestRenderGuard_CheckPassesMatchingPermission(t *testing.T) {
	guard := NewRenderGuard(fixedSnapshot{authedSnap(domainsession.RoleAds, "create-ads")})

	assert.Nil(t, guard.Check(Requirement{RequiredPermission: "create-ads"}))
}

func TestRenderGuard_Allowed(t *testing.T) {
	guard := NewRenderGuard(fixedSnapshot{authedSnap(domainsession.RoleSales, "create-sale")})

	assert.True(t, guard.Allowed(Requirement{RequiredPermission: "create-sale"}))
	assert.False(t, guard.Allowed(Requirement{RequiredPermission: "manage-team"}))
	assert.False(t, guard.Allowed(Requirement{RequiredRole: domainsession.RoleManager}))
}

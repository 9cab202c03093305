package guard

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
	"github.com/dlretail/sessiongate/internal/mocks"
	"github.com/dlretail/sessiongate/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fixedSnapshot satisfies SnapshotProvider with a constant view.
type fixedSnapshot struct{ snap service.Snapshot }

func (f fixedSnapshot) Snapshot() service.Snapshot { return f.snap }

func TestNavigationGuard_EnforceRedirectsAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	guard := NewNavigationGuard(fixedSnapshot{anonSnap()}, nav, discardLogger())

	nav.EXPECT().CurrentPath().Return("/manager-home")
	nav.EXPECT().Redirect("/login?next=%2Fmanager-home")

	decision := guard.Enforce()
	assert.Equal(t, DecisionRedirect, decision.Kind)
}

func TestNavigationGuard_EnforceAllowsMatchingRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	guard := NewNavigationGuard(fixedSnapshot{authedSnap(domainsession.RoleManager)}, nav, discardLogger())

	nav.EXPECT().CurrentPath().Return("/manager-home")

	decision := guard.Enforce()
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestNavigationGuard_EnforceAllowsOwnHomeWithTrailingSlash(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	guard := NewNavigationGuard(fixedSnapshot{authedSnap(domainsession.RoleSales)}, nav, discardLogger())

	nav.EXPECT().CurrentPath().Return("/sales-home/")

	decision := guard.Enforce()
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestNavigationGuard_EnforceRedirectsWrongRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	guard := NewNavigationGuard(fixedSnapshot{authedSnap(domainsession.RoleSales)}, nav, discardLogger())

	nav.EXPECT().CurrentPath().Return("/manager-home")
	nav.EXPECT().Redirect("/sales-home")

	decision := guard.Enforce()
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/sales-home", decision.Target)
}

func TestNavigationGuard_EnforceLoadingDoesNotRedirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	snap := service.Snapshot{State: service.StateInitializing}
	guard := NewNavigationGuard(fixedSnapshot{snap}, nav, discardLogger())

	nav.EXPECT().CurrentPath().Return("/manager-home")

	decision := guard.Enforce()
	assert.Equal(t, DecisionLoading, decision.Kind)
}

func TestNavigationGuard_EvaluateDoesNotAct(t *testing.T) {
	ctrl := gomock.NewController(t)
	nav := mocks.NewMockNavigator(ctrl)
	guard := NewNavigationGuard(fixedSnapshot{anonSnap()}, nav, discardLogger())

	// Evaluate must never issue a Redirect call.
	nav.EXPECT().CurrentPath().Return("/ads-home")

	decision := guard.Evaluate()
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/login?next=%2Fads-home", decision.Target)
}

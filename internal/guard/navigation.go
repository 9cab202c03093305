package guard

import (
	"log/slog"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
	"github.com/dlretail/sessiongate/internal/ports"
	"github.com/dlretail/sessiongate/internal/service"
)

// SnapshotProvider supplies the current session view. *service.SessionService
// satisfies it; tests substitute a fixed snapshot.
type SnapshotProvider interface {
	Snapshot() service.Snapshot
}

// NavigationGuard is the coarse-grained enforcement point, evaluated on
// every navigation or session change. It consumes Policy decisions and
// drives the injected navigator; redirects replace the current location and
// are suppressed when already on the target path.
type NavigationGuard struct {
	policy   Policy
	sessions SnapshotProvider
	nav      ports.Navigator
	logger   *slog.Logger
}

// NewNavigationGuard constructs a NavigationGuard.
func NewNavigationGuard(sessions SnapshotProvider, nav ports.Navigator, logger *slog.Logger) *NavigationGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &NavigationGuard{sessions: sessions, nav: nav, logger: logger}
}

// Evaluate computes the policy decision for the navigator's current path
// without acting on it.
func (g *NavigationGuard) Evaluate() Decision {
	return g.policy.Decide(g.sessions.Snapshot(), g.nav.CurrentPath())
}

// Enforce evaluates the current path and applies the decision, performing
// at most one idempotent redirect. It returns the decision so callers can
// render a loading view on DecisionLoading. Enforcement never fails; denied
// access degrades to a redirect, not an error.
func (g *NavigationGuard) Enforce() Decision {
	current := g.nav.CurrentPath()
	decision := g.policy.Decide(g.sessions.Snapshot(), current)

	if decision.Kind == DecisionRedirect && !domainsession.SamePath(current, decision.Target) {
		g.logger.Debug("navigation guard redirect", "from", current, "to", decision.Target)
		g.nav.Redirect(decision.Target)
	}
	return decision
}

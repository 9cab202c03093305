package guard

// RenderGuard is the fine-grained enforcement point wrapping individual
// protected subtrees. Unlike the navigation layer it never redirects: a
// failed check yields a Denial view for the current render.
type RenderGuard struct {
	policy   Policy
	sessions SnapshotProvider
}

// NewRenderGuard constructs a RenderGuard.
func NewRenderGuard(sessions SnapshotProvider) *RenderGuard {
	return &RenderGuard{sessions: sessions}
}

// Check evaluates req against the current session. A nil result means the
// protected content may render; otherwise the returned Denial describes the
// access-denied view to show instead.
func (g *RenderGuard) Check(req Requirement) *Denial {
	return g.policy.Check(g.sessions.Snapshot(), req)
}

// Allowed is a convenience wrapper for callers that only need a boolean,
// such as hiding a button behind a permission.
func (g *RenderGuard) Allowed(req Requirement) bool {
	return g.Check(req) == nil
}

package service

import (
	"context"
	"log/slog"
	"sync"

	domainsession "github.com/dlretail/sessiongate/internal/domain/session"
	apperrors "github.com/dlretail/sessiongate/internal/errors"
	"github.com/dlretail/sessiongate/internal/ports"
)

// State is the session lifecycle state.
type State string

const (
	// StateInitializing holds until the first storage load completes.
	// Guards render a neutral loading view instead of redirecting.
	StateInitializing State = "initializing"
	// StateAuthenticating is entered while a login call is outstanding.
	StateAuthenticating State = "authenticating"
	// StateAuthenticated means both credential and user are present and valid.
	StateAuthenticated State = "authenticated"
	// StateUnauthenticated is the fully-absent session.
	StateUnauthenticated State = "unauthenticated"
)

// Snapshot is a point-in-time view of the session handed to consumers and
// guard evaluations. It never exposes a partial session.
type Snapshot struct {
	Token string
	User  *domainsession.User
	State State
}

// IsAuthenticated reports whether the snapshot carries a full session.
func (s Snapshot) IsAuthenticated() bool { return s.State == StateAuthenticated }

// Loading reports whether the session outcome is not yet known.
func (s Snapshot) Loading() bool {
	return s.State == StateInitializing || s.State == StateAuthenticating
}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Storage   *StorageService
	API       ports.LoginAPI
	Navigator ports.Navigator
	// Notifier delivers cross-tab storage changes. Optional; without it the
	// service still works but only observes its own writes.
	Notifier ports.ChangeNotifier
	// SelfOrigin identifies this service's own storage writes so change
	// notifications for them are ignored.
	SelfOrigin string
	Logger     *slog.Logger
}

// SessionService owns the client session state machine: it holds the current
// (token, user) pair, runs login/logout transitions, mirrors every transition
// to durable storage, and reconciles external storage changes. Construct one
// per process via bootstrap; tests build isolated instances directly.
type SessionService struct {
	storage    *StorageService
	api        ports.LoginAPI
	nav        ports.Navigator
	notifier   ports.ChangeNotifier
	selfOrigin string
	logger     *slog.Logger

	mu       sync.RWMutex
	state    State
	sess     domainsession.Session
	inflight int

	subMu     sync.Mutex
	subs      map[int]func(Snapshot)
	nextSubID int

	unsubscribe func()
}

// NewSessionService constructs a SessionService in the initializing state.
// Call Init to load persisted state and start observing storage changes.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		storage:    opts.Storage,
		api:        opts.API,
		nav:        opts.Navigator,
		notifier:   opts.Notifier,
		selfOrigin: opts.SelfOrigin,
		logger:     logger,
		state:      StateInitializing,
		subs:       make(map[int]func(Snapshot)),
	}
}

// Init loads the persisted session and subscribes to storage change
// notifications. It must be called once before the service is used.
func (s *SessionService) Init(ctx context.Context) error {
	if s.notifier != nil {
		unsub, err := s.notifier.Subscribe(ctx, s.onStorageChange)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "subscribe to storage changes")
		}
		s.unsubscribe = unsub
	}
	s.applyExternal(ctx)
	return nil
}

// Close stops observing storage changes. The service itself has no other
// resources; it is intended to live for the process lifetime.
func (s *SessionService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Snapshot returns the current session view.
func (s *SessionService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.sess.Token, User: s.sess.User, State: s.state}
}

// IsAuthenticated reports whether a full session is present.
func (s *SessionService) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

// Permissions returns a point-in-time permission view over the current user.
func (s *SessionService) Permissions() PermissionView {
	return PermissionView{user: s.Snapshot().User}
}

// Login posts the credentials to the login endpoint and, on success,
// transitions to authenticated, persists the session, and returns the
// resolved role so callers can navigate immediately. Failure clears the
// session: a rejection surfaces as an authentication error carrying the
// server message, a malformed success body as a protocol error.
//
// Concurrent calls are not coalesced and an in-flight call is not canceled
// by logout; the last resolution wins.
func (s *SessionService) Login(ctx context.Context, email, password, profileHint string) (domainsession.Role, error) {
	s.mu.Lock()
	s.inflight++
	s.state = StateAuthenticating
	s.mu.Unlock()
	s.notifyAll()

	result, err := s.api.Authenticate(ctx, ports.Credentials{
		Email:       email,
		Password:    password,
		ProfileHint: profileHint,
	})
	if err != nil {
		s.settle(ctx, domainsession.Session{})
		return "", err
	}

	role := domainsession.NormalizeRole(rawRole(result.RawUser))
	user := normalizeRawUser(result.RawUser, normalizeDefaults{
		Email:       email,
		DisplayName: "User",
	})
	user.Role = role

	sess := domainsession.Sanitize(domainsession.Session{Token: result.AccessToken, User: &user})
	if !sess.IsAuthenticated() {
		s.settle(ctx, domainsession.Session{})
		return "", apperrors.Protocol("login response did not produce a valid session")
	}

	s.settle(ctx, sess)
	if err := s.storage.SaveLegacyCompat(ctx, sess, profileHint); err != nil {
		s.logger.Warn("legacy compatibility write failed", "error", err)
	}
	return role, nil
}

// Logout clears the session and storage. Unless redirect is false, it sends
// the navigator to the login route, skipping the instruction when already
// there. Logging out twice is a no-op beyond the first call.
func (s *SessionService) Logout(ctx context.Context, redirect bool) {
	s.mu.Lock()
	s.sess = domainsession.Session{}
	s.state = StateUnauthenticated
	s.mu.Unlock()

	s.persist(ctx, domainsession.Session{})
	s.notifyAll()

	if redirect && s.nav != nil && !domainsession.SamePath(s.nav.CurrentPath(), domainsession.LoginRoute) {
		s.nav.Redirect(domainsession.LoginRoute)
	}
}

// RefreshFromStorage re-reads durable storage and replaces the in-memory
// state; used to recover after an external mutation of storage.
func (s *SessionService) RefreshFromStorage(ctx context.Context) {
	s.applyExternal(ctx)
}

// Subscribe registers fn for session snapshots after every transition.
// The returned function removes the subscription.
func (s *SessionService) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// applyExternal is the single reconciliation path for state that originated
// outside this service: initial load, RefreshFromStorage, and cross-tab
// change notifications all land here.
func (s *SessionService) applyExternal(ctx context.Context) {
	sess := s.storage.Load(ctx)

	s.mu.Lock()
	s.sess = sess
	if sess.IsAuthenticated() {
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}
	s.mu.Unlock()

	s.notifyAll()
}

// onStorageChange reacts to storage change notifications: foreign changes to
// a canonical key trigger reconciliation, everything else is ignored.
func (s *SessionService) onStorageChange(change ports.Change) {
	if s.selfOrigin != "" && change.Origin == s.selfOrigin {
		return
	}
	if change.Key != KeyToken && change.Key != KeyUser {
		return
	}
	s.applyExternal(context.Background())
}

// settle records the outcome of a login attempt: state transition, storage
// write-through, subscriber notification.
func (s *SessionService) settle(ctx context.Context, sess domainsession.Session) {
	s.mu.Lock()
	if s.inflight > 0 {
		s.inflight--
	}
	s.sess = sess
	if sess.IsAuthenticated() {
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}
	s.mu.Unlock()

	s.persist(ctx, sess)
	s.notifyAll()
}

// persist mirrors the session to storage. Failures are logged, not
// propagated: the in-memory session stays authoritative for this tab and
// the sanitize step protects other tabs from partial state.
func (s *SessionService) persist(ctx context.Context, sess domainsession.Session) {
	if err := s.storage.Save(ctx, sess); err != nil {
		s.logger.Warn("session write-through failed", "error", err)
	}
}

func (s *SessionService) notifyAll() {
	snapshot := s.Snapshot()

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

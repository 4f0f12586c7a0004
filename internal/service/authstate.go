package service

import (
	"context"
	"log/slog"
	"sync"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

// SessionWatcherOptions groups dependencies for SessionWatcher.
type SessionWatcherOptions struct {
	Provider ports.IdentityProvider
	Stream   ports.AuthStream
	Profiles *ProfileService
}

// SessionWatcher reduces provider auth-change events into a single auth
// state: Uninitialized → Checking → Authenticated | Unauthenticated.
//
// The bootstrap session check and real provider events funnel through the
// same reducer, so the two entry paths cannot diverge. Entry is serialized by
// a mutex; overlapping triggers (a login racing the bootstrap check) apply
// whole updates in arrival order, and the last one to complete wins.
//
// A watcher is an explicit, constructible value: build one at application
// start, Start it, Stop it on shutdown. There is no package-level instance.
type SessionWatcher struct {
	provider ports.IdentityProvider
	stream   ports.AuthStream
	profiles *ProfileService
	logger   *slog.Logger

	mu     sync.Mutex
	state  domainauth.State
	unsub  func()
	cancel context.CancelFunc
}

// NewSessionWatcher constructs a SessionWatcher in the Uninitialized phase.
func NewSessionWatcher(opts SessionWatcherOptions, logger *slog.Logger) *SessionWatcher {
	if opts.Provider == nil {
		panic("session watcher requires an identity provider")
	}
	if opts.Profiles == nil {
		panic("session watcher requires a profile service")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionWatcher{
		provider: opts.Provider,
		stream:   opts.Stream,
		profiles: opts.Profiles,
		logger:   logger,
		state: domainauth.State{
			Phase:   domainauth.PhaseUninitialized,
			Loading: true,
		},
	}
}

// Start subscribes to the provider's auth-change stream and then issues the
// one-time bootstrap session check. Loading stays true until the first event
// (bootstrap included) has been fully processed, profile resolution and all.
func (w *SessionWatcher) Start(ctx context.Context) {
	watchCtx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	w.cancel = cancel
	w.state.Phase = domainauth.PhaseChecking
	w.state.Loading = true
	w.mu.Unlock()

	if w.stream != nil {
		w.unsub = w.stream.Subscribe(func(kind domainauth.EventKind, session *domainauth.Session) {
			w.HandleAuthChange(watchCtx, kind, session)
		})
	}

	session, err := w.provider.GetSession(watchCtx)
	if err != nil {
		w.logger.Warn("bootstrap session check failed", slog.Any("error", err))
		session = nil
	}
	w.HandleAuthChange(watchCtx, domainauth.EventInitialSession, session)
}

// Stop unsubscribes from the auth-change stream and cancels any in-flight
// profile fetch, including a pending retry wait.
func (w *SessionWatcher) Stop() {
	if w.unsub != nil {
		w.unsub()
		w.unsub = nil
	}
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// HandleAuthChange is the single reducer for every auth transition. The
// session is stored first; with an account id the profile is resolved (a
// fetch failure degrades to Authenticated with profile absent); without a
// session the state becomes Unauthenticated. Loading clears unconditionally
// at the end, whatever branch ran.
func (w *SessionWatcher) HandleAuthChange(ctx context.Context, kind domainauth.EventKind, session *domainauth.Session) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.logger.Debug("auth state changed",
		slog.String("event", string(kind)),
		slog.Bool("has_session", session != nil))

	w.state.Session = session

	if session.HasAccount() {
		// Profile resolution happens inside the lock: the reducer applies
		// whole updates, never a session without its profile outcome.
		profile, err := w.profiles.Fetch(ctx, session.AccountID)
		if err != nil {
			w.logger.Warn("profile resolution canceled",
				slog.String("account_id", session.AccountID),
				slog.Any("error", err))
			profile = nil
		}
		w.state.Profile = profile
		w.state.Phase = domainauth.PhaseAuthenticated
	} else {
		w.state.Profile = nil
		w.state.Phase = domainauth.PhaseUnauthenticated
	}

	w.state.Loading = false
}

// State returns a copy of the current auth state.
func (w *SessionWatcher) State() domainauth.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Dashboard returns the dashboard variant for the current state.
func (w *SessionWatcher) Dashboard() domainauth.Dashboard {
	return w.State().Dashboard()
}

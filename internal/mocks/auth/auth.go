package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.AuthStream       = (*FakeStream)(nil)
	_ ports.AccountDirectory = (*StaticDirectory)(nil)
	_ ports.ProfileSource    = (*StubProfileSource)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
)

// MockIdentityProvider simulates the hosted identity service. Each method can
// be overridden per test via its Func field; unset methods fall back to
// deterministic defaults driven by the exported fields.
type MockIdentityProvider struct {
	SignInFunc     func(ctx context.Context, email, secret string) (*domainauth.Session, error)
	SignUpFunc     func(ctx context.Context, in ports.SignUpInput) (string, error)
	SignOutFunc    func(ctx context.Context) error
	GetSessionFunc func(ctx context.Context) (*domainauth.Session, error)

	// Deterministic defaults for predictable testing
	Session   *domainauth.Session
	AccountID string

	mu          sync.Mutex
	signInCalls int
}

// NewMockIdentityProvider creates a provider holding a valid default session.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		Session: &domainauth.Session{
			AccountID:   "mock-account-1",
			Email:       "mock.user@example.com",
			AccessToken: "mock-access-token",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
		AccountID: "mock-account-1",
	}
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, secret string) (*domainauth.Session, error) {
	m.mu.Lock()
	m.signInCalls++
	m.mu.Unlock()
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, secret)
	}
	sess := m.Session
	if sess == nil {
		return nil, errors.New("invalid login credentials")
	}
	cp := *sess
	cp.Email = email
	return &cp, nil
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, in ports.SignUpInput) (string, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, in)
	}
	return m.AccountID, nil
}

func (m *MockIdentityProvider) SignOut(ctx context.Context) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx)
	}
	return nil
}

func (m *MockIdentityProvider) GetSession(ctx context.Context) (*domainauth.Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx)
	}
	if m.Session == nil {
		return nil, nil
	}
	cp := *m.Session
	return &cp, nil
}

// SignInCalls reports how many times SignInWithPassword was invoked.
func (m *MockIdentityProvider) SignInCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signInCalls
}

// FakeStream is an in-memory auth-change stream. Tests push events with Emit.
type FakeStream struct {
	mu       sync.Mutex
	handlers map[int]ports.AuthChangeHandler
	nextID   int
}

// NewFakeStream creates an empty stream.
func NewFakeStream() *FakeStream {
	return &FakeStream{handlers: make(map[int]ports.AuthChangeHandler)}
}

func (f *FakeStream) Subscribe(handler ports.AuthChangeHandler) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

// Emit delivers an event synchronously to all subscribed handlers.
func (f *FakeStream) Emit(kind domainauth.EventKind, session *domainauth.Session) {
	f.mu.Lock()
	hs := make([]ports.AuthChangeHandler, 0, len(f.handlers))
	for _, h := range f.handlers {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(kind, session)
	}
}

// SubscriberCount reports the number of active subscriptions.
func (f *FakeStream) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// StaticDirectory maps usernames to fixed account rows.
type StaticDirectory struct {
	Accounts map[string][]ports.AccountRecord
	Err      error
}

func (d *StaticDirectory) LookupByUsername(_ context.Context, username string) ([]ports.AccountRecord, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Accounts[username], nil
}

// StubProfileSource returns canned responses per call, tracking the call
// count so tests can assert retry behavior. Once the scripted responses are
// exhausted the last one repeats.
type StubProfileSource struct {
	mu        sync.Mutex
	Responses []ProfileResponse
	calls     int
}

// ProfileResponse is one scripted FetchProfileRow result.
type ProfileResponse struct {
	Profile *domainauth.Profile
	Err     error
}

func (s *StubProfileSource) FetchProfileRow(_ context.Context, _ string) (*domainauth.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if len(s.Responses) == 0 {
		return nil, ports.ErrProfileNotFound
	}
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}
	r := s.Responses[idx]
	return r.Profile, r.Err
}

// Calls reports how many times FetchProfileRow was invoked.
func (s *StubProfileSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// MemorySessionStore is an in-memory app-session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.AppSession
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.AppSession)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.AppSession) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.AppSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.AppSession{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

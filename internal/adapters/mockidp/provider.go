// Package mockidp provides a simple, config-driven identity provider for
// local development (AUTH_MODE=mock). It keeps accounts in memory and
// short-circuits the hosted provider entirely.
package mockidp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

// Config controls the mock provider behavior.
type Config struct {
	SessionDuration time.Duration // default 8h when zero
}

// account is one in-memory provider account with its profile row.
type account struct {
	id       string
	email    string
	secret   string
	metadata ports.SignUpMetadata
}

// Provider implements the identity provider, auth-change stream, account
// directory, and profile source ports against an in-memory account table.
type Provider struct {
	sessionDuration time.Duration

	mu        sync.Mutex
	accounts  map[string]*account // keyed by email
	session   *domainauth.Session
	handlers  map[int]ports.AuthChangeHandler
	handlerID int
}

var (
	_ ports.IdentityProvider = (*Provider)(nil)
	_ ports.AuthStream       = (*Provider)(nil)
	_ ports.AccountDirectory = (*Provider)(nil)
	_ ports.ProfileSource    = (*Provider)(nil)
)

// NewProvider constructs a mock provider from Config.
func NewProvider(cfg Config) *Provider {
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		sessionDuration: dur,
		accounts:        make(map[string]*account),
		handlers:        make(map[int]ports.AuthChangeHandler),
	}
}

// AccountID derives the deterministic account id for a seeded email. Dev
// seeding uses it to create data owned by the seeded account before anyone
// has logged in.
func AccountID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}

// SeedAccount registers an account directly, bypassing sign-up. Used by dev
// seeding so a fresh environment has someone to log in as. The id is derived
// from the email so it stays stable across restarts.
func (p *Provider) SeedAccount(email, secret string, meta ports.SignUpMetadata) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := AccountID(email)
	p.accounts[strings.ToLower(email)] = &account{
		id:       id,
		email:    strings.ToLower(email),
		secret:   secret,
		metadata: meta,
	}
	return id
}

// SignInWithPassword checks the email and secret against the account table.
func (p *Provider) SignInWithPassword(_ context.Context, email, secret string) (*domainauth.Session, error) {
	p.mu.Lock()
	acct, ok := p.accounts[strings.ToLower(email)]
	if !ok || acct.secret != secret {
		p.mu.Unlock()
		return nil, errors.New("invalid login credentials")
	}

	sess := &domainauth.Session{
		AccountID:    acct.id,
		Email:        acct.email,
		AccessToken:  "mock-access-" + uuid.New().String(),
		RefreshToken: "mock-refresh-" + uuid.New().String(),
		ExpiresAt:    time.Now().Add(p.sessionDuration),
	}
	p.session = sess
	p.mu.Unlock()

	p.emit(domainauth.EventSignedIn, sess)
	return sess, nil
}

// SignUp creates an in-memory account. Duplicate emails fail the way the
// hosted provider would.
func (p *Provider) SignUp(_ context.Context, in ports.SignUpInput) (string, error) {
	email := strings.ToLower(in.Email)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[email]; exists {
		return "", fmt.Errorf("user already registered: %s", email)
	}

	id := uuid.New().String()
	p.accounts[email] = &account{
		id:       id,
		email:    email,
		secret:   in.Secret,
		metadata: in.Metadata,
	}
	return id, nil
}

// SignOut clears the current session and emits a signed-out event.
func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()

	p.emit(domainauth.EventSignedOut, nil)
	return nil
}

// GetSession returns the current session, renewing it when close to expiry.
func (p *Provider) GetSession(_ context.Context) (*domainauth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil, nil
	}
	if time.Until(p.session.ExpiresAt) < 5*time.Minute {
		p.session.ExpiresAt = time.Now().Add(p.sessionDuration)
	}
	return p.session, nil
}

// Subscribe registers a handler for auth-change events and returns an
// unsubscribe function.
func (p *Provider) Subscribe(handler ports.AuthChangeHandler) func() {
	p.mu.Lock()
	id := p.handlerID
	p.handlerID++
	p.handlers[id] = handler
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	}
}

// LookupByUsername scans the account table for a matching profile username.
func (p *Provider) LookupByUsername(_ context.Context, username string) ([]ports.AccountRecord, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	p.mu.Lock()
	defer p.mu.Unlock()

	var records []ports.AccountRecord
	for _, acct := range p.accounts {
		if strings.ToLower(acct.metadata.Username) == username {
			records = append(records, ports.AccountRecord{ID: acct.id, Email: acct.email})
		}
	}
	return records, nil
}

// FetchProfileRow builds a profile from the sign-up metadata of the account.
func (p *Provider) FetchProfileRow(_ context.Context, accountID string) (*domainauth.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, acct := range p.accounts {
		if acct.id == accountID {
			return &domainauth.Profile{
				ID:       acct.id,
				Name:     acct.metadata.Name,
				Username: acct.metadata.Username,
				Email:    acct.email,
				Role:     domainauth.ParseRole(acct.metadata.Role),
			}, nil
		}
	}
	return nil, ports.ErrProfileNotFound
}

func (p *Provider) emit(kind domainauth.EventKind, sess *domainauth.Session) {
	p.mu.Lock()
	handlers := make([]ports.AuthChangeHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(kind, sess)
	}
}

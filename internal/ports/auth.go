package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
)

// ErrProfileNotFound is the distinguishable "row not yet created" signal from
// profile lookups. The profile fetcher retries on exactly this error; any
// other failure is terminal.
var ErrProfileNotFound = errors.New("profile not found")

// SignUpMetadata is attached to provider sign-up and consumed server-side to
// populate the profile row. The linkage is an external contract.
type SignUpMetadata struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SignUpInput carries inputs for account creation.
type SignUpInput struct {
	Email    string
	Secret   string
	Metadata SignUpMetadata
}

// AccountRecord is one row returned by a username lookup.
type AccountRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentityProvider is the hosted identity service this component consumes.
// It authenticates by email; usernames must be resolved through the
// AccountDirectory first.
type IdentityProvider interface {
	// SignInWithPassword exchanges email and secret for a session.
	SignInWithPassword(ctx context.Context, email, secret string) (*domainauth.Session, error)

	// SignUp creates an account with the given metadata and returns the new
	// account id. The provider triggers an email-confirmation step server-side.
	SignUp(ctx context.Context, in SignUpInput) (string, error)

	// SignOut invalidates the current session. Callers treat it as always
	// succeeding; failures surface only through the auth-change stream.
	SignOut(ctx context.Context) error

	// GetSession returns the provider's current session, refreshing it when
	// expired, or nil when no session exists. This is the bootstrap check.
	GetSession(ctx context.Context) (*domainauth.Session, error)
}

// AuthChangeHandler consumes one auth-change event. A nil session means
// signed out.
type AuthChangeHandler func(kind domainauth.EventKind, session *domainauth.Session)

// AuthStream delivers auth-change events from the provider. Subscribe returns
// an unsubscribe function; handlers are invoked in event order.
type AuthStream interface {
	Subscribe(handler AuthChangeHandler) (unsubscribe func())
}

// AccountDirectory resolves a human-chosen username to account rows.
// Zero rows means no such username; errors and zero rows are deliberately
// indistinguishable to login callers.
type AccountDirectory interface {
	LookupByUsername(ctx context.Context, username string) ([]AccountRecord, error)
}

// ProfileSource looks up exactly one profile row keyed by account id.
// A missing row is reported as ErrProfileNotFound.
type ProfileSource interface {
	FetchProfileRow(ctx context.Context, accountID string) (*domainauth.Profile, error)
}

// SessionStore persists and retrieves server-side app sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.AppSession) error
	Get(ctx context.Context, id string) (domainauth.AppSession, error)
	Delete(ctx context.Context, id string) error
}

// VerifiedToken is the result of validating a provider-issued access token.
type VerifiedToken struct {
	AccountID string
	Email     string
	ExpiresAt time.Time
}

// TokenVerifier validates provider-issued bearer tokens locally (signature
// and expiry) without a provider round trip.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (VerifiedToken, error)
}

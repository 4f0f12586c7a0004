package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleFarmer           Role = "farmer"
	RoleAdmin            Role = "admin"
	RoleExtensionOfficer Role = "extension_officer"
)

// ParseRole maps a free-form role string to a closed Role value.
// Unknown or absent values default to farmer, the least-privileged role.
// This is the single point where provider role strings enter the domain.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleExtensionOfficer:
		return RoleExtensionOfficer
	case RoleFarmer:
		return RoleFarmer
	default:
		return RoleFarmer
	}
}

// Dashboard identifies the dashboard variant shown for a role.
type Dashboard string

const (
	DashboardFarmer           Dashboard = "farmer"
	DashboardAdmin            Dashboard = "admin"
	DashboardExtensionOfficer Dashboard = "extension_officer"
)

// SelectDashboard maps a role to its dashboard variant. Unknown roles fall
// back to the farmer dashboard, which is also used while the profile is
// unresolved (authenticated but role unknown).
func SelectDashboard(role Role) Dashboard {
	switch role {
	case RoleAdmin:
		return DashboardAdmin
	case RoleExtensionOfficer:
		return DashboardExtensionOfficer
	case RoleFarmer:
		return DashboardFarmer
	default:
		return DashboardFarmer
	}
}

// Session is the identity provider's proof of authentication for one account.
// It is issued on sign-in or the bootstrap session check and held by reference;
// the provider owns its lifecycle.
type Session struct {
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// HasAccount reports whether the session carries a resolvable account id.
func (s *Session) HasAccount() bool { return s != nil && s.AccountID != "" }

// Profile is the application-level user record keyed by account id.
// It is created server-side as a side effect of account creation and only
// ever fetched by this service.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Dashboard returns the dashboard variant for this profile.
func (p *Profile) Dashboard() Dashboard {
	if p == nil {
		return DashboardFarmer
	}
	return SelectDashboard(p.Role)
}

// AppSession is the server-side record persisted per signed-in browser.
// ID is an opaque session identifier (random URL-safe string); the provider
// session and the resolved profile ride along so request handling does not
// round-trip to the provider.
type AppSession struct {
	ID        string    `json:"id"`
	Session   Session   `json:"session"`
	Profile   *Profile  `json:"profile,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Role returns the session's role, defaulting to farmer while the profile is
// unresolved.
func (s AppSession) Role() Role {
	if s.Profile == nil {
		return RoleFarmer
	}
	return s.Profile.Role
}

// EventKind classifies auth-change events delivered by the provider stream.
// The bootstrap session check is funneled through the same handler with the
// synthetic EventInitialSession kind.
type EventKind string

const (
	EventInitialSession EventKind = "INITIAL_SESSION"
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Phase is the lifecycle phase of the session state machine.
type Phase string

const (
	PhaseUninitialized   Phase = "uninitialized"
	PhaseChecking        Phase = "checking"
	PhaseAuthenticated   Phase = "authenticated"
	PhaseUnauthenticated Phase = "unauthenticated"
)

// State is the reduced auth state: the current session and resolved profile
// plus a loading flag. Loading stays true until the first auth-change event,
// including the synthetic bootstrap check, has been fully processed.
// Profile is present only if Session is present; the converse does not hold
// (profile resolution may still be pending or may have failed).
type State struct {
	Phase   Phase    `json:"phase"`
	Session *Session `json:"session,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
	Loading bool     `json:"loading"`
}

// Authenticated reports whether a session is held.
func (s State) Authenticated() bool { return s.Phase == PhaseAuthenticated && s.Session != nil }

// Dashboard returns the dashboard variant for the current state. A session
// with an unresolved profile gets the least-privileged farmer dashboard.
func (s State) Dashboard() Dashboard {
	if !s.Authenticated() || s.Profile == nil {
		return DashboardFarmer
	}
	return s.Profile.Dashboard()
}

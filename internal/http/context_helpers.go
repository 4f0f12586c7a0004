package httpx

import (
	"context"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given app session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.AppSession) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the app session from context and a boolean
// indicating presence.
func SessionFromContext(ctx context.Context) (*domainauth.AppSession, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.AppSession); ok && session != nil {
		return session, true
	}
	return nil, false
}

// UserIDFromContext returns the account id of the signed-in user, or "" when
// the request is unauthenticated. Handlers behind RequireAuth can rely on a
// non-empty value.
func UserIDFromContext(ctx context.Context) string {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return ""
	}
	return session.Session.AccountID
}

// RoleFromContext returns the signed-in user's role, defaulting to farmer for
// sessions whose profile has not resolved yet.
func RoleFromContext(ctx context.Context) domainauth.Role {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return domainauth.RoleFarmer
	}
	return session.Role()
}

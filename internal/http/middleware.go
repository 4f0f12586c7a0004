package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

// SessionCookieName is the cookie that carries the opaque app-session id.
const SessionCookieName = "session_id"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver looks up a stored app session by its opaque id.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.AppSession, error)
}

// ProfileResolver resolves a profile for an account id. Used on the bearer
// path, where the token proves identity but carries no profile.
type ProfileResolver interface {
	Fetch(ctx context.Context, accountID string) (*domainauth.Profile, error)
}

// AuthMiddleware authenticates requests. Browser clients present the session
// cookie; API clients may instead present a provider access token as a bearer
// credential, verified against the provider's signing keys.
type AuthMiddleware struct {
	Sessions SessionResolver
	Verifier ports.TokenVerifier // optional; bearer auth disabled when nil
	Profiles ProfileResolver     // optional; bearer sessions get a nil profile when nil
	Logger   *slog.Logger
}

func (m *AuthMiddleware) logger() *slog.Logger {
	if m != nil && m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// RequireAuth rejects unauthenticated requests with a 401 and puts the
// resolved session in the request context otherwise.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.sessionFromRequest(r)
		if session == nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_required",
				Err:     errors.New("authentication required"),
			})
			return
		}

		ctx := SetSessionInContext(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole is RequireAuth plus a role check. Admin satisfies every role.
func (m *AuthMiddleware) RequireRole(role domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := m.sessionFromRequest(r)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			if !roleSatisfies(session.Role(), role) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromRequest resolves the request's credentials, cookie first, then
// bearer token. Both failing yields nil.
func (m *AuthMiddleware) sessionFromRequest(r *http.Request) *domainauth.AppSession {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		session, err := m.Sessions.GetSession(r.Context(), cookie.Value)
		if err == nil && session != nil {
			return session
		}
	}

	return m.sessionFromBearer(r)
}

func (m *AuthMiddleware) sessionFromBearer(r *http.Request) *domainauth.AppSession {
	if m.Verifier == nil {
		return nil
	}

	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return nil
	}

	verified, err := m.Verifier.Verify(r.Context(), token)
	if err != nil {
		m.logger().Debug("bearer token rejected", slog.Any("error", err))
		return nil
	}

	session := &domainauth.AppSession{
		Session: domainauth.Session{
			AccountID:   verified.AccountID,
			Email:       verified.Email,
			AccessToken: token,
			ExpiresAt:   verified.ExpiresAt,
		},
		ExpiresAt: verified.ExpiresAt,
	}

	if m.Profiles != nil {
		profile, err := m.Profiles.Fetch(r.Context(), verified.AccountID)
		if err != nil {
			m.logger().Debug("profile resolution failed for bearer session",
				slog.Any("error", err))
		} else {
			session.Profile = profile
		}
	}

	return session
}

// roleSatisfies reports whether have meets the required role. Admins pass
// every check; other roles must match exactly.
func roleSatisfies(have, required domainauth.Role) bool {
	if have == domainauth.RoleAdmin {
		return true
	}
	return have == required
}

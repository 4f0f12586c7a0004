package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/service"
)

// AuthAPI is the slice of the auth service the HTTP layer uses.
type AuthAPI interface {
	Login(ctx context.Context, username, secret string) error
	Signup(ctx context.Context, in service.SignupInput) error
	EstablishSession(ctx context.Context) (*domainauth.AppSession, error)
	DropSession(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthAPI
	CookieDomain string
	CookieSecure bool
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles POST /api/auth/login. On success a server-side session is
// established and its id set as an HttpOnly cookie; the response carries the
// profile and the dashboard variant the client should route to.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.Login(r.Context(), req.Username, req.Password); err != nil {
		WriteAppError(w, err)
		return
	}

	session, err := h.Svc.EstablishSession(r.Context())
	if err != nil {
		h.logger().Error("establishing session after login failed", slog.Any("error", err))
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_failed",
			Err:     errors.New("login succeeded but the session could not be established"),
		})
		return
	}
	if session == nil {
		// The provider accepted the credentials but holds no session, which
		// points at a provider misbehavior rather than a user error.
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_failed",
			Err:     errors.New("no session returned by the identity provider"),
		})
		return
	}

	h.setSessionCookie(w, session)
	WriteJSON(w, http.StatusOK, sessionResponse(session))
}

// Signup handles POST /api/auth/signup. The account is created but not
// signed in; the client prompts for email confirmation next.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		service.SignupForm
		Role string `json:"role"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	// Form-level checks run here, at the submission boundary; nothing locally
	// detectable reaches the provider.
	if verr := service.ValidateSignupForm(req.SignupForm); verr != nil {
		WriteAppError(w, verr)
		return
	}

	input := service.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Secret:   req.Password,
		Role:     domainauth.ParseRole(req.Role),
	}
	if err := h.Svc.Signup(r.Context(), input); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"created":               true,
		"confirmation_required": true,
	})
}

// Logout handles POST /api/auth/logout. It always reports success; the
// session cookie is cleared regardless of provider cooperation.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	if err := h.Svc.DropSession(r.Context(), sessionID); err != nil {
		h.logger().Warn("dropping session failed", slog.Any("error", err))
	}

	h.clearSessionCookie(w)
	WriteJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// Session handles GET /api/auth/session behind RequireAuth: it reports the
// current session's profile and dashboard so clients can restore state.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, sessionResponse(session))
}

func sessionResponse(session *domainauth.AppSession) map[string]any {
	return map[string]any{
		"account_id": session.Session.AccountID,
		"email":      session.Session.Email,
		"profile":    session.Profile,
		"role":       session.Role(),
		"dashboard":  session.Profile.Dashboard(),
		"expires_at": session.ExpiresAt,
	}
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, session *domainauth.AppSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

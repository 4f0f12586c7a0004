package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

type fakeSessionResolver struct {
	sessions map[string]*domainauth.AppSession
}

func (f *fakeSessionResolver) GetSession(_ context.Context, sessionID string) (*domainauth.AppSession, error) {
	if s, ok := f.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, errors.New("session not found")
}

type fakeVerifier struct {
	tokens map[string]ports.VerifiedToken
}

func (f *fakeVerifier) Verify(_ context.Context, rawToken string) (ports.VerifiedToken, error) {
	if tok, ok := f.tokens[rawToken]; ok {
		return tok, nil
	}
	return ports.VerifiedToken{}, errors.New("invalid token")
}

type fakeProfileResolver struct {
	profiles map[string]*domainauth.Profile
}

func (f *fakeProfileResolver) Fetch(_ context.Context, accountID string) (*domainauth.Profile, error) {
	if p, ok := f.profiles[accountID]; ok {
		return p, nil
	}
	return nil, errors.New("profile not found")
}

func newTestAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{
		Sessions: &fakeSessionResolver{sessions: map[string]*domainauth.AppSession{
			"sess-farmer": {
				ID:      "sess-farmer",
				Session: domainauth.Session{AccountID: "acct-1"},
				Profile: &domainauth.Profile{ID: "acct-1", Role: domainauth.RoleFarmer},
			},
			"sess-admin": {
				ID:      "sess-admin",
				Session: domainauth.Session{AccountID: "acct-2"},
				Profile: &domainauth.Profile{ID: "acct-2", Role: domainauth.RoleAdmin},
			},
		}},
		Verifier: &fakeVerifier{tokens: map[string]ports.VerifiedToken{
			"valid-token": {
				AccountID: "acct-3",
				Email:     "api@example.com",
				ExpiresAt: time.Now().Add(time.Hour),
			},
		}},
		Profiles: &fakeProfileResolver{profiles: map[string]*domainauth.Profile{
			"acct-3": {ID: "acct-3", Role: domainauth.RoleAdmin},
		}},
	}
}

// echoUser writes the authenticated account id so tests can check the context.
func echoUser(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"user": UserIDFromContext(r.Context())})
}

func TestRequireAuth_Cookie(t *testing.T) {
	handler := newTestAuthMiddleware().RequireAuth(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/api/supplies", http.NoBody)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-farmer"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"acct-1"`)
}

func TestRequireAuth_Bearer(t *testing.T) {
	handler := newTestAuthMiddleware().RequireAuth(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/api/supplies", http.NoBody)
	r.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"acct-3"`)
}

func TestRequireAuth_Rejections(t *testing.T) {
	handler := newTestAuthMiddleware().RequireAuth(http.HandlerFunc(echoUser))

	cases := map[string]func(r *http.Request){
		"no credentials": func(*http.Request) {},
		"unknown cookie": func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "ghost"})
		},
		"bad bearer token": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer forged")
		},
		"malformed authorization header": func(r *http.Request) {
			r.Header.Set("Authorization", "Basic dXNlcjpwdw==")
		},
	}

	for name, arrange := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/supplies", http.NoBody)
			arrange(r)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "authentication_required")
		})
	}
}

func TestRequireAuth_BadCookieFallsBackToBearer(t *testing.T) {
	handler := newTestAuthMiddleware().RequireAuth(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/api/supplies", http.NoBody)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired"})
	r.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"acct-3"`)
}

func TestRequireRole_AdminOnly(t *testing.T) {
	mw := newTestAuthMiddleware()
	handler := mw.RequireRole(domainauth.RoleAdmin)(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/api/alert-sinks", http.NoBody)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-admin"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/api/alert-sinks", http.NoBody)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-farmer"})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permissions")
}

func TestRequireRole_AdminSatisfiesFarmerRoutes(t *testing.T) {
	mw := newTestAuthMiddleware()
	handler := mw.RequireRole(domainauth.RoleFarmer)(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/api/supplies", http.NoBody)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-admin"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_BearerAdminViaProfile(t *testing.T) {
	// The token itself carries no role; it comes from the resolved profile.
	mw := newTestAuthMiddleware()
	handler := mw.RequireRole(domainauth.RoleAdmin)(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/api/alert-sinks", http.NoBody)
	r.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	handler := Recover(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLoggingMiddlewarePreservesStatus(t *testing.T) {
	handler := Logging(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	require.Equal(t, http.StatusTeapot, w.Code)
}

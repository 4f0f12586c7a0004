package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

// fakeProvider is a minimal GoTrue/PostgREST stand-in for client tests.
type fakeProvider struct {
	mu        sync.Mutex
	passwords map[string]string // email -> password
	profiles  map[string]map[string]string
	signups   []map[string]any
	logouts   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		passwords: map[string]string{"joe@example.com": "hunter22"},
		profiles: map[string]map[string]string{
			"acct-1": {
				"id": "acct-1", "name": "Joe", "username": "farmerjoe",
				"email": "joe@example.com", "role": "farmer",
			},
		},
	}
}

func (f *fakeProvider) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.URL.Query().Get("grant_type") {
		case "password":
			var in struct{ Email, Password string }
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			if f.passwords[in.Email] != in.Password {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"expires_in":    3600,
				"user":          map[string]string{"id": "acct-1", "email": in.Email},
			})
		case "refresh_token":
			// The oauth2 client parses the grant response by Content-Type.
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-2",
				"refresh_token": "refresh-2",
				"expires_in":    3600,
				"token_type":    "bearer",
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		f.mu.Lock()
		defer f.mu.Unlock()
		email, _ := in["email"].(string)
		if _, taken := f.passwords[email]; taken {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
			return
		}
		f.signups = append(f.signups, in)
		_ = json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"id": "acct-new"}})
	})

	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /rest/v1/profiles", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("apikey"), "apikey header must be set")

		f.mu.Lock()
		defer f.mu.Unlock()
		id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
		rows := []map[string]string{}
		if p, ok := f.profiles[id]; ok {
			rows = append(rows, p)
		}
		_ = json.NewEncoder(w).Encode(rows)
	})

	mux.HandleFunc("POST /rest/v1/rpc/lookup_account_by_username", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Uname string `json:"uname"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		rows := []map[string]string{}
		if in.Uname == "farmerjoe" {
			rows = append(rows, map[string]string{"id": "acct-1", "email": "joe@example.com"})
		}
		_ = json.NewEncoder(w).Encode(rows)
	})

	return mux
}

func newTestClient(t *testing.T) (*Client, *fakeProvider) {
	t.Helper()
	fake := newFakeProvider()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-anon-key"})
	require.NoError(t, err)
	return client, fake
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{APIKey: "k"})
	assert.Error(t, err, "base URL is required")

	_, err = NewClient(Config{BaseURL: "https://x.example.co"})
	assert.Error(t, err, "API key is required")

	_, err = NewClient(Config{BaseURL: "://bad", APIKey: "k"})
	assert.Error(t, err)
}

func TestClient_SignInWithPassword(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	var events []domainauth.EventKind
	client.Subscribe(func(kind domainauth.EventKind, _ *domainauth.Session) {
		events = append(events, kind)
	})

	sess, err := client.SignInWithPassword(ctx, "joe@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", sess.AccountID)
	assert.Equal(t, "access-1", sess.AccessToken)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
	assert.Equal(t, []domainauth.EventKind{domainauth.EventSignedIn}, events)

	got, err := client.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.AccessToken, got.AccessToken)
}

func TestClient_SignInWithPassword_BadCredentials(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.SignInWithPassword(context.Background(), "joe@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid login credentials",
		"provider message should surface on the error")
}

func TestClient_SignUp(t *testing.T) {
	client, fake := newTestClient(t)

	id, err := client.SignUp(context.Background(), ports.SignUpInput{
		Email:  "new@example.com",
		Secret: "secret123",
		Metadata: ports.SignUpMetadata{
			Name: "New Farmer", Username: "newfarmer", Role: "farmer",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-new", id)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.signups, 1)
	data, ok := fake.signups[0]["data"].(map[string]any)
	require.True(t, ok, "metadata should ride in the data field")
	assert.Equal(t, "newfarmer", data["username"])
}

func TestClient_SignUp_DuplicateSurfacesProviderMessage(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.SignUp(context.Background(), ports.SignUpInput{
		Email:  "joe@example.com",
		Secret: "secret123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestClient_SignOut(t *testing.T) {
	client, fake := newTestClient(t)
	ctx := context.Background()

	_, err := client.SignInWithPassword(ctx, "joe@example.com", "hunter22")
	require.NoError(t, err)

	var events []domainauth.EventKind
	client.Subscribe(func(kind domainauth.EventKind, _ *domainauth.Session) {
		events = append(events, kind)
	})

	require.NoError(t, client.SignOut(ctx))
	assert.Equal(t, []domainauth.EventKind{domainauth.EventSignedOut}, events)

	fake.mu.Lock()
	assert.Equal(t, 1, fake.logouts)
	fake.mu.Unlock()

	sess, err := client.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess, "no session after sign-out")
}

func TestClient_GetSession_NoSession(t *testing.T) {
	client, _ := newTestClient(t)

	sess, err := client.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestClient_GetSession_RefreshesNearExpiry(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.SignInWithPassword(ctx, "joe@example.com", "hunter22")
	require.NoError(t, err)

	// Force the session to the edge of expiry so GetSession must refresh.
	client.mu.Lock()
	client.session.ExpiresAt = time.Now().Add(5 * time.Second)
	client.mu.Unlock()

	var events []domainauth.EventKind
	client.Subscribe(func(kind domainauth.EventKind, _ *domainauth.Session) {
		events = append(events, kind)
	})

	sess, err := client.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", sess.AccessToken)
	assert.Equal(t, "acct-1", sess.AccountID, "identity carries across refresh")
	assert.Equal(t, []domainauth.EventKind{domainauth.EventTokenRefreshed}, events)
}

func TestClient_FetchProfileRow(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	profile, err := client.FetchProfileRow(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "farmerjoe", profile.Username)
	assert.Equal(t, domainauth.RoleFarmer, profile.Role)

	_, err = client.FetchProfileRow(ctx, "acct-404")
	assert.ErrorIs(t, err, ports.ErrProfileNotFound)
}

func TestClient_LookupByUsername(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	records, err := client.LookupByUsername(ctx, "farmerjoe")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "acct-1", records[0].ID)

	records, err = client.LookupByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_Unsubscribe(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	calls := 0
	unsubscribe := client.Subscribe(func(domainauth.EventKind, *domainauth.Session) { calls++ })

	_, err := client.SignInWithPassword(ctx, "joe@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	unsubscribe()
	require.NoError(t, client.SignOut(ctx))
	assert.Equal(t, 1, calls, "unsubscribed handler must not fire")
}

// Package supabase provides a REST client adapter for a hosted
// GoTrue/PostgREST-style identity and data provider.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

// refreshSkew renews provider sessions slightly before their hard expiry so
// in-flight requests never carry a token that expires mid-call.
const refreshSkew = 30 * time.Second

// Config holds configuration for the provider client.
type Config struct {
	BaseURL    string // project base URL, e.g. https://xyz.example.co
	APIKey     string // public API key, sent with every request
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the provider over REST. It implements the identity
// provider, auth-change stream, account directory, and profile source ports,
// and holds the provider's current session the way a provider SDK would.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger

	mu       sync.Mutex
	session  *domainauth.Session
	handlers map[int]ports.AuthChangeHandler
	nextID   int
}

var (
	_ ports.IdentityProvider = (*Client)(nil)
	_ ports.AuthStream       = (*Client)(nil)
	_ ports.AccountDirectory = (*Client)(nil)
	_ ports.ProfileSource    = (*Client)(nil)
)

// NewClient creates a provider client from Config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("provider base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("provider API key is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid provider base URL %q", cfg.BaseURL)
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:  u.Scheme + "://" + u.Host + u.Path,
		apiKey:   cfg.APIKey,
		httpc:    httpc,
		logger:   logger.With("component", "provider_client"),
		handlers: make(map[int]ports.AuthChangeHandler),
	}, nil
}

// tokenResponse is the provider's token grant payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// providerError is the provider's error payload. The provider is
// inconsistent about which field carries the message.
type providerError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e providerError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Msg != "":
		return e.Msg
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return ""
	}
}

// SignInWithPassword exchanges email and secret for a provider session.
func (c *Client) SignInWithPassword(ctx context.Context, email, secret string) (*domainauth.Session, error) {
	var tok tokenResponse
	err := c.postJSON(ctx, "/auth/v1/token?grant_type=password",
		map[string]string{"email": email, "password": secret}, &tok)
	if err != nil {
		return nil, err
	}

	sess := c.sessionFromToken(tok)
	c.setSession(sess)
	c.emit(domainauth.EventSignedIn, sess)
	return sess, nil
}

// SignUp creates an account. The metadata rides along in the provider's
// "data" field and is consumed server-side to populate the profile row.
func (c *Client) SignUp(ctx context.Context, in ports.SignUpInput) (string, error) {
	payload := map[string]any{
		"email":    in.Email,
		"password": in.Secret,
		"data":     in.Metadata,
	}

	var resp struct {
		ID   string `json:"id"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := c.postJSON(ctx, "/auth/v1/signup", payload, &resp); err != nil {
		return "", err
	}

	if resp.ID != "" {
		return resp.ID, nil
	}
	return resp.User.ID, nil
}

// SignOut invalidates the provider session. The local session is cleared and
// a signed-out event emitted regardless of the provider response, matching
// the contract that callers treat sign-out as always succeeding.
func (c *Client) SignOut(ctx context.Context) error {
	access := c.currentAccessToken()

	c.setSession(nil)
	c.emit(domainauth.EventSignedOut, nil)

	if access == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", http.NoBody)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	c.setAuthHeaders(req, access)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("provider logout: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider logout: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// GetSession returns the current provider session, refreshing it when close
// to expiry, or nil when no session exists.
func (c *Client) GetSession(ctx context.Context) (*domainauth.Session, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	if sess == nil {
		return nil, nil
	}
	if time.Until(sess.ExpiresAt) > refreshSkew {
		return sess, nil
	}
	if sess.RefreshToken == "" {
		c.setSession(nil)
		c.emit(domainauth.EventSignedOut, nil)
		return nil, nil
	}

	refreshed, err := c.refresh(ctx, sess.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	c.setSession(refreshed)
	c.emit(domainauth.EventTokenRefreshed, refreshed)
	return refreshed, nil
}

// refresh exchanges a refresh token for a new session via the oauth2
// refresh-token grant.
func (c *Client) refresh(ctx context.Context, refreshToken string) (*domainauth.Session, error) {
	conf := &oauth2.Config{
		ClientID: c.apiKey,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + "/auth/v1/token?grant_type=refresh_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpc)
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, err
	}

	prev := c.currentSession()
	sess := &domainauth.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = time.Now().Add(time.Hour)
	}
	if prev != nil {
		sess.AccountID = prev.AccountID
		sess.Email = prev.Email
	}
	return sess, nil
}

// Subscribe registers a handler for auth-change events and returns an
// unsubscribe function. Handlers are invoked synchronously in event order.
func (c *Client) Subscribe(handler ports.AuthChangeHandler) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

// LookupByUsername resolves a username to account rows through the
// provider's lookup function.
func (c *Client) LookupByUsername(ctx context.Context, username string) ([]ports.AccountRecord, error) {
	var records []ports.AccountRecord
	err := c.postJSON(ctx, "/rest/v1/rpc/lookup_account_by_username",
		map[string]string{"uname": username}, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FetchProfileRow fetches the profile row keyed by account id from the
// provider's data API. Zero rows maps to ports.ErrProfileNotFound so callers
// can retry the not-yet-created case specifically.
func (c *Client) FetchProfileRow(ctx context.Context, accountID string) (*domainauth.Profile, error) {
	endpoint := "/rest/v1/profiles?select=id,name,username,email,role&id=eq." + url.QueryEscape(accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	c.setAuthHeaders(req, c.currentAccessToken())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var rows []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&rows); decodeErr != nil {
		return nil, fmt.Errorf("decode profile: %w", decodeErr)
	}
	if len(rows) == 0 {
		return nil, ports.ErrProfileNotFound
	}

	row := rows[0]
	return &domainauth.Profile{
		ID:       row.ID,
		Name:     row.Name,
		Username: row.Username,
		Email:    row.Email,
		Role:     domainauth.ParseRole(row.Role),
	}, nil
}

// --- internal helpers ---

func (c *Client) sessionFromToken(tok tokenResponse) *domainauth.Session {
	expiresAt := time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	if tok.ExpiresIn <= 0 {
		expiresAt = time.Now().Add(time.Hour)
	}
	return &domainauth.Session{
		AccountID:    tok.User.ID,
		Email:        tok.User.Email,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

func (c *Client) setSession(sess *domainauth.Session) {
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
}

func (c *Client) currentSession() *domainauth.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) currentAccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

// emit invokes every subscribed handler with the event. Handlers are copied
// out under the lock so one can unsubscribe from inside its callback.
func (c *Client) emit(kind domainauth.EventKind, sess *domainauth.Session) {
	c.mu.Lock()
	handlers := make([]ports.AuthChangeHandler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(kind, sess)
	}
}

func (c *Client) setAuthHeaders(req *http.Request, accessToken string) {
	req.Header.Set("apikey", c.apiKey)
	if accessToken == "" {
		accessToken = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req, c.currentAccessToken())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	return nil
}

// errorFromResponse turns a non-2xx provider response into an error carrying
// the provider's own message. Sign-up callers surface this text verbatim.
func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var pe providerError
	if err := json.Unmarshal(raw, &pe); err == nil && pe.text() != "" {
		return errors.New(pe.text())
	}
	return fmt.Errorf("provider returned status %d", resp.StatusCode)
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

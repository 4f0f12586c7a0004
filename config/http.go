package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	// Used for generating absolute URLs in alert payloads and other external contexts.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CookieSecure marks session cookies Secure. Leave false for local
	// development over plain HTTP.
	CookieSecure bool `env:"APP_COOKIE_SECURE" envDefault:"false"`

	// MaxConns caps concurrent accepted connections. Zero means unlimited.
	MaxConns int `env:"HTTP_MAX_CONNS" envDefault:"512"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.MaxConns < 0 {
		h.MaxConns = 0
	}
}

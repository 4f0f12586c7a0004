package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeSupabase authenticates against a hosted Supabase project.
	AuthModeSupabase AuthMode = "supabase"
	// AuthModeMock uses the in-memory provider (for development and testing).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "supabase", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: supabase, mock)", v)
	}
}

// SupabaseConfig contains the hosted provider connection settings.
// Used when AUTH_MODE=supabase.
type SupabaseConfig struct {
	// URL is the project base URL, e.g. https://xyz.supabase.co.
	URL string `env:"URL"`

	// AnonKey is the public API key sent with every request.
	AnonKey string `env:"ANON_KEY"`

	// JWTIssuer is the expected issuer for bearer-token verification.
	// Defaults to URL + "/auth/v1" when empty.
	JWTIssuer string `env:"JWT_ISSUER"`
}

// Validate checks that the provider settings are usable.
func (s *SupabaseConfig) Validate() error {
	if strings.TrimSpace(s.URL) == "" {
		return fmt.Errorf("SUPABASE_URL is required when AUTH_MODE=supabase")
	}
	if strings.TrimSpace(s.AnonKey) == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required when AUTH_MODE=supabase")
	}
	return nil
}

// Issuer returns the configured JWT issuer, deriving it from the project
// URL when unset.
func (s *SupabaseConfig) Issuer() string {
	if s.JWTIssuer != "" {
		return s.JWTIssuer
	}
	return strings.TrimRight(s.URL, "/") + "/auth/v1"
}

// MockAuthConfig controls the in-memory provider identity.
// Used when AUTH_MODE=mock for development and testing.
type MockAuthConfig struct {
	Email    string `env:"EMAIL"    envDefault:"dev@agristock.local"`
	Password string `env:"PASSWORD" envDefault:"devpassword"`
	Name     string `env:"NAME"     envDefault:"Dev Farmer"`
	Username string `env:"USERNAME" envDefault:"devfarmer"`
	Role     string `env:"ROLE"     envDefault:"admin"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"supabase"`

	// Supabase configuration (used when Mode=supabase).
	Supabase SupabaseConfig `envPrefix:"SUPABASE_"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_AUTH_"`
}

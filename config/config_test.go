package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
			expectError: false,
		},
		{
			name:  "single service - alert-scanner",
			input: "alert-scanner",
			expected: map[ServiceMode]bool{
				ServiceModeAlertScanner: true,
			},
			expectError: false,
		},
		{
			name:  "all services",
			input: "http,alert-scanner",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:         true,
				ServiceModeAlertScanner: true,
			},
			expectError: false,
		},
		{
			name:  "services with spaces",
			input: " http , alert-scanner ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:         true,
				ServiceModeAlertScanner: true,
			},
			expectError: false,
		},
		{
			name:  "duplicate services",
			input: "http,http,alert-scanner",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:         true,
				ServiceModeAlertScanner: true,
			},
			expectError: false,
		},
		{
			name:        "empty string",
			input:       "",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,invalid-service",
			expected:    nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d services, got %d", len(tt.expected), len(result))
				return
			}

			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name            string
		services        string
		expectedHTTP    bool
		expectedScanner bool
	}{
		{
			name:            "default - http only",
			services:        "http",
			expectedHTTP:    true,
			expectedScanner: false,
		},
		{
			name:            "http and alert-scanner",
			services:        "http,alert-scanner",
			expectedHTTP:    true,
			expectedScanner: true,
		},
		{
			name:            "alert-scanner only",
			services:        "alert-scanner",
			expectedHTTP:    false,
			expectedScanner: true,
		},
		{
			name:            "invalid configuration",
			services:        "invalid-service",
			expectedHTTP:    false,
			expectedScanner: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}

			if cfg.IsHTTPServerEnabled() != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			}

			if cfg.IsAlertScannerEnabled() != tt.expectedScanner {
				t.Errorf("IsAlertScannerEnabled(): expected %v, got %v", tt.expectedScanner, cfg.IsAlertScannerEnabled())
			}
		})
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "supabase")
	t.Setenv("SUPABASE_URL", "https://xyz.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key-123")
	t.Setenv("MOCK_AUTH_EMAIL", "seed@agristock.local")
	t.Setenv("MOCK_AUTH_USERNAME", "seedfarmer")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeSupabase,
		Supabase: SupabaseConfig{
			URL:     "https://xyz.supabase.co",
			AnonKey: "anon-key-123",
		},
		Mock: MockAuthConfig{
			Email:    "seed@agristock.local",
			Password: "devpassword",
			Name:     "Dev Farmer",
			Username: "seedfarmer",
			Role:     "admin",
		},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var mode AuthMode
	if err := mode.UnmarshalText([]byte("MOCK")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != AuthModeMock {
		t.Fatalf("expected mock mode, got %q", mode)
	}

	if err := mode.UnmarshalText([]byte("ldap")); err == nil {
		t.Fatal("expected error for unknown auth mode")
	}
}

func TestSupabaseConfig_Validate(t *testing.T) {
	cfg := SupabaseConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when URL is missing")
	}

	cfg.URL = "https://xyz.supabase.co"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when anon key is missing")
	}

	cfg.AnonKey = "anon"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSupabaseConfig_Issuer(t *testing.T) {
	cfg := SupabaseConfig{URL: "https://xyz.supabase.co/"}
	if got := cfg.Issuer(); got != "https://xyz.supabase.co/auth/v1" {
		t.Fatalf("unexpected derived issuer: %q", got)
	}

	cfg.JWTIssuer = "https://issuer.example.com/auth/v1"
	if got := cfg.Issuer(); got != "https://issuer.example.com/auth/v1" {
		t.Fatalf("expected explicit issuer to win, got %q", got)
	}
}

func TestAlertScannerConfig_Sanitize(t *testing.T) {
	cfg := AlertScannerConfig{Interval: time.Second, DeliveryTimeout: -1}
	cfg.Sanitize()

	if cfg.Interval != time.Minute {
		t.Fatalf("expected interval clamped to one minute, got %v", cfg.Interval)
	}
	if cfg.DeliveryTimeout != 10*time.Second {
		t.Fatalf("expected delivery timeout fallback, got %v", cfg.DeliveryTimeout)
	}
}

func TestCacheConfig_Sanitize(t *testing.T) {
	cfg := CacheConfig{RedisAddr: " cache:6379 ", OverviewTTL: 0, RedisDB: -2}
	cfg.Sanitize()

	if cfg.RedisAddr != "cache:6379" {
		t.Fatalf("expected trimmed addr, got %q", cfg.RedisAddr)
	}
	if !cfg.UsesDedicatedRedis() {
		t.Fatal("expected dedicated redis to be detected")
	}
	if cfg.OverviewTTL != 30*time.Second {
		t.Fatalf("expected overview TTL fallback, got %v", cfg.OverviewTTL)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected redis db clamped to 0, got %d", cfg.RedisDB)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	expected := []ServiceMode{
		ServiceModeHTTP,
		ServiceModeAlertScanner,
	}

	if !reflect.DeepEqual(modes, expected) {
		t.Fatalf("unexpected service modes: %v", modes)
	}
}

package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/agristock/agristock-api/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAuthStackReturnsZeroWithoutRedis(t *testing.T) {
	bundle := buildMockProvider(config.MockAuthConfig{}, testLogger())

	stack := BuildAuthStack(AuthConfig{
		Bundle:      bundle,
		RedisClient: nil,
		Logger:      testLogger(),
	})

	if stack.Auth != nil || stack.Profiles != nil || stack.Watcher != nil {
		t.Fatalf("expected zero auth stack without redis, got %+v", stack)
	}
}

func TestBuildMockProviderSeedsAccount(t *testing.T) {
	bundle := buildMockProvider(config.MockAuthConfig{
		Email:    "seed@agristock.local",
		Password: "hunter22",
		Name:     "Seed Farmer",
		Username: "seedfarmer",
		Role:     "admin",
	}, testLogger())

	sess, err := bundle.Provider.SignInWithPassword(context.Background(), "seed@agristock.local", "hunter22")
	if err != nil {
		t.Fatalf("seeded account should sign in: %v", err)
	}
	if sess == nil || sess.AccountID == "" {
		t.Fatal("expected a session with an account id")
	}

	records, err := bundle.Directory.LookupByUsername(context.Background(), "seedfarmer")
	if err != nil {
		t.Fatalf("lookup seeded username: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one directory record, got %d", len(records))
	}
}

func TestBuildProviderRejectsUnknownMode(t *testing.T) {
	_, err := BuildProvider(config.AuthConfig{Mode: config.AuthMode("ldap")}, nil, testLogger())
	if err == nil {
		t.Fatal("expected error for unknown auth mode")
	}
}

func TestBuildTokenVerifierMockModeIsNil(t *testing.T) {
	verifier, err := BuildTokenVerifier(context.Background(), config.AuthConfig{Mode: config.AuthModeMock})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verifier != nil {
		t.Fatal("expected nil verifier in mock mode")
	}
}

func TestBuildMetricsSinkDisabled(t *testing.T) {
	if sink := BuildMetricsSink(config.ObservabilityMetricsConfig{}, testLogger()); sink != nil {
		t.Fatal("expected nil sink when metrics are disabled")
	}
}

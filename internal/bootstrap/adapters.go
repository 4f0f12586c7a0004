package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/agristock/agristock-api/config"
	"github.com/agristock/agristock-api/internal/adapters/mockidp"
	"github.com/agristock/agristock-api/internal/adapters/supabase"
	"github.com/agristock/agristock-api/internal/data"
	"github.com/agristock/agristock-api/internal/observability/statsd"
	"github.com/agristock/agristock-api/internal/ports"
)

// ProviderBundle groups the identity provider ports a concrete adapter
// satisfies. The supabase client and the mock provider both implement all
// four; in supabase mode the profile and directory ports are rebound to the
// local database so profile reads skip a REST round trip.
type ProviderBundle struct {
	Provider  ports.IdentityProvider
	Stream    ports.AuthStream
	Directory ports.AccountDirectory
	Profiles  ports.ProfileSource
}

// BuildProvider constructs the identity provider stack for the configured
// auth mode.
func BuildProvider(cfg config.AuthConfig, db *sql.DB, logger *slog.Logger) (ProviderBundle, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		return buildMockProvider(cfg.Mock, logger), nil
	case config.AuthModeSupabase:
		return buildSupabaseProvider(cfg.Supabase, db, logger)
	default:
		return ProviderBundle{}, fmt.Errorf("unsupported auth mode: %q", cfg.Mode)
	}
}

func buildMockProvider(cfg config.MockAuthConfig, logger *slog.Logger) ProviderBundle {
	prov := mockidp.NewProvider(mockidp.Config{})

	if cfg.Email != "" {
		prov.SeedAccount(cfg.Email, cfg.Password, ports.SignUpMetadata{
			Name:     cfg.Name,
			Username: cfg.Username,
			Role:     cfg.Role,
		})
		if logger != nil {
			logger.Info("mock auth provider seeded", "email", cfg.Email, "username", cfg.Username)
		}
	}

	return ProviderBundle{
		Provider:  prov,
		Stream:    prov,
		Directory: prov,
		Profiles:  prov,
	}
}

func buildSupabaseProvider(cfg config.SupabaseConfig, db *sql.DB, logger *slog.Logger) (ProviderBundle, error) {
	client, err := supabase.NewClient(supabase.Config{
		BaseURL: cfg.URL,
		APIKey:  cfg.AnonKey,
		Logger:  logger,
	})
	if err != nil {
		return ProviderBundle{}, fmt.Errorf("create supabase client: %w", err)
	}

	bundle := ProviderBundle{
		Provider:  client,
		Stream:    client,
		Directory: client,
		Profiles:  client,
	}

	if db != nil {
		profileRepo := data.NewProfileRepo(db)
		bundle.Directory = profileRepo
		bundle.Profiles = profileRepo
	}

	return bundle, nil
}

// BuildTokenVerifier constructs the bearer-token verifier used by the HTTP
// auth middleware. Only supabase mode issues verifiable tokens; mock mode
// returns nil and API clients fall back to cookie sessions.
//
//nolint:ireturn // the concrete verifier type is an implementation detail of the auth mode.
func BuildTokenVerifier(ctx context.Context, cfg config.AuthConfig) (ports.TokenVerifier, error) {
	if cfg.Mode != config.AuthModeSupabase {
		return nil, nil
	}

	verifier, err := supabase.NewTokenVerifier(ctx, supabase.VerifierConfig{
		Issuer: cfg.Supabase.Issuer(),
	})
	if err != nil {
		return nil, fmt.Errorf("create token verifier: %w", err)
	}
	return verifier, nil
}

// BuildMetricsSink constructs the StatsD client when metrics are enabled.
// Returns nil when disabled; emitters treat a nil sink as a no-op.
func BuildMetricsSink(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  "agristock",
		Logger:  logger,
	})
	if err != nil {
		if logger != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		}
		return nil
	}
	return client
}

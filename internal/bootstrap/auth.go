package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	redisadapter "github.com/agristock/agristock-api/internal/adapters/redis"
	"github.com/agristock/agristock-api/internal/service"
)

// AuthStack groups the auth-facing services built from one provider bundle.
type AuthStack struct {
	Auth     *service.AuthService
	Profiles *service.ProfileService
	Watcher  *service.SessionWatcher
}

// AuthConfig contains dependencies for the auth stack.
type AuthConfig struct {
	Bundle      ProviderBundle
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthStack wires the auth service, profile fetcher, and session
// watcher around the configured identity provider. Returns a zero stack if
// the Redis session store is not available.
func BuildAuthStack(cfg AuthConfig) AuthStack {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured")
		}
		return AuthStack{}
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	profiles := service.NewProfileService(service.ProfileServiceOptions{
		Source: cfg.Bundle.Profiles,
		Logger: cfg.Logger,
	})

	auth := service.NewAuthService(service.AuthServiceOptions{
		Provider:  cfg.Bundle.Provider,
		Directory: cfg.Bundle.Directory,
		Sessions:  sessionStore,
	}, profiles, cfg.Logger)

	watcher := service.NewSessionWatcher(service.SessionWatcherOptions{
		Provider: cfg.Bundle.Provider,
		Stream:   cfg.Bundle.Stream,
		Profiles: profiles,
	}, cfg.Logger)

	return AuthStack{
		Auth:     auth,
		Profiles: profiles,
		Watcher:  watcher,
	}
}

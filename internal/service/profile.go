package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

const (
	// defaultProfileRetryDelay is the fixed wait between profile lookups when
	// the row has not been created yet. There is no backoff growth or jitter;
	// this tolerates read-after-write propagation lag, it is not a resilience
	// mechanism for provider outages.
	defaultProfileRetryDelay = 2 * time.Second

	// defaultProfileMaxRetries bounds the retries after the initial attempt
	// (four attempts total).
	defaultProfileMaxRetries = 3
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Source ports.ProfileSource
	Logger *slog.Logger
	Config *ProfileServiceConfig // optional; defaults applied when nil
}

// ProfileServiceConfig tunes the retry behavior for tests and callers with
// stricter latency budgets.
type ProfileServiceConfig struct {
	RetryDelay time.Duration
	MaxRetries int
	// MaxWait bounds the total time spent across all attempts regardless of
	// the retry count. Zero means delay*(retries+1) plus lookup time.
	MaxWait time.Duration
}

// ProfileService resolves profile rows by account id, tolerating the lag
// between account creation and profile-row creation.
type ProfileService struct {
	source ports.ProfileSource
	logger *slog.Logger
	cfg    ProfileServiceConfig
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	if opts.Source == nil {
		panic("profile service requires a profile source")
	}
	cfg := ProfileServiceConfig{
		RetryDelay: defaultProfileRetryDelay,
		MaxRetries: defaultProfileMaxRetries,
	}
	if opts.Config != nil {
		if opts.Config.RetryDelay > 0 {
			cfg.RetryDelay = opts.Config.RetryDelay
		}
		if opts.Config.MaxRetries >= 0 {
			cfg.MaxRetries = opts.Config.MaxRetries
		}
		cfg.MaxWait = opts.Config.MaxWait
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{source: opts.Source, logger: logger, cfg: cfg}
}

// Fetch looks up the profile row for an account. A row that does not exist
// yet (the provider's distinguishable not-found signal) is retried with a
// fixed delay; after the retry budget, or on any other failure, Fetch returns
// (nil, nil) and the caller treats the profile as absent. Only context
// cancellation is surfaced as an error.
func (s *ProfileService) Fetch(ctx context.Context, accountID string) (*domainauth.Profile, error) {
	if accountID == "" {
		return nil, nil
	}

	if s.cfg.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.MaxWait)
		defer cancel()
	}

	for attempt := 0; ; attempt++ {
		profile, err := s.source.FetchProfileRow(ctx, accountID)
		if err == nil {
			return profile, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if !errors.Is(err, ports.ErrProfileNotFound) {
			s.logger.Warn("profile fetch failed",
				slog.String("account_id", accountID),
				slog.Any("error", err))
			return nil, nil
		}

		if attempt >= s.cfg.MaxRetries {
			s.logger.Info("profile still absent after retries",
				slog.String("account_id", accountID),
				slog.Int("attempts", attempt+1))
			return nil, nil
		}

		s.logger.Debug("profile not found, retrying",
			slog.String("account_id", accountID),
			slog.Int("attempt", attempt+1))

		timer := time.NewTimer(s.cfg.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agristock/agristock-api/config"
	"github.com/agristock/agristock-api/internal/data"
	"github.com/agristock/agristock-api/internal/observability/statsd"
	"github.com/agristock/agristock-api/internal/ports"
	"github.com/agristock/agristock-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Profiles   *service.ProfileService
	Watcher    *service.SessionWatcher
	Supplies   *service.SupplyService
	Equipment  *service.EquipmentService
	Dashboard  *service.DashboardService
	AlertSinks *service.AlertSinkService
	Scanner    *service.AlertScanner
	Verifier   ports.TokenVerifier

	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	CacheClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB            *sql.DB
	SupplyRepo    *data.SupplyRepo
	EquipmentRepo *data.EquipmentRepo
	ProfileRepo   *data.ProfileRepo
	AlertSinkRepo *data.AlertSinkRepo
	CacheRepo     *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, cacheClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		DB:            db,
		SupplyRepo:    data.NewSupplyRepo(db),
		EquipmentRepo: data.NewEquipmentRepo(db),
		ProfileRepo:   data.NewProfileRepo(db),
		AlertSinkRepo: data.NewAlertSinkRepo(db),
	}
	if cacheClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(cacheClient)
	}
	return repos
}

// NewServices wires all application services from configuration and
// connections. The returned container backs both the HTTP router and the
// background scanner.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	observability := ObservabilityContainer{
		MetricsSink:   BuildMetricsSink(appCfg.Observability.Metrics, logger),
		MetricsConfig: appCfg.Observability.Metrics,
	}

	repos := buildRepositories(deps.DB, deps.CacheClient)

	bundle, err := BuildProvider(appCfg.Auth, deps.DB, logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build identity provider: %w", err)
	}

	verifier, err := BuildTokenVerifier(ctx, appCfg.Auth)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build token verifier: %w", err)
	}

	authStack := BuildAuthStack(AuthConfig{
		Bundle:      bundle,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	supplies := service.NewSupplyService(service.SupplyServiceOptions{Repo: repos.SupplyRepo})
	equipment := service.NewEquipmentService(service.EquipmentServiceOptions{Repo: repos.EquipmentRepo})

	// Typed-nil guard: only assign the cache repo into interface-typed option
	// fields when it exists.
	cacheRepo := repos.CacheRepo

	dashboardOpts := service.DashboardServiceOptions{
		Supplies:  repos.SupplyRepo,
		Equipment: repos.EquipmentRepo,
		CacheTTL:  appCfg.Cache.OverviewTTL,
	}
	if cacheRepo != nil {
		dashboardOpts.Cache = cacheRepo
	}
	dashboard := service.NewDashboardService(dashboardOpts, logger)

	alertSinks := service.NewAlertSinkService(service.AlertSinkServiceOptions{
		Repo: repos.AlertSinkRepo,
	}, logger)

	scannerOpts := service.AlertScannerOptions{
		Supplies:  repos.SupplyRepo,
		Equipment: repos.EquipmentRepo,
		Sinks:     alertSinks,
		Client:    &http.Client{Timeout: appCfg.AlertScanner.DeliveryTimeout},
	}
	if cacheRepo != nil {
		scannerOpts.Cache = cacheRepo
	}
	if observability.MetricsSink != nil {
		scannerOpts.Metrics = observability.MetricsSink
	}
	scanner := service.NewAlertScanner(scannerOpts, logger)

	return ServiceContainer{
		Auth:          authStack.Auth,
		Profiles:      authStack.Profiles,
		Watcher:       authStack.Watcher,
		Supplies:      supplies,
		Equipment:     equipment,
		Dashboard:     dashboard,
		AlertSinks:    alertSinks,
		Scanner:       scanner,
		Verifier:      verifier,
		Observability: observability,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error",
					"service", descriptor.name,
					"error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newAlertScannerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeAlertScanner,
		name: "alert scanner",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil || deps.cfg.Services.Scanner == nil {
				return nil
			}
			interval := 15 * time.Minute
			if deps.cfg.Config != nil {
				interval = deps.cfg.Config.AlertScanner.Interval
			}
			return deps.cfg.Services.Scanner.Run(ctx, interval)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newAlertScannerBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Kick off the bootstrap session check so existing provider sessions are
	// re-established before traffic arrives.
	if cfg.Services.Watcher != nil {
		cfg.Services.Watcher.Start(serviceCtx)
	}

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running. The service context is already
	// canceled at this point, so the shutdown deadline hangs off Background.
	if cfg.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}

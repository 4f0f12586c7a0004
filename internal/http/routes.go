package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
	"github.com/agristock/agristock-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       *service.AuthService
	Supplies   *service.SupplyService
	Equipment  *service.EquipmentService
	Dashboard  *service.DashboardService
	AlertSinks *service.AlertSinkService
	Profiles   *service.ProfileService
	Verifier   ports.TokenVerifier // optional; enables bearer auth for API clients

	CookieDomain string
	CookieSecure bool
	Logger       *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	auth := &AuthMiddleware{
		Sessions: services.Auth,
		Verifier: services.Verifier,
		Logger:   services.Logger,
	}
	if services.Profiles != nil {
		auth.Profiles = services.Profiles
	}

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		CookieSecure: services.CookieSecure,
		Logger:       services.Logger,
	}
	supplyHandlers := &SupplyHandlers{Svc: services.Supplies}
	equipmentHandlers := &EquipmentHandlers{Svc: services.Equipment}
	dashboardHandlers := &DashboardHandlers{Svc: services.Dashboard}
	sinkHandlers := &AlertSinkHandlers{Svc: services.AlertSinks}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, authHandlers, auth)
	registerSupplyRoutes(mux, supplyHandlers, auth)
	registerEquipmentRoutes(mux, equipmentHandlers, auth)
	registerDashboardRoutes(mux, dashboardHandlers, auth)
	registerAlertSinkRoutes(mux, sinkHandlers, auth)

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, auth *AuthMiddleware) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.Handle("GET /api/auth/session", auth.RequireAuth(http.HandlerFunc(h.Session)))
}

// crudConfig groups the standard handlers for one resource base path.
type crudConfig struct {
	Base       string
	Create     http.HandlerFunc
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

// registerCRUD registers standard CRUD routes for a resource base path,
// applying cfg.Middleware when set. Nil handlers are skipped.
func registerCRUD(mux *http.ServeMux, cfg crudConfig) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if h == nil {
			return nil
		}
		if cfg.Middleware != nil {
			return cfg.Middleware(h)
		}
		return h
	}

	register := func(pattern string, h http.Handler) {
		if h != nil {
			mux.Handle(pattern, h)
		}
	}

	register("POST "+cfg.Base, wrap(cfg.Create))
	register("GET "+cfg.Base, wrap(cfg.List))
	register("GET "+cfg.Base+"/{id}", wrap(cfg.GetByID))
	register("PUT "+cfg.Base+"/{id}", wrap(cfg.Update))
	register("DELETE "+cfg.Base+"/{id}", wrap(cfg.Delete))
}

func registerSupplyRoutes(mux *http.ServeMux, h *SupplyHandlers, auth *AuthMiddleware) {
	registerCRUD(mux, crudConfig{
		Base:       "/api/supplies",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: auth.RequireAuth,
	})
}

func registerEquipmentRoutes(mux *http.ServeMux, h *EquipmentHandlers, auth *AuthMiddleware) {
	registerCRUD(mux, crudConfig{
		Base:       "/api/equipment",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: auth.RequireAuth,
	})

	mux.Handle("POST /api/equipment/{id}/maintenance",
		auth.RequireAuth(http.HandlerFunc(h.RecordMaintenance)))
	mux.Handle("GET /api/equipment/{id}/maintenance",
		auth.RequireAuth(http.HandlerFunc(h.MaintenanceHistory)))
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, auth *AuthMiddleware) {
	mux.Handle("GET /api/dashboard", auth.RequireAuth(http.HandlerFunc(h.Overview)))
}

func registerAlertSinkRoutes(mux *http.ServeMux, h *AlertSinkHandlers, auth *AuthMiddleware) {
	registerCRUD(mux, crudConfig{
		Base:       "/api/alert-sinks",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Delete:     h.Delete,
		Middleware: auth.RequireRole(domainauth.RoleAdmin),
	})
}

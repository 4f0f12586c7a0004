package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/domain/model"
)

// DashboardAPI is the slice of the dashboard service the HTTP layer uses.
type DashboardAPI interface {
	Overview(ctx context.Context, userID string) (*model.DashboardOverview, error)
	SelectDashboard(role domainauth.Role) domainauth.Dashboard
}

// DashboardHandlers provides HTTP handlers for the dashboard overview.
type DashboardHandlers struct {
	Svc DashboardAPI
}

// Overview handles GET /api/dashboard. The response carries the quick stats
// and recent activity plus the dashboard variant for the caller's role.
func (h *DashboardHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview, err := h.Svc.Overview(ctx, UserIDFromContext(ctx))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "overview_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"dashboard": h.Svc.SelectDashboard(RoleFromContext(ctx)),
		"stats":     overview.Stats,
		"activity":  overview.Activity,
	})
}

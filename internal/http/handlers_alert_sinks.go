package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/agristock/agristock-api/internal/data"
	"github.com/agristock/agristock-api/internal/domain/model"
)

// AlertSinkAPI is the slice of the alert sink service the HTTP layer uses.
type AlertSinkAPI interface {
	Create(ctx context.Context, req *model.CreateAlertSinkRequest) (*model.AlertSink, error)
	GetByID(ctx context.Context, id string) (*model.AlertSink, error)
	List(ctx context.Context, limit, offset int) ([]*model.AlertSink, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AlertSinkHandlers provides HTTP handlers for alert sink administration.
// Sinks are deployment-wide, so these routes sit behind the admin role.
type AlertSinkHandlers struct {
	Svc AlertSinkAPI
}

const (
	defaultAlertSinkListLimit = 50
	maxAlertSinkListLimit     = 100
)

// Create handles POST /api/alert-sinks.
func (h *AlertSinkHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAlertSinkRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sink, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrAlertSinkNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, sink)
}

// List handles GET /api/alert-sinks with pagination.
func (h *AlertSinkHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultAlertSinkListLimit, maxAlertSinkListLimit)

	sinks, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"alert_sinks": sinks,
		"limit":       limit,
		"offset":      offset,
	})
}

// GetByID handles GET /api/alert-sinks/{id}.
func (h *AlertSinkHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("alert sink id is required"),
		})
		return
	}

	sink, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrAlertSinkNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "alert_sink_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, sink)
}

// Delete handles DELETE /api/alert-sinks/{id}.
func (h *AlertSinkHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("alert sink id is required"),
		})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "alert_sink_not_found",
			Err:     errors.New("alert sink not found"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

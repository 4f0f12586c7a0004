package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/agristock/agristock-api/internal/data"
	"github.com/agristock/agristock-api/internal/domain/model"
)

// SupplyAPI is the slice of the supply service the HTTP layer uses.
type SupplyAPI interface {
	Create(ctx context.Context, userID string, req *model.CreateSupplyRequest) (*model.Supply, error)
	GetByID(ctx context.Context, userID, id string) (*model.Supply, error)
	List(ctx context.Context, userID string, opts model.SuppliesListOptions) ([]*model.Supply, error)
	Update(ctx context.Context, userID, id string, req model.UpdateSupplyRequest) (*model.Supply, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// SupplyHandlers provides HTTP handlers for supply operations. Every
// operation is scoped to the signed-in user from the request context.
type SupplyHandlers struct {
	Svc SupplyAPI
}

const (
	defaultSupplyListLimit = 50  // Default number of supplies returned when limit is not specified
	maxSupplyListLimit     = 100 // Maximum number of supplies that can be requested in one call
)

// Create handles POST /api/supplies.
func (h *SupplyHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSupplyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	supply, err := h.Svc.Create(r.Context(), UserIDFromContext(r.Context()), &req)
	if err != nil {
		if isValidationError(err) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, supply)
}

// List handles GET /api/supplies with pagination and filters.
func (h *SupplyHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultSupplyListLimit, maxSupplyListLimit)

	opts := model.SuppliesListOptions{
		Limit:    limit,
		Offset:   offset,
		Q:        queryStringPtr(r, "q"),
		Category: queryStringPtr(r, "category"),
		Sort:     r.URL.Query().Get("sort"),
		Dir:      r.URL.Query().Get("dir"),
	}
	if raw := queryStringPtr(r, "status"); raw != nil {
		status := model.SupplyStatus(*raw)
		if !status.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be one of: in_stock, low_stock, out_of_stock"),
			})
			return
		}
		opts.Status = &status
	}

	supplies, err := h.Svc.List(r.Context(), UserIDFromContext(r.Context()), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"supplies": supplies,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetByID handles GET /api/supplies/{id}.
func (h *SupplyHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("supply id is required"),
		})
		return
	}

	supply, err := h.Svc.GetByID(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, data.ErrSupplyNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "supply_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, supply)
}

// Update handles PUT /api/supplies/{id}.
func (h *SupplyHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("supply id is required"),
		})
		return
	}

	var req model.UpdateSupplyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	supply, err := h.Svc.Update(r.Context(), UserIDFromContext(r.Context()), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrSupplyNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "supply_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, supply)
}

// Delete handles DELETE /api/supplies/{id}.
func (h *SupplyHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("supply id is required"),
		})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "supply_not_found",
			Err:     errors.New("supply not found"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

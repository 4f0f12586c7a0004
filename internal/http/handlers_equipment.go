package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/agristock/agristock-api/internal/data"
	"github.com/agristock/agristock-api/internal/domain/model"
)

// EquipmentAPI is the slice of the equipment service the HTTP layer uses.
type EquipmentAPI interface {
	Create(ctx context.Context, userID string, req *model.CreateEquipmentRequest) (*model.Equipment, error)
	GetByID(ctx context.Context, userID, id string) (*model.Equipment, error)
	List(ctx context.Context, userID string, opts model.EquipmentListOptions) ([]*model.Equipment, error)
	Update(ctx context.Context, userID, id string, req model.UpdateEquipmentRequest) (*model.Equipment, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	RecordMaintenance(ctx context.Context, userID string, req *model.CreateMaintenanceRequest) (*model.MaintenanceRecord, error)
	MaintenanceHistory(ctx context.Context, userID, equipmentID string) ([]*model.MaintenanceRecord, error)
}

// EquipmentHandlers provides HTTP handlers for equipment and maintenance
// operations, scoped to the signed-in user.
type EquipmentHandlers struct {
	Svc EquipmentAPI
}

const (
	defaultEquipmentListLimit = 50
	maxEquipmentListLimit     = 100
)

// Create handles POST /api/equipment.
func (h *EquipmentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEquipmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	equipment, err := h.Svc.Create(r.Context(), UserIDFromContext(r.Context()), &req)
	if err != nil {
		if isValidationError(err) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, equipment)
}

// List handles GET /api/equipment with pagination and filters.
func (h *EquipmentHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultEquipmentListLimit, maxEquipmentListLimit)

	opts := model.EquipmentListOptions{
		Limit:    limit,
		Offset:   offset,
		Q:        queryStringPtr(r, "q"),
		Category: queryStringPtr(r, "category"),
		Sort:     r.URL.Query().Get("sort"),
		Dir:      r.URL.Query().Get("dir"),
	}
	if raw := queryStringPtr(r, "status"); raw != nil {
		status, ok := model.ParseEquipmentStatus(*raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be one of: operational, maintenance, repair, retired"),
			})
			return
		}
		opts.Status = &status
	}

	equipment, err := h.Svc.List(r.Context(), UserIDFromContext(r.Context()), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"equipment": equipment,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles GET /api/equipment/{id}.
func (h *EquipmentHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("equipment id is required"),
		})
		return
	}

	equipment, err := h.Svc.GetByID(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, data.ErrEquipmentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "equipment_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, equipment)
}

// Update handles PUT /api/equipment/{id}.
func (h *EquipmentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("equipment id is required"),
		})
		return
	}

	var req model.UpdateEquipmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	equipment, err := h.Svc.Update(r.Context(), UserIDFromContext(r.Context()), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEquipmentNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "equipment_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, equipment)
}

// Delete handles DELETE /api/equipment/{id}. Maintenance history goes with it.
func (h *EquipmentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("equipment id is required"),
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
			ErrCode: "equipment_not_found",
			Err:     errors.New("equipment not found"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// RecordMaintenance handles POST /api/equipment/{id}/maintenance. The path id
// wins over any equipment_id in the body.
func (h *EquipmentHandlers) RecordMaintenance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("equipment id is required"),
		})
		return
	}

	var req model.CreateMaintenanceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.EquipmentID = id

	record, err := h.Svc.RecordMaintenance(r.Context(), UserIDFromContext(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEquipmentNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "equipment_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "maintenance_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, record)
}

// MaintenanceHistory handles GET /api/equipment/{id}/maintenance, newest
// record first.
func (h *EquipmentHandlers) MaintenanceHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("equipment id is required"),
		})
		return
	}

	records, err := h.Svc.MaintenanceHistory(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, data.ErrEquipmentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "equipment_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"maintenance": records})
}

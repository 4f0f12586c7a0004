package service

import (
	"context"
	"errors"

	"github.com/agristock/agristock-api/internal/core"
	"github.com/agristock/agristock-api/internal/domain/model"
)

// EquipmentServiceOptions groups dependencies for EquipmentService.
type EquipmentServiceOptions struct {
	Repo core.EquipmentRepository
}

// EquipmentService orchestrates equipment CRUD and maintenance records.
type EquipmentService struct {
	equipment core.EquipmentRepository
}

// NewEquipmentService constructs a new EquipmentService.
func NewEquipmentService(opts EquipmentServiceOptions) *EquipmentService {
	if opts.Repo == nil {
		panic("equipment service requires a repository")
	}
	return &EquipmentService{equipment: opts.Repo}
}

// Create creates a piece of equipment for the user.
func (s *EquipmentService) Create(ctx context.Context, userID string, req *model.CreateEquipmentRequest) (*model.Equipment, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	return s.equipment.Create(ctx, userID, req)
}

// GetByID retrieves one of the user's equipment entries.
func (s *EquipmentService) GetByID(ctx context.Context, userID, id string) (*model.Equipment, error) {
	return s.equipment.GetByID(ctx, userID, id)
}

// List returns a page of the user's equipment.
func (s *EquipmentService) List(ctx context.Context, userID string, opts model.EquipmentListOptions) ([]*model.Equipment, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.equipment.List(ctx, userID, opts)
}

// Update updates one of the user's equipment entries.
func (s *EquipmentService) Update(ctx context.Context, userID, id string, req model.UpdateEquipmentRequest) (*model.Equipment, error) {
	return s.equipment.Update(ctx, userID, id, req)
}

// Delete removes one of the user's equipment entries.
func (s *EquipmentService) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.equipment.Delete(ctx, userID, id)
}

// RecordMaintenance stores a maintenance event and rolls the equipment's
// last maintenance date forward.
func (s *EquipmentService) RecordMaintenance(ctx context.Context, userID string, req *model.CreateMaintenanceRequest) (*model.MaintenanceRecord, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	return s.equipment.AddMaintenance(ctx, userID, req)
}

// MaintenanceHistory lists maintenance records for one equipment entry,
// newest first.
func (s *EquipmentService) MaintenanceHistory(ctx context.Context, userID, equipmentID string) ([]*model.MaintenanceRecord, error) {
	if equipmentID == "" {
		return nil, errors.New("equipment id is required")
	}
	return s.equipment.ListMaintenance(ctx, userID, equipmentID)
}

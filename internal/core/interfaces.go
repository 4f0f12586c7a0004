// Package core defines repository contracts for the agristock inventory system.
package core

import (
	"context"
	"time"

	"github.com/agristock/agristock-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// SupplyRepository defines the interface for supply data operations.
// All operations are scoped to the owning user.
type SupplyRepository interface {
	Create(ctx context.Context, userID string, req *model.CreateSupplyRequest) (*model.Supply, error)
	GetByID(ctx context.Context, userID, id string) (*model.Supply, error)
	List(ctx context.Context, userID string, opts model.SuppliesListOptions) ([]*model.Supply, error)
	Update(ctx context.Context, userID, id string, req model.UpdateSupplyRequest) (*model.Supply, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	// ListLowStock returns supplies at or below their low-stock threshold
	// across all users, for alert scanning.
	ListLowStock(ctx context.Context) ([]*model.Supply, error)
	Count(ctx context.Context, userID string) (int, error)
	CountLowStock(ctx context.Context, userID string) (int, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.Supply, error)
}

// EquipmentRepository defines the interface for equipment data operations.
type EquipmentRepository interface {
	Create(ctx context.Context, userID string, req *model.CreateEquipmentRequest) (*model.Equipment, error)
	GetByID(ctx context.Context, userID, id string) (*model.Equipment, error)
	List(ctx context.Context, userID string, opts model.EquipmentListOptions) ([]*model.Equipment, error)
	Update(ctx context.Context, userID, id string, req model.UpdateEquipmentRequest) (*model.Equipment, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	// AddMaintenance records a maintenance event and rolls the equipment's
	// last maintenance date forward.
	AddMaintenance(ctx context.Context, userID string, req *model.CreateMaintenanceRequest) (*model.MaintenanceRecord, error)
	ListMaintenance(ctx context.Context, userID, equipmentID string) ([]*model.MaintenanceRecord, error)
	// ListMaintenanceDue returns equipment whose next maintenance date is at
	// or before the given time, across all users.
	ListMaintenanceDue(ctx context.Context, due time.Time) ([]*model.Equipment, error)
	Count(ctx context.Context, userID string) (int, error)
	CountMaintenanceDue(ctx context.Context, userID string, due time.Time) (int, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.Equipment, error)
}

// AlertSinkRepository defines the interface for alert sink data operations.
type AlertSinkRepository interface {
	Create(ctx context.Context, req *model.CreateAlertSinkRequest) (*model.AlertSink, error)
	GetByID(ctx context.Context, id string) (*model.AlertSink, error)
	List(ctx context.Context, limit, offset int) ([]*model.AlertSink, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListEnabled(ctx context.Context) ([]*model.AlertSink, error)
}

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

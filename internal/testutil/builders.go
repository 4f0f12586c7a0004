// Package testutil provides testing utilities and helpers for the agristock inventory system.
package testutil

import (
	"time"

	"github.com/agristock/agristock-api/internal/domain/model"
)

// SupplyRequestBuilder provides a fluent interface for building CreateSupplyRequest objects for testing.
type SupplyRequestBuilder struct {
	req *model.CreateSupplyRequest
}

// NewSupplyRequest creates a new SupplyRequestBuilder with sensible defaults.
func NewSupplyRequest() *SupplyRequestBuilder {
	return &SupplyRequestBuilder{
		req: &model.CreateSupplyRequest{
			Name:     "Chicken Feed",
			Category: "feed",
			Quantity: 40,
			Unit:     "kg",
		},
	}
}

// WithName sets the supply name.
func (b *SupplyRequestBuilder) WithName(name string) *SupplyRequestBuilder {
	b.req.Name = name
	return b
}

// WithCategory sets the supply category.
func (b *SupplyRequestBuilder) WithCategory(category string) *SupplyRequestBuilder {
	b.req.Category = category
	return b
}

// WithQuantity sets the quantity.
func (b *SupplyRequestBuilder) WithQuantity(quantity float64) *SupplyRequestBuilder {
	b.req.Quantity = quantity
	return b
}

// WithUnit sets the unit of measure.
func (b *SupplyRequestBuilder) WithUnit(unit string) *SupplyRequestBuilder {
	b.req.Unit = unit
	return b
}

// WithThreshold sets the low-stock threshold.
func (b *SupplyRequestBuilder) WithThreshold(threshold float64) *SupplyRequestBuilder {
	b.req.LowStockThreshold = &threshold
	return b
}

// WithCostPerUnit sets the cost per unit.
func (b *SupplyRequestBuilder) WithCostPerUnit(cost float64) *SupplyRequestBuilder {
	b.req.CostPerUnit = &cost
	return b
}

// WithSupplier sets the supplier.
func (b *SupplyRequestBuilder) WithSupplier(supplier string) *SupplyRequestBuilder {
	b.req.Supplier = &supplier
	return b
}

// Build returns the constructed CreateSupplyRequest.
func (b *SupplyRequestBuilder) Build() *model.CreateSupplyRequest {
	return b.req
}

// EquipmentRequestBuilder provides a fluent interface for building CreateEquipmentRequest objects for testing.
type EquipmentRequestBuilder struct {
	req *model.CreateEquipmentRequest
}

// NewEquipmentRequest creates a new EquipmentRequestBuilder with sensible defaults.
func NewEquipmentRequest() *EquipmentRequestBuilder {
	return &EquipmentRequestBuilder{
		req: &model.CreateEquipmentRequest{
			Name:     "Tractor",
			Category: "vehicles",
			Status:   model.EquipmentStatusOperational,
		},
	}
}

// WithName sets the equipment name.
func (b *EquipmentRequestBuilder) WithName(name string) *EquipmentRequestBuilder {
	b.req.Name = name
	return b
}

// WithCategory sets the equipment category.
func (b *EquipmentRequestBuilder) WithCategory(category string) *EquipmentRequestBuilder {
	b.req.Category = category
	return b
}

// WithStatus sets the equipment status.
func (b *EquipmentRequestBuilder) WithStatus(status model.EquipmentStatus) *EquipmentRequestBuilder {
	b.req.Status = status
	return b
}

// WithNextMaintenance sets the next maintenance date.
func (b *EquipmentRequestBuilder) WithNextMaintenance(t time.Time) *EquipmentRequestBuilder {
	b.req.NextMaintenanceDate = &t
	return b
}

// WithPurchase sets the purchase date and cost together.
func (b *EquipmentRequestBuilder) WithPurchase(date time.Time, cost float64) *EquipmentRequestBuilder {
	b.req.PurchaseDate = &date
	b.req.PurchaseCost = &cost
	return b
}

// Build returns the constructed CreateEquipmentRequest.
func (b *EquipmentRequestBuilder) Build() *model.CreateEquipmentRequest {
	return b.req
}

// Common test request presets

// LowStockSupplyRequest creates a supply request already at its threshold.
func LowStockSupplyRequest() *model.CreateSupplyRequest {
	return NewSupplyRequest().
		WithName("Layer Pellets").
		WithQuantity(3).
		WithThreshold(5).
		Build()
}

// OutOfStockSupplyRequest creates a supply request with zero quantity.
func OutOfStockSupplyRequest() *model.CreateSupplyRequest {
	return NewSupplyRequest().
		WithName("Diesel").
		WithCategory("fuel").
		WithQuantity(0).
		WithUnit("l").
		Build()
}

// MaintenanceDueEquipmentRequest creates an equipment request overdue for maintenance.
func MaintenanceDueEquipmentRequest(now time.Time) *model.CreateEquipmentRequest {
	return NewEquipmentRequest().
		WithName("Irrigation Pump").
		WithCategory("irrigation").
		WithNextMaintenance(now.Add(-24 * time.Hour)).
		Build()
}

// MaintenanceRequest creates a maintenance record request for the given equipment.
func MaintenanceRequest(equipmentID string) *model.CreateMaintenanceRequest {
	return &model.CreateMaintenanceRequest{
		EquipmentID:     equipmentID,
		MaintenanceType: "oil change",
	}
}

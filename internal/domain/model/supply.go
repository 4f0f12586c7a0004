//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxSupplyNameLen     = 255
	maxSupplyCategoryLen = 100
	maxSupplyUnitLen     = 50
)

// SupplyStatus describes stock level for a supply.
type SupplyStatus string

const (
	SupplyStatusInStock    SupplyStatus = "in_stock"
	SupplyStatusLowStock   SupplyStatus = "low_stock"
	SupplyStatusOutOfStock SupplyStatus = "out_of_stock"
)

// Valid reports whether the supply status is supported.
func (s SupplyStatus) Valid() bool {
	switch s {
	case SupplyStatusInStock, SupplyStatusLowStock, SupplyStatusOutOfStock:
		return true
	default:
		return false
	}
}

// DeriveSupplyStatus computes the stock status from quantity and threshold.
// A zero quantity is out of stock; at or below the threshold is low stock.
func DeriveSupplyStatus(quantity float64, lowStockThreshold *float64) SupplyStatus {
	if quantity <= 0 {
		return SupplyStatusOutOfStock
	}
	if lowStockThreshold != nil && quantity <= *lowStockThreshold {
		return SupplyStatusLowStock
	}
	return SupplyStatusInStock
}

// Supply represents a stocked farm supply owned by one user.
type Supply struct {
	ID                string       `json:"id"                            db:"id"`
	Name              string       `json:"name"                          db:"name"`
	Category          string       `json:"category"                      db:"category"`
	Description       *string      `json:"description,omitempty"         db:"description"`
	Quantity          float64      `json:"quantity"                      db:"quantity"`
	Unit              string       `json:"unit"                          db:"unit"`
	CostPerUnit       *float64     `json:"cost_per_unit,omitempty"       db:"cost_per_unit"`
	Supplier          *string      `json:"supplier,omitempty"            db:"supplier"`
	Status            SupplyStatus `json:"status"                        db:"status"`
	LowStockThreshold *float64     `json:"low_stock_threshold,omitempty" db:"low_stock_threshold"`
	UserID            string       `json:"user_id"                       db:"user_id"`
	CreatedAt         time.Time    `json:"created_at"                    db:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"                    db:"updated_at"`
}

// LowOnStock reports whether the supply is at or below its threshold.
func (s *Supply) LowOnStock() bool {
	return s.Status == SupplyStatusLowStock || s.Status == SupplyStatusOutOfStock
}

// CreateSupplyRequest represents parameters to create a Supply.
// Status is derived server-side from quantity and threshold, never accepted.
type CreateSupplyRequest struct {
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Description       *string  `json:"description,omitempty"`
	Quantity          float64  `json:"quantity"`
	Unit              string   `json:"unit"`
	CostPerUnit       *float64 `json:"cost_per_unit,omitempty"`
	Supplier          *string  `json:"supplier,omitempty"`
	LowStockThreshold *float64 `json:"low_stock_threshold,omitempty"`
}

// UpdateSupplyRequest represents parameters to update a Supply.
type UpdateSupplyRequest struct {
	Name              *string  `json:"name,omitempty"`
	Category          *string  `json:"category,omitempty"`
	Description       *string  `json:"description,omitempty"`
	Quantity          *float64 `json:"quantity,omitempty"`
	Unit              *string  `json:"unit,omitempty"`
	CostPerUnit       *float64 `json:"cost_per_unit,omitempty"`
	Supplier          *string  `json:"supplier,omitempty"`
	LowStockThreshold *float64 `json:"low_stock_threshold,omitempty"`
}

// SuppliesListOptions controls paging and filtering for listing supplies.
// Sort supports "created_at" and "name"; Dir supports "asc" and "desc".
type SuppliesListOptions struct {
	Limit    int
	Offset   int
	Q        *string       // substring match on name (ILIKE)
	Category *string       // exact match
	Status   *SupplyStatus // exact match
	Sort     string
	Dir      string
}

// Validate validates CreateSupplyRequest.
func (r *CreateSupplyRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxSupplyNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Category) > maxSupplyCategoryLen {
		return errors.New("category cannot exceed 100 characters")
	}
	if strings.TrimSpace(r.Unit) == "" {
		return errors.New("unit is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Unit) > maxSupplyUnitLen {
		return errors.New("unit cannot exceed 50 characters")
	}
	if r.Quantity < 0 {
		return errors.New("quantity must be non-negative")
	}
	if r.CostPerUnit != nil && *r.CostPerUnit < 0 {
		return errors.New("cost_per_unit must be non-negative")
	}
	if r.LowStockThreshold != nil && *r.LowStockThreshold < 0 {
		return errors.New("low_stock_threshold must be non-negative")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateSupplyRequest.
func (r *UpdateSupplyRequest) HasUpdates() bool {
	return r.Name != nil || r.Category != nil || r.Description != nil || r.Quantity != nil ||
		r.Unit != nil || r.CostPerUnit != nil || r.Supplier != nil || r.LowStockThreshold != nil
}

// Validate validates UpdateSupplyRequest and ensures at least one field is being updated.
func (r *UpdateSupplyRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name is required and cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxSupplyNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		return errors.New("category is required and cannot be empty")
	}
	if r.Unit != nil && strings.TrimSpace(*r.Unit) == "" {
		return errors.New("unit is required and cannot be empty")
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		return errors.New("quantity must be non-negative")
	}
	if r.CostPerUnit != nil && *r.CostPerUnit < 0 {
		return errors.New("cost_per_unit must be non-negative")
	}
	if r.LowStockThreshold != nil && *r.LowStockThreshold < 0 {
		return errors.New("low_stock_threshold must be non-negative")
	}
	return nil
}

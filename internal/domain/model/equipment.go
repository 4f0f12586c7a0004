//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxEquipmentNameLen        = 255
	maxEquipmentCategoryLen    = 100
	maxMaintenanceTypeLen      = 100
	maxMaintenancePerformerLen = 255
)

// EquipmentStatus describes the operational state of a piece of equipment.
type EquipmentStatus string

const (
	EquipmentStatusOperational EquipmentStatus = "operational"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
	EquipmentStatusRepair      EquipmentStatus = "repair"
	EquipmentStatusRetired     EquipmentStatus = "retired"
)

// Valid reports whether the equipment status is supported.
func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentStatusOperational, EquipmentStatusMaintenance, EquipmentStatusRepair, EquipmentStatusRetired:
		return true
	default:
		return false
	}
}

// ParseEquipmentStatus normalizes a status string and reports whether it is supported.
func ParseEquipmentStatus(value string) (EquipmentStatus, bool) {
	status := EquipmentStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Equipment represents a piece of farm equipment owned by one user.
type Equipment struct {
	ID                  string          `json:"id"                              db:"id"`
	Name                string          `json:"name"                            db:"name"`
	Category            string          `json:"category"                        db:"category"`
	Description         *string         `json:"description,omitempty"           db:"description"`
	Status              EquipmentStatus `json:"status"                          db:"status"`
	PurchaseDate        *time.Time      `json:"purchase_date,omitempty"         db:"purchase_date"`
	PurchaseCost        *float64        `json:"purchase_cost,omitempty"         db:"purchase_cost"`
	LastMaintenanceDate *time.Time      `json:"last_maintenance_date,omitempty" db:"last_maintenance_date"`
	NextMaintenanceDate *time.Time      `json:"next_maintenance_date,omitempty" db:"next_maintenance_date"`
	UserID              string          `json:"user_id"                         db:"user_id"`
	CreatedAt           time.Time       `json:"created_at"                      db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"                      db:"updated_at"`
}

// MaintenanceDue reports whether the next maintenance date is at or before now.
func (e *Equipment) MaintenanceDue(now time.Time) bool {
	return e.NextMaintenanceDate != nil && !e.NextMaintenanceDate.After(now)
}

// MaintenanceRecord is one maintenance event performed on a piece of equipment.
type MaintenanceRecord struct {
	ID              string    `json:"id"                     db:"id"`
	EquipmentID     string    `json:"equipment_id"           db:"equipment_id"`
	MaintenanceType string    `json:"maintenance_type"       db:"maintenance_type"`
	MaintenanceDate time.Time `json:"maintenance_date"       db:"maintenance_date"`
	Description     *string   `json:"description,omitempty"  db:"description"`
	Cost            *float64  `json:"cost,omitempty"         db:"cost"`
	PerformedBy     *string   `json:"performed_by,omitempty" db:"performed_by"`
	UserID          string    `json:"user_id"                db:"user_id"`
}

// CreateEquipmentRequest represents parameters to create Equipment.
type CreateEquipmentRequest struct {
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	Description         *string         `json:"description,omitempty"`
	Status              EquipmentStatus `json:"status,omitempty"`
	PurchaseDate        *time.Time      `json:"purchase_date,omitempty"`
	PurchaseCost        *float64        `json:"purchase_cost,omitempty"`
	LastMaintenanceDate *time.Time      `json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time      `json:"next_maintenance_date,omitempty"`
}

// UpdateEquipmentRequest represents parameters to update Equipment.
type UpdateEquipmentRequest struct {
	Name                *string          `json:"name,omitempty"`
	Category            *string          `json:"category,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Status              *EquipmentStatus `json:"status,omitempty"`
	PurchaseDate        *time.Time       `json:"purchase_date,omitempty"`
	PurchaseCost        *float64         `json:"purchase_cost,omitempty"`
	LastMaintenanceDate *time.Time       `json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time       `json:"next_maintenance_date,omitempty"`
}

// CreateMaintenanceRequest represents parameters to record equipment maintenance.
type CreateMaintenanceRequest struct {
	EquipmentID     string     `json:"equipment_id"`
	MaintenanceType string     `json:"maintenance_type"`
	MaintenanceDate *time.Time `json:"maintenance_date,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Cost            *float64   `json:"cost,omitempty"`
	PerformedBy     *string    `json:"performed_by,omitempty"`
}

// EquipmentListOptions controls paging and filtering for listing equipment.
type EquipmentListOptions struct {
	Limit    int
	Offset   int
	Q        *string          // substring match on name (ILIKE)
	Category *string          // exact match
	Status   *EquipmentStatus // exact match
	Sort     string           // allowed: "created_at", "name", "next_maintenance_date"
	Dir      string           // allowed: "asc", "desc"
}

// normalizeEquipmentStatus trims and lowercases the input, defaulting to operational when empty.
func normalizeEquipmentStatus(v EquipmentStatus) EquipmentStatus {
	normalized := EquipmentStatus(strings.ToLower(strings.TrimSpace(string(v))))
	if normalized == "" {
		return EquipmentStatusOperational
	}
	return normalized
}

// Validate validates CreateEquipmentRequest.
func (r *CreateEquipmentRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxEquipmentNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Category) > maxEquipmentCategoryLen {
		return errors.New("category cannot exceed 100 characters")
	}
	if r.PurchaseCost != nil && *r.PurchaseCost < 0 {
		return errors.New("purchase_cost must be non-negative")
	}
	r.Status = normalizeEquipmentStatus(r.Status)
	if !r.Status.Valid() {
		return errors.New("status must be one of: operational, maintenance, repair, retired")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateEquipmentRequest.
func (r *UpdateEquipmentRequest) HasUpdates() bool {
	return r.Name != nil || r.Category != nil || r.Description != nil || r.Status != nil ||
		r.PurchaseDate != nil || r.PurchaseCost != nil ||
		r.LastMaintenanceDate != nil || r.NextMaintenanceDate != nil
}

// Validate validates UpdateEquipmentRequest and ensures at least one field is being updated.
func (r *UpdateEquipmentRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name is required and cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxEquipmentNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		return errors.New("category is required and cannot be empty")
	}
	if r.Status != nil {
		normalized := normalizeEquipmentStatus(*r.Status)
		if !normalized.Valid() {
			return errors.New("status must be one of: operational, maintenance, repair, retired")
		}
		*r.Status = normalized
	}
	if r.PurchaseCost != nil && *r.PurchaseCost < 0 {
		return errors.New("purchase_cost must be non-negative")
	}
	return nil
}

// Validate validates CreateMaintenanceRequest.
func (r *CreateMaintenanceRequest) Validate() error {
	if strings.TrimSpace(r.EquipmentID) == "" {
		return errors.New("equipment_id is required and cannot be empty")
	}
	mtype := strings.TrimSpace(r.MaintenanceType)
	if mtype == "" {
		return errors.New("maintenance_type is required and cannot be empty")
	}
	if utf8.RuneCountInString(mtype) > maxMaintenanceTypeLen {
		return errors.New("maintenance_type cannot exceed 100 characters")
	}
	if r.Cost != nil && *r.Cost < 0 {
		return errors.New("cost must be non-negative")
	}
	if r.PerformedBy != nil && utf8.RuneCountInString(*r.PerformedBy) > maxMaintenancePerformerLen {
		return errors.New("performed_by cannot exceed 255 characters")
	}
	return nil
}

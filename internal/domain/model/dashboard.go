//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"time"
)

// ActivityKind distinguishes which inventory table an activity item came from.
type ActivityKind string

const (
	ActivityKindSupply    ActivityKind = "supply"
	ActivityKindEquipment ActivityKind = "equipment"
)

// ActivityAction describes what happened to the item.
type ActivityAction string

const (
	ActivityActionAdded   ActivityAction = "added"
	ActivityActionUpdated ActivityAction = "updated"
)

// ActivityItem is one entry of the recent-activity feed, merged from the
// supplies and equipment tables and ordered newest first.
type ActivityItem struct {
	ID        string         `json:"id"`
	Kind      ActivityKind   `json:"kind"`
	Name      string         `json:"name"`
	Action    ActivityAction `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
}

// QuickStats are the headline counters of the dashboard overview.
type QuickStats struct {
	SuppliesCount       int `json:"supplies_count"`
	EquipmentCount      int `json:"equipment_count"`
	LowStockCount       int `json:"low_stock_count"`
	MaintenanceDueCount int `json:"maintenance_due_count"`
}

// InventoryHealth is the percentage of supplies not low on stock.
// With no supplies the inventory is considered fully healthy.
func (s QuickStats) InventoryHealth() float64 {
	if s.LowStockCount == 0 {
		return 100
	}
	if s.SuppliesCount == 0 {
		return 100
	}
	h := 100 - float64(s.LowStockCount)/float64(s.SuppliesCount)*100
	if h < 0 {
		return 0
	}
	return h
}

// EquipmentHealth is the percentage of equipment without due maintenance.
func (s QuickStats) EquipmentHealth() float64 {
	if s.MaintenanceDueCount == 0 {
		return 100
	}
	if s.EquipmentCount == 0 {
		return 100
	}
	h := 100 - float64(s.MaintenanceDueCount)/float64(s.EquipmentCount)*100
	if h < 0 {
		return 0
	}
	return h
}

// MarshalJSON includes the derived health percentages alongside the raw
// counters so clients never recompute them.
func (s QuickStats) MarshalJSON() ([]byte, error) {
	type plain QuickStats
	return json.Marshal(struct {
		plain
		InventoryHealth float64 `json:"inventory_health"`
		EquipmentHealth float64 `json:"equipment_health"`
	}{plain(s), s.InventoryHealth(), s.EquipmentHealth()})
}

// DashboardOverview bundles the quick stats with the recent-activity feed.
type DashboardOverview struct {
	Stats    QuickStats     `json:"stats"`
	Activity []ActivityItem `json:"activity"`
}

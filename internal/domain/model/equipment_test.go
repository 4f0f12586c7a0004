package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEquipmentStatus(t *testing.T) {
	s, ok := ParseEquipmentStatus("  Repair ")
	require.True(t, ok)
	assert.Equal(t, EquipmentStatusRepair, s)

	_, ok = ParseEquipmentStatus("broken")
	assert.False(t, ok)
}

func TestCreateEquipmentRequest_Validate(t *testing.T) {
	r := &CreateEquipmentRequest{Name: "Tractor", Category: "machinery"}
	require.NoError(t, r.Validate())
	assert.Equal(t, EquipmentStatusOperational, r.Status, "empty status defaults to operational")

	r = &CreateEquipmentRequest{Name: "", Category: "machinery"}
	assert.ErrorContains(t, r.Validate(), "name is required")

	r = &CreateEquipmentRequest{Name: "Tractor", Category: ""}
	assert.ErrorContains(t, r.Validate(), "category is required")

	r = &CreateEquipmentRequest{Name: "Tractor", Category: "machinery", Status: "broken"}
	assert.ErrorContains(t, r.Validate(), "status must be one of")

	cost := -10.0
	r = &CreateEquipmentRequest{Name: "Tractor", Category: "machinery", PurchaseCost: &cost}
	assert.ErrorContains(t, r.Validate(), "purchase_cost must be non-negative")
}

func TestUpdateEquipmentRequest_Validate(t *testing.T) {
	empty := &UpdateEquipmentRequest{}
	assert.ErrorContains(t, empty.Validate(), "at least one field must be updated")

	status := EquipmentStatus(" MAINTENANCE ")
	r := &UpdateEquipmentRequest{Status: &status}
	require.NoError(t, r.Validate())
	assert.Equal(t, EquipmentStatusMaintenance, *r.Status, "status is normalized in place")
}

func TestEquipment_MaintenanceDue(t *testing.T) {
	now := time.Now()

	e := &Equipment{}
	assert.False(t, e.MaintenanceDue(now), "no scheduled date means not due")

	past := now.Add(-24 * time.Hour)
	e.NextMaintenanceDate = &past
	assert.True(t, e.MaintenanceDue(now))

	future := now.Add(24 * time.Hour)
	e.NextMaintenanceDate = &future
	assert.False(t, e.MaintenanceDue(now))
}

func TestCreateMaintenanceRequest_Validate(t *testing.T) {
	r := &CreateMaintenanceRequest{EquipmentID: "eq-1", MaintenanceType: "oil change"}
	require.NoError(t, r.Validate())

	r = &CreateMaintenanceRequest{MaintenanceType: "oil change"}
	assert.ErrorContains(t, r.Validate(), "equipment_id is required")

	r = &CreateMaintenanceRequest{EquipmentID: "eq-1"}
	assert.ErrorContains(t, r.Validate(), "maintenance_type is required")
}

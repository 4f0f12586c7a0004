package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAlertSinkRequest_NormalizeAndValidate(t *testing.T) {
	r := &CreateAlertSinkRequest{Name: "  low stock hook ", URI: " https://hooks.example.com/x ", Method: "post"}
	r.Normalize()

	assert.Equal(t, "low stock hook", r.Name)
	assert.Equal(t, "https://hooks.example.com/x", r.URI)
	assert.Equal(t, "POST", r.Method)
	require.NoError(t, r.Validate())
}

func TestCreateAlertSinkRequest_DefaultMethod(t *testing.T) {
	r := &CreateAlertSinkRequest{Name: "hook", URI: "https://example.com", Method: ""}
	r.Normalize()
	assert.Equal(t, "POST", r.Method)
}

func TestCreateAlertSinkRequest_Validate_Errors(t *testing.T) {
	cases := []struct {
		name string
		req  CreateAlertSinkRequest
		want string
	}{
		{"empty name", CreateAlertSinkRequest{URI: "https://x.com", Method: "POST"}, "name is required"},
		{"short name", CreateAlertSinkRequest{Name: "ab", URI: "https://x.com", Method: "POST"}, "must be between 3 and 512"},
		{"empty uri", CreateAlertSinkRequest{Name: "hook", Method: "POST"}, "uri is required"},
		{"bad scheme", CreateAlertSinkRequest{Name: "hook", URI: "ftp://x.com", Method: "POST"}, "http or https"},
		{"no host", CreateAlertSinkRequest{Name: "hook", URI: "https://", Method: "POST"}, "valid host"},
		{"bad method", CreateAlertSinkRequest{Name: "hook", URI: "https://x.com", Method: "GET"}, "method must be one of"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorContains(t, tc.req.Validate(), tc.want)
		})
	}
}

func TestCreateAlertSinkRequest_Defaults(t *testing.T) {
	r := &CreateAlertSinkRequest{Name: "hook", URI: "https://x.com", Method: "POST"}
	assert.Equal(t, 200, r.OkStatusOrDefault())
	assert.Equal(t, 0, r.RetryOrDefault())

	st, retry := 201, 3
	r.OkStatus, r.Retry = &st, &retry
	assert.Equal(t, 201, r.OkStatusOrDefault())
	assert.Equal(t, 3, r.RetryOrDefault())

	bad := 99
	r.OkStatus = &bad
	assert.ErrorContains(t, r.Validate(), "ok_status must be between")
}

func TestQuickStats_Health(t *testing.T) {
	s := QuickStats{SuppliesCount: 10, LowStockCount: 0, EquipmentCount: 4, MaintenanceDueCount: 0}
	assert.InDelta(t, 100, s.InventoryHealth(), 0.001)
	assert.InDelta(t, 100, s.EquipmentHealth(), 0.001)

	s = QuickStats{SuppliesCount: 10, LowStockCount: 2, EquipmentCount: 4, MaintenanceDueCount: 1}
	assert.InDelta(t, 80, s.InventoryHealth(), 0.001)
	assert.InDelta(t, 75, s.EquipmentHealth(), 0.001)

	s = QuickStats{SuppliesCount: 0, LowStockCount: 0}
	assert.InDelta(t, 100, s.InventoryHealth(), 0.001)
}

func TestQuickStats_MarshalIncludesHealth(t *testing.T) {
	s := QuickStats{SuppliesCount: 10, LowStockCount: 2, EquipmentCount: 4, MaintenanceDueCount: 1}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"supplies_count":10`)
	assert.Contains(t, string(raw), `"inventory_health":80`)
	assert.Contains(t, string(raw), `"equipment_health":75`)
}

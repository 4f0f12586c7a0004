package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestDeriveSupplyStatus(t *testing.T) {
	assert.Equal(t, SupplyStatusOutOfStock, DeriveSupplyStatus(0, nil))
	assert.Equal(t, SupplyStatusOutOfStock, DeriveSupplyStatus(-1, f64(10)))
	assert.Equal(t, SupplyStatusLowStock, DeriveSupplyStatus(5, f64(10)))
	assert.Equal(t, SupplyStatusLowStock, DeriveSupplyStatus(10, f64(10)))
	assert.Equal(t, SupplyStatusInStock, DeriveSupplyStatus(11, f64(10)))
	assert.Equal(t, SupplyStatusInStock, DeriveSupplyStatus(1, nil))
}

func TestCreateSupplyRequest_Validate(t *testing.T) {
	valid := func() *CreateSupplyRequest {
		return &CreateSupplyRequest{Name: "Seed Corn", Category: "seeds", Quantity: 40, Unit: "kg"}
	}

	require.NoError(t, valid().Validate())

	r := valid()
	r.Name = "   "
	assert.ErrorContains(t, r.Validate(), "name is required")

	r = valid()
	r.Category = ""
	assert.ErrorContains(t, r.Validate(), "category is required")

	r = valid()
	r.Unit = ""
	assert.ErrorContains(t, r.Validate(), "unit is required")

	r = valid()
	r.Quantity = -1
	assert.ErrorContains(t, r.Validate(), "quantity must be non-negative")

	r = valid()
	r.CostPerUnit = f64(-0.5)
	assert.ErrorContains(t, r.Validate(), "cost_per_unit must be non-negative")

	r = valid()
	r.LowStockThreshold = f64(-2)
	assert.ErrorContains(t, r.Validate(), "low_stock_threshold must be non-negative")
}

func TestUpdateSupplyRequest_Validate(t *testing.T) {
	empty := &UpdateSupplyRequest{}
	assert.ErrorContains(t, empty.Validate(), "at least one field must be updated")

	name := ""
	bad := &UpdateSupplyRequest{Name: &name}
	assert.ErrorContains(t, bad.Validate(), "name is required")

	qty := 12.5
	ok := &UpdateSupplyRequest{Quantity: &qty}
	require.NoError(t, ok.Validate())
	assert.True(t, ok.HasUpdates())
}

func TestSupply_LowOnStock(t *testing.T) {
	assert.True(t, (&Supply{Status: SupplyStatusLowStock}).LowOnStock())
	assert.True(t, (&Supply{Status: SupplyStatusOutOfStock}).LowOnStock())
	assert.False(t, (&Supply{Status: SupplyStatusInStock}).LowOnStock())
}

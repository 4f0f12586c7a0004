package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agristock/agristock-api/internal/domain/model"
	"github.com/agristock/agristock-api/internal/mocks"
)

func supplyAt(id, name string, created, updated time.Time) *model.Supply {
	return &model.Supply{ID: id, Name: name, CreatedAt: created, UpdatedAt: updated}
}

func equipmentAt(id, name string, created, updated time.Time) *model.Equipment {
	return &model.Equipment{ID: id, Name: name, CreatedAt: created, UpdatedAt: updated}
}

func TestDashboardService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	supplies := mocks.NewMockSupplyRepository(ctrl)
	equipment := mocks.NewMockEquipmentRepository(ctrl)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	supplies.EXPECT().Count(gomock.Any(), "user-1").Return(12, nil)
	supplies.EXPECT().CountLowStock(gomock.Any(), "user-1").Return(3, nil)
	equipment.EXPECT().Count(gomock.Any(), "user-1").Return(5, nil)
	equipment.EXPECT().CountMaintenanceDue(gomock.Any(), "user-1", gomock.Any()).Return(2, nil)
	supplies.EXPECT().ListRecent(gomock.Any(), "user-1", recentActivityLimit).Return([]*model.Supply{
		supplyAt("s1", "Seed corn", base.Add(1*time.Hour), base.Add(1*time.Hour)),
		supplyAt("s2", "Fertilizer", base, base.Add(6*time.Hour)),
	}, nil)
	equipment.EXPECT().ListRecent(gomock.Any(), "user-1", recentActivityLimit).Return([]*model.Equipment{
		equipmentAt("e1", "Tractor", base.Add(3*time.Hour), base.Add(3*time.Hour)),
	}, nil)

	svc := NewDashboardService(DashboardServiceOptions{Supplies: supplies, Equipment: equipment}, nil)

	overview, err := svc.Overview(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 12, overview.Stats.SuppliesCount)
	assert.Equal(t, 3, overview.Stats.LowStockCount)
	assert.Equal(t, 5, overview.Stats.EquipmentCount)
	assert.Equal(t, 2, overview.Stats.MaintenanceDueCount)

	// Newest first, merged across both tables; the edited supply reads as an
	// update.
	require.Len(t, overview.Activity, 3)
	assert.Equal(t, "s2", overview.Activity[0].ID)
	assert.Equal(t, model.ActivityActionUpdated, overview.Activity[0].Action)
	assert.Equal(t, "e1", overview.Activity[1].ID)
	assert.Equal(t, model.ActivityKindEquipment, overview.Activity[1].Kind)
	assert.Equal(t, "s1", overview.Activity[2].ID)
	assert.Equal(t, model.ActivityActionAdded, overview.Activity[2].Action)
}

func TestDashboardService_ActivityCapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	supplies := mocks.NewMockSupplyRepository(ctrl)
	equipment := mocks.NewMockEquipmentRepository(ctrl)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var recentSupplies []*model.Supply
	var recentEquipment []*model.Equipment
	for i := 0; i < recentActivityLimit; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		recentSupplies = append(recentSupplies, supplyAt("s", "Seed", ts, ts))
		recentEquipment = append(recentEquipment, equipmentAt("e", "Plow", ts, ts))
	}

	supplies.EXPECT().Count(gomock.Any(), "user-1").Return(0, nil)
	supplies.EXPECT().CountLowStock(gomock.Any(), "user-1").Return(0, nil)
	equipment.EXPECT().Count(gomock.Any(), "user-1").Return(0, nil)
	equipment.EXPECT().CountMaintenanceDue(gomock.Any(), "user-1", gomock.Any()).Return(0, nil)
	supplies.EXPECT().ListRecent(gomock.Any(), "user-1", recentActivityLimit).Return(recentSupplies, nil)
	equipment.EXPECT().ListRecent(gomock.Any(), "user-1", recentActivityLimit).Return(recentEquipment, nil)

	svc := NewDashboardService(DashboardServiceOptions{Supplies: supplies, Equipment: equipment}, nil)

	overview, err := svc.Overview(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, overview.Activity, recentActivityLimit)
}

func TestDashboardService_CacheHitSkipsRepos(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	supplies := mocks.NewMockSupplyRepository(ctrl)
	equipment := mocks.NewMockEquipmentRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	cached := &model.DashboardOverview{
		Stats: model.QuickStats{SuppliesCount: 7},
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	cache.EXPECT().Get(gomock.Any(), "dashboard:overview:user-1").Return(data, nil)

	svc := NewDashboardService(DashboardServiceOptions{
		Supplies:  supplies,
		Equipment: equipment,
		Cache:     cache,
	}, nil)

	overview, err := svc.Overview(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 7, overview.Stats.SuppliesCount)
}

func TestDashboardService_CacheMissPopulates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	supplies := mocks.NewMockSupplyRepository(ctrl)
	equipment := mocks.NewMockEquipmentRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	cache.EXPECT().Get(gomock.Any(), "dashboard:overview:user-1").Return(nil, nil)
	supplies.EXPECT().Count(gomock.Any(), "user-1").Return(1, nil)
	supplies.EXPECT().CountLowStock(gomock.Any(), "user-1").Return(0, nil)
	equipment.EXPECT().Count(gomock.Any(), "user-1").Return(0, nil)
	equipment.EXPECT().CountMaintenanceDue(gomock.Any(), "user-1", gomock.Any()).Return(0, nil)
	supplies.EXPECT().ListRecent(gomock.Any(), "user-1", recentActivityLimit).Return(nil, nil)
	equipment.EXPECT().ListRecent(gomock.Any(), "user-1", recentActivityLimit).Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), "dashboard:overview:user-1", gomock.Any(), overviewCacheTTL).Return(nil)

	svc := NewDashboardService(DashboardServiceOptions{
		Supplies:  supplies,
		Equipment: equipment,
		Cache:     cache,
	}, nil)

	overview, err := svc.Overview(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Stats.SuppliesCount)
}

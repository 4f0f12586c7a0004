package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/agristock/agristock-api/internal/core"
	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/domain/model"
)

const (
	// recentActivityLimit caps the merged activity feed.
	recentActivityLimit = 5

	// overviewCacheTTL keeps dashboard reads cheap without letting the
	// counters go meaningfully stale.
	overviewCacheTTL = 30 * time.Second
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Supplies  core.SupplyRepository
	Equipment core.EquipmentRepository
	Cache     core.CacheRepository // optional
	CacheTTL  time.Duration        // optional, defaults to overviewCacheTTL
}

// DashboardService assembles the per-user dashboard overview: quick stats
// and the recent-activity feed, with a short-lived cache in front.
type DashboardService struct {
	supplies  core.SupplyRepository
	equipment core.EquipmentRepository
	cache     core.CacheRepository
	cacheTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions, logger *slog.Logger) *DashboardService {
	if opts.Supplies == nil || opts.Equipment == nil {
		panic("dashboard service requires supply and equipment repositories")
	}
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = overviewCacheTTL
	}
	return &DashboardService{
		supplies:  opts.Supplies,
		equipment: opts.Equipment,
		cache:     opts.Cache,
		cacheTTL:  ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// SelectDashboard maps a role to the dashboard variant to render. Absent or
// unknown roles get the farmer variant.
func (s *DashboardService) SelectDashboard(role domainauth.Role) domainauth.Dashboard {
	return domainauth.SelectDashboard(role)
}

// Overview returns the user's dashboard overview, served from cache when a
// fresh copy exists.
func (s *DashboardService) Overview(ctx context.Context, userID string) (*model.DashboardOverview, error) {
	cacheKey := "dashboard:overview:" + userID

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached model.DashboardOverview
			if unmarshalErr := json.Unmarshal(data, &cached); unmarshalErr == nil {
				return &cached, nil
			}
		}
	}

	overview, err := s.buildOverview(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, marshalErr := json.Marshal(overview); marshalErr == nil {
			if setErr := s.cache.Set(ctx, cacheKey, data, s.cacheTTL); setErr != nil {
				s.logger.Debug("dashboard cache write failed", slog.Any("error", setErr))
			}
		}
	}

	return overview, nil
}

func (s *DashboardService) buildOverview(ctx context.Context, userID string) (*model.DashboardOverview, error) {
	now := s.now()

	suppliesCount, err := s.supplies.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count supplies: %w", err)
	}
	lowStockCount, err := s.supplies.CountLowStock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count low stock: %w", err)
	}
	equipmentCount, err := s.equipment.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count equipment: %w", err)
	}
	dueCount, err := s.equipment.CountMaintenanceDue(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("count maintenance due: %w", err)
	}

	activity, err := s.recentActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.DashboardOverview{
		Stats: model.QuickStats{
			SuppliesCount:       suppliesCount,
			EquipmentCount:      equipmentCount,
			LowStockCount:       lowStockCount,
			MaintenanceDueCount: dueCount,
		},
		Activity: activity,
	}, nil
}

// recentActivity merges the newest supplies and equipment into one feed,
// newest first, capped at recentActivityLimit. An item updated after its
// creation shows as "updated".
func (s *DashboardService) recentActivity(ctx context.Context, userID string) ([]model.ActivityItem, error) {
	recentSupplies, err := s.supplies.ListRecent(ctx, userID, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent supplies: %w", err)
	}
	recentEquipment, err := s.equipment.ListRecent(ctx, userID, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent equipment: %w", err)
	}

	items := make([]model.ActivityItem, 0, len(recentSupplies)+len(recentEquipment))
	for _, sup := range recentSupplies {
		items = append(items, model.ActivityItem{
			ID:        sup.ID,
			Kind:      model.ActivityKindSupply,
			Name:      sup.Name,
			Action:    activityAction(sup.CreatedAt, sup.UpdatedAt),
			Timestamp: sup.UpdatedAt,
		})
	}
	for _, eq := range recentEquipment {
		items = append(items, model.ActivityItem{
			ID:        eq.ID,
			Kind:      model.ActivityKindEquipment,
			Name:      eq.Name,
			Action:    activityAction(eq.CreatedAt, eq.UpdatedAt),
			Timestamp: eq.UpdatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	if len(items) > recentActivityLimit {
		items = items[:recentActivityLimit]
	}
	return items, nil
}

func activityAction(createdAt, updatedAt time.Time) model.ActivityAction {
	// Allow a little skew between the two timestamps set on insert.
	if updatedAt.Sub(createdAt) > time.Second {
		return model.ActivityActionUpdated
	}
	return model.ActivityActionAdded
}

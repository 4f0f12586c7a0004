package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agristock/agristock-api/internal/data"
	"github.com/agristock/agristock-api/internal/domain/model"
	"github.com/agristock/agristock-api/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB        *sql.DB
	supplies  *service.SupplyService
	equipment *service.EquipmentService
	sinks     *service.AlertSinkService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	supplyService := service.NewSupplyService(service.SupplyServiceOptions{
		Repo: data.NewSupplyRepo(db),
	})
	equipmentService := service.NewEquipmentService(service.EquipmentServiceOptions{
		Repo: data.NewEquipmentRepo(db),
	})
	sinkService := service.NewAlertSinkService(service.AlertSinkServiceOptions{
		Repo: data.NewAlertSinkRepo(db),
	}, nil)

	return Services{
		DB:        db,
		supplies:  supplyService,
		equipment: equipmentService,
		sinks:     sinkService,
	}
}

// Options identifies the account that owns the seeded farm data. The id must
// match the identity provider's seeded dev account.
type Options struct {
	UserID   string
	Name     string
	Username string
	Email    string
	Role     string
}

// Run executes the full development seeding workflow against the provided DB.
// Seeding is idempotent: an account that already has inventory is left alone.
func Run(ctx context.Context, svcs Services, opts Options, logger *slog.Logger) error {
	if opts.UserID == "" {
		return errors.New("seed user id is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureProfile(ctx, svcs.DB, opts); err != nil {
		return fmt.Errorf("ensure dev profile: %w", err)
	}

	failures := 0
	failures += seedSupplies(ctx, svcs.supplies, opts.UserID, logger)
	failures += seedEquipment(ctx, svcs.equipment, opts.UserID, logger)
	failures += seedAlertSinks(ctx, svcs.sinks, logger)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

// ensureProfile inserts the dev profile row the inventory tables reference.
// Provider-managed deployments create this row server-side on sign-up; the
// mock provider has no database hook, so seeding fills it in.
func ensureProfile(ctx context.Context, db *sql.DB, opts Options) error {
	role := opts.Role
	if role == "" {
		role = "farmer"
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, username, email, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		opts.UserID, opts.Name, opts.Username, opts.Email, role)
	return err
}

func seedSupplies(ctx context.Context, svc *service.SupplyService, userID string, logger *slog.Logger) int {
	existing, err := svc.List(ctx, userID, model.SuppliesListOptions{Limit: 1})
	if err != nil {
		logger.ErrorContext(ctx, "check existing supplies", "error", err)
		return 1
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "supplies already seeded, skipping")
		return 0
	}

	supplies := []model.CreateSupplyRequest{
		{
			Name:              "Maize Seed",
			Category:          "seeds",
			Description:       ptr("Hybrid maize seed, 25kg bags"),
			Quantity:          12,
			Unit:              "bags",
			CostPerUnit:       ptr(89.50),
			Supplier:          ptr("AgriSeed Co"),
			LowStockThreshold: ptr(4.0),
		},
		{
			Name:              "NPK Fertilizer",
			Category:          "fertilizer",
			Quantity:          3,
			Unit:              "bags",
			CostPerUnit:       ptr(42.00),
			LowStockThreshold: ptr(5.0), // seeded below threshold to exercise low-stock alerts
		},
		{
			Name:              "Diesel",
			Category:          "fuel",
			Quantity:          120,
			Unit:              "liters",
			LowStockThreshold: ptr(30.0),
		},
	}

	failures := 0
	for i := range supplies {
		if _, err := svc.Create(ctx, userID, &supplies[i]); err != nil {
			logger.ErrorContext(ctx, "failed to seed supply", "name", supplies[i].Name, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "supply seeded", "name", supplies[i].Name)
	}
	return failures
}

func seedEquipment(ctx context.Context, svc *service.EquipmentService, userID string, logger *slog.Logger) int {
	existing, err := svc.List(ctx, userID, model.EquipmentListOptions{Limit: 1})
	if err != nil {
		logger.ErrorContext(ctx, "check existing equipment", "error", err)
		return 1
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "equipment already seeded, skipping")
		return 0
	}

	lastService := time.Now().AddDate(0, -2, 0)
	overdue := time.Now().AddDate(0, 0, -3)
	nextSpring := time.Now().AddDate(0, 4, 0)

	items := []model.CreateEquipmentRequest{
		{
			Name:                "Utility Tractor",
			Category:            "tractor",
			Description:         ptr("45hp utility tractor"),
			PurchaseCost:        ptr(28500.00),
			LastMaintenanceDate: &lastService,
			NextMaintenanceDate: &overdue, // seeded past due to exercise maintenance alerts
		},
		{
			Name:                "Irrigation Pump",
			Category:            "irrigation",
			NextMaintenanceDate: &nextSpring,
		},
	}

	failures := 0
	for i := range items {
		created, createErr := svc.Create(ctx, userID, &items[i])
		if createErr != nil {
			logger.ErrorContext(ctx, "failed to seed equipment", "name", items[i].Name, "error", createErr)
			failures++
			continue
		}
		logger.InfoContext(ctx, "equipment seeded", "name", items[i].Name)

		if items[i].LastMaintenanceDate == nil {
			continue
		}
		maint := model.CreateMaintenanceRequest{
			EquipmentID:     created.ID,
			MaintenanceType: "oil_change",
			MaintenanceDate: items[i].LastMaintenanceDate,
			Description:     ptr("Routine oil and filter change"),
			Cost:            ptr(120.00),
			PerformedBy:     ptr("Farm workshop"),
		}
		if _, maintErr := svc.RecordMaintenance(ctx, userID, &maint); maintErr != nil {
			logger.ErrorContext(ctx, "failed to seed maintenance record", "equipment", items[i].Name, "error", maintErr)
			failures++
		}
	}
	return failures
}

func seedAlertSinks(ctx context.Context, svc *service.AlertSinkService, logger *slog.Logger) int {
	sinks := []model.CreateAlertSinkRequest{
		{
			Name:      "dev-webhook",
			URI:       "http://localhost:9099/alerts",
			Method:    "POST",
			BodyQuery: ptr("{kind: kind, message: message}"),
			Enabled:   ptr(false), // flip on manually when a local receiver is running
		},
	}

	failures := 0
	for i := range sinks {
		_, err := svc.Create(ctx, &sinks[i])
		switch {
		case errors.Is(err, data.ErrAlertSinkNameExists):
			logger.InfoContext(ctx, "alert sink already exists", "name", sinks[i].Name)
		case err != nil:
			logger.ErrorContext(ctx, "failed to seed alert sink", "name", sinks[i].Name, "error", err)
			failures++
		default:
			logger.InfoContext(ctx, "alert sink seeded", "name", sinks[i].Name)
		}
	}
	return failures
}

func ptr[T any](v T) *T { return &v }

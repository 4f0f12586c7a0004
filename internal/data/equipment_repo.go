package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agristock/agristock-api/internal/data/database"
	"github.com/agristock/agristock-api/internal/data/pgxutil"
	"github.com/agristock/agristock-api/internal/domain/model"
)

const equipmentColumns = `id, name, category, description, status, purchase_date, purchase_cost,
	last_maintenance_date, next_maintenance_date, user_id, created_at, updated_at`

const maintenanceColumns = `id, equipment_id, maintenance_type, maintenance_date, description,
	cost, performed_by, user_id`

// EquipmentRepo provides database operations for farm equipment and its
// maintenance history. All reads and writes except ListMaintenanceDue are
// scoped to the owning user.
type EquipmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEquipmentRepo creates a new EquipmentRepo.
func NewEquipmentRepo(db *sql.DB) *EquipmentRepo {
	return &EquipmentRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewEquipmentRepoWithTimeProvider creates a new EquipmentRepo with a custom time provider.
func NewEquipmentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EquipmentRepo {
	return &EquipmentRepo{
		DB:           db,
		timeProvider: tp,
	}
}

// Create inserts a new piece of equipment for the given user.
func (r *EquipmentRepo) Create(
	ctx context.Context,
	userID string,
	req *model.CreateEquipmentRequest,
) (*model.Equipment, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if req == nil {
		return nil, errors.New("create equipment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()

	query := `
		INSERT INTO equipment (name, category, description, status, purchase_date, purchase_cost,
			last_maintenance_date, next_maintenance_date, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + equipmentColumns

	var out model.Equipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			strings.TrimSpace(req.Name), req.Category, req.Description, req.Status,
			req.PurchaseDate, req.PurchaseCost, req.LastMaintenanceDate,
			req.NextMaintenanceDate, userID, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Equipment])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}

	return &out, nil
}

// GetByID retrieves a single piece of equipment owned by the user.
func (r *EquipmentRepo) GetByID(ctx context.Context, userID, id string) (*model.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1 AND user_id = $2`

	var equip model.Equipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, id, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		equip, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Equipment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to get equipment by ID: %w", err)
	}

	return &equip, nil
}

// List retrieves the user's equipment with filtering and pagination.
func (r *EquipmentRepo) List(
	ctx context.Context,
	userID string,
	opts model.EquipmentListOptions,
) ([]*model.Equipment, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50 // Default limit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	conds := []database.Condition{database.WhereCond("user_id", database.Equal, userID)}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		conds = append(conds, database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"))
	}
	if opts.Category != nil {
		conds = append(conds, database.WhereCond("category", database.Equal, *opts.Category))
	}
	if opts.Status != nil {
		conds = append(conds, database.WhereCond("status", database.Equal, string(*opts.Status)))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("equipment",
		database.WithConditions(conds...),
		database.WithOrderBy(equipmentSortColumn(opts.Sort), listDirection(opts.Dir)),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	equipment, err := r.collectEquipment(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return equipment, nil
}

// Update applies a partial update to the user's equipment.
func (r *EquipmentRepo) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateEquipmentRequest,
) (*model.Equipment, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts, args := r.buildUpdateParts(&req, r.timeProvider.Now())
	args = append(args, id, userID)
	query := "UPDATE equipment SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE id = $%d AND user_id = $%d RETURNING ", len(args)-1, len(args)) +
		equipmentColumns

	var out model.Equipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Equipment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}

	return &out, nil
}

// Delete removes the user's equipment by ID along with its maintenance history.
func (r *EquipmentRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	var rowsAffected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM equipment WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		rowsAffected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete equipment: %w", err)
	}

	return rowsAffected > 0, nil
}

// AddMaintenance records a maintenance event and rolls the equipment's last
// maintenance date forward, in one transaction. The equipment must belong to
// the user.
func (r *EquipmentRepo) AddMaintenance(
	ctx context.Context,
	userID string,
	req *model.CreateMaintenanceRequest,
) (*model.MaintenanceRecord, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if req == nil {
		return nil, errors.New("create maintenance request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()
	maintDate := now
	if req.MaintenanceDate != nil {
		maintDate = *req.MaintenanceDate
	}

	var out model.MaintenanceRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) (err error) {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if rerr := tx.Rollback(ctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
			}
		}()

		// Ownership check doubles as existence check.
		var equipID string
		row := tx.QueryRow(ctx,
			`SELECT id FROM equipment WHERE id = $1 AND user_id = $2`, req.EquipmentID, userID)
		if err = row.Scan(&equipID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO equipment_maintenance (equipment_id, maintenance_type, maintenance_date,
				description, cost, performed_by, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+maintenanceColumns,
			req.EquipmentID, strings.TrimSpace(req.MaintenanceType), maintDate,
			req.Description, req.Cost, req.PerformedBy, userID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MaintenanceRecord])
		rows.Close()
		if err != nil {
			return err
		}

		// Roll the last maintenance date forward only; backdated records must
		// not rewind it.
		if _, err = tx.Exec(ctx, `
			UPDATE equipment
			SET last_maintenance_date = GREATEST(COALESCE(last_maintenance_date, $2), $2),
			    updated_at = $3
			WHERE id = $1
		`, req.EquipmentID, maintDate, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to add maintenance record: %w", err)
	}

	return &out, nil
}

// ListMaintenance returns the maintenance history for one piece of equipment,
// newest first.
func (r *EquipmentRepo) ListMaintenance(
	ctx context.Context,
	userID, equipmentID string,
) ([]*model.MaintenanceRecord, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	query := `SELECT ` + maintenanceColumns + `
		FROM equipment_maintenance
		WHERE equipment_id = $1 AND user_id = $2
		ORDER BY maintenance_date DESC, id DESC`

	var records []*model.MaintenanceRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, equipmentID, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		recordsSlice, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.MaintenanceRecord])
		if err != nil {
			return err
		}

		records = make([]*model.MaintenanceRecord, len(recordsSlice))
		for i := range recordsSlice {
			records[i] = &recordsSlice[i]
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance records: %w", err)
	}

	return records, nil
}

// ListMaintenanceDue returns equipment due for maintenance across all users
// for alert scanning. Retired equipment is excluded.
func (r *EquipmentRepo) ListMaintenanceDue(ctx context.Context, due time.Time) ([]*model.Equipment, error) {
	query := `SELECT ` + equipmentColumns + `
		FROM equipment
		WHERE next_maintenance_date IS NOT NULL
		  AND next_maintenance_date <= $1
		  AND status != 'retired'
		ORDER BY next_maintenance_date ASC, id ASC`

	equipment, err := r.collectEquipment(ctx, query, due)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance due equipment: %w", err)
	}
	return equipment, nil
}

// Count returns the total number of equipment owned by the user.
func (r *EquipmentRepo) Count(ctx context.Context, userID string) (int, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("equipment",
		database.WithCountOnly(),
		database.WithCondition(database.WhereCond("user_id", database.Equal, userID)),
	))
	return r.countQuery(ctx, "failed to count equipment", query, args...)
}

// CountMaintenanceDue returns the number of the user's equipment due for maintenance.
func (r *EquipmentRepo) CountMaintenanceDue(ctx context.Context, userID string, due time.Time) (int, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("equipment",
		database.WithCountOnly(),
		database.WithConditions(
			database.WhereCond("user_id", database.Equal, userID),
			database.WhereRawCond("next_maintenance_date IS NOT NULL AND next_maintenance_date <= $1", due),
			database.WhereRawCond("status != 'retired'"),
		),
	))
	return r.countQuery(ctx, "failed to count maintenance due equipment", query, args...)
}

// ListRecent returns the user's most recently updated equipment.
func (r *EquipmentRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*model.Equipment, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `SELECT ` + equipmentColumns + `
		FROM equipment
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2`

	equipment, err := r.collectEquipment(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent equipment: %w", err)
	}
	return equipment, nil
}

func (r *EquipmentRepo) collectEquipment(ctx context.Context, query string, args ...any) ([]*model.Equipment, error) {
	var equipment []*model.Equipment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		equipmentSlice, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Equipment])
		if err != nil {
			return err
		}

		equipment = make([]*model.Equipment, len(equipmentSlice))
		for i := range equipmentSlice {
			equipment[i] = &equipmentSlice[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return equipment, nil
}

func (r *EquipmentRepo) countQuery(ctx context.Context, errorMsg, query string, args ...any) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errorMsg, err)
	}
	return count, nil
}

func (r *EquipmentRepo) buildUpdateParts(req *model.UpdateEquipmentRequest, now time.Time) ([]string, []any) {
	var setParts []string
	var args []any
	argIdx := 1

	add := func(col string, val any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if req.Name != nil {
		add("name", strings.TrimSpace(*req.Name))
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Status != nil {
		add("status", string(*req.Status))
	}
	if req.PurchaseDate != nil {
		add("purchase_date", *req.PurchaseDate)
	}
	if req.PurchaseCost != nil {
		add("purchase_cost", *req.PurchaseCost)
	}
	if req.LastMaintenanceDate != nil {
		add("last_maintenance_date", *req.LastMaintenanceDate)
	}
	if req.NextMaintenanceDate != nil {
		add("next_maintenance_date", *req.NextMaintenanceDate)
	}
	add("updated_at", now)

	return setParts, args
}

// equipmentSortColumn maps a requested sort key to an allowed column.
func equipmentSortColumn(sort string) string {
	switch sort {
	case "name":
		return "name"
	case "next_maintenance_date":
		return "next_maintenance_date"
	default:
		return "created_at"
	}
}

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

const supplyColumns = `id, name, category, description, quantity, unit, cost_per_unit,
	supplier, status, low_stock_threshold, user_id, created_at, updated_at`

// SupplyRepo provides database operations for farm supply management.
// All reads and writes except ListLowStock are scoped to the owning user.
type SupplyRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSupplyRepo creates a new SupplyRepo.
func NewSupplyRepo(db *sql.DB) *SupplyRepo {
	return &SupplyRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewSupplyRepoWithTimeProvider creates a new SupplyRepo with a custom time provider.
func NewSupplyRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SupplyRepo {
	return &SupplyRepo{
		DB:           db,
		timeProvider: tp,
	}
}

// Create inserts a new supply for the given user. Status is derived from
// quantity and threshold, never taken from the request.
func (r *SupplyRepo) Create(
	ctx context.Context,
	userID string,
	req *model.CreateSupplyRequest,
) (*model.Supply, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if req == nil {
		return nil, errors.New("create supply request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()
	status := model.DeriveSupplyStatus(req.Quantity, req.LowStockThreshold)

	query := `
		INSERT INTO supplies (name, category, description, quantity, unit, cost_per_unit,
			supplier, status, low_stock_threshold, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING ` + supplyColumns

	var out model.Supply
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			strings.TrimSpace(req.Name), req.Category, req.Description, req.Quantity,
			req.Unit, req.CostPerUnit, req.Supplier, status, req.LowStockThreshold,
			userID, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Supply])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create supply: %w", err)
	}

	return &out, nil
}

// GetByID retrieves a single supply owned by the user.
func (r *SupplyRepo) GetByID(ctx context.Context, userID, id string) (*model.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM supplies WHERE id = $1 AND user_id = $2`

	var supply model.Supply
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, id, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		supply, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Supply])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupplyNotFound
		}
		return nil, fmt.Errorf("failed to get supply by ID: %w", err)
	}

	return &supply, nil
}

// List retrieves the user's supplies with filtering and pagination.
func (r *SupplyRepo) List(
	ctx context.Context,
	userID string,
	opts model.SuppliesListOptions,
) ([]*model.Supply, error) {
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

	orderBy, orderDir := supplySortColumn(opts.Sort), listDirection(opts.Dir)

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

	query, args := database.BuildListQuery(database.NewListQueryOptions("supplies",
		database.WithConditions(conds...),
		database.WithOrderBy(orderBy, orderDir),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	supplies, err := r.collectSupplies(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplies: %w", err)
	}
	return supplies, nil
}

// Update applies a partial update and recomputes the derived stock status
// whenever quantity or threshold changes, in one transaction.
func (r *SupplyRepo) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateSupplyRequest,
) (*model.Supply, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now()

	var out model.Supply
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

		setParts, args := r.buildUpdateParts(&req, now)
		args = append(args, id, userID)
		query := "UPDATE supplies SET " + strings.Join(setParts, ", ") +
			fmt.Sprintf(" WHERE id = $%d AND user_id = $%d", len(args)-1, len(args))

		ct, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		// Re-derive status after the field update so concurrent quantity and
		// threshold changes always settle consistently.
		if req.Quantity != nil || req.LowStockThreshold != nil {
			if _, err = tx.Exec(ctx, `
				UPDATE supplies SET status = CASE
					WHEN quantity <= 0 THEN 'out_of_stock'
					WHEN low_stock_threshold IS NOT NULL AND quantity <= low_stock_threshold THEN 'low_stock'
					ELSE 'in_stock'
				END
				WHERE id = $1 AND user_id = $2
			`, id, userID); err != nil {
				return err
			}
		}

		rows, err := tx.Query(ctx,
			`SELECT `+supplyColumns+` FROM supplies WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Supply])
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupplyNotFound
		}
		return nil, fmt.Errorf("failed to update supply: %w", err)
	}

	return &out, nil
}

// Delete removes the user's supply by ID.
func (r *SupplyRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	var rowsAffected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM supplies WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		rowsAffected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete supply: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListLowStock returns low or out-of-stock supplies across all users for
// alert scanning, oldest first so repeated scans are stable.
func (r *SupplyRepo) ListLowStock(ctx context.Context) ([]*model.Supply, error) {
	query := `SELECT ` + supplyColumns + `
		FROM supplies
		WHERE status IN ('low_stock', 'out_of_stock')
		ORDER BY updated_at ASC, id ASC`

	supplies, err := r.collectSupplies(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock supplies: %w", err)
	}
	return supplies, nil
}

// Count returns the total number of supplies owned by the user.
func (r *SupplyRepo) Count(ctx context.Context, userID string) (int, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("supplies",
		database.WithCountOnly(),
		database.WithCondition(database.WhereCond("user_id", database.Equal, userID)),
	))
	return r.countQuery(ctx, "failed to count supplies", query, args...)
}

// CountLowStock returns the number of the user's supplies at or below threshold.
func (r *SupplyRepo) CountLowStock(ctx context.Context, userID string) (int, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("supplies",
		database.WithCountOnly(),
		database.WithConditions(
			database.WhereCond("user_id", database.Equal, userID),
			database.WhereRawCond("status IN ('low_stock', 'out_of_stock')"),
		),
	))
	return r.countQuery(ctx, "failed to count low stock supplies", query, args...)
}

// ListRecent returns the user's most recently updated supplies.
func (r *SupplyRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*model.Supply, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `SELECT ` + supplyColumns + `
		FROM supplies
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2`

	supplies, err := r.collectSupplies(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent supplies: %w", err)
	}
	return supplies, nil
}

func (r *SupplyRepo) collectSupplies(ctx context.Context, query string, args ...any) ([]*model.Supply, error) {
	var supplies []*model.Supply
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		suppliesSlice, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Supply])
		if err != nil {
			return err
		}

		supplies = make([]*model.Supply, len(suppliesSlice))
		for i := range suppliesSlice {
			supplies[i] = &suppliesSlice[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return supplies, nil
}

func (r *SupplyRepo) countQuery(ctx context.Context, errorMsg, query string, args ...any) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errorMsg, err)
	}
	return count, nil
}

func (r *SupplyRepo) buildUpdateParts(req *model.UpdateSupplyRequest, now time.Time) ([]string, []any) {
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
	if req.Quantity != nil {
		add("quantity", *req.Quantity)
	}
	if req.Unit != nil {
		add("unit", *req.Unit)
	}
	if req.CostPerUnit != nil {
		add("cost_per_unit", *req.CostPerUnit)
	}
	if req.Supplier != nil {
		add("supplier", *req.Supplier)
	}
	if req.LowStockThreshold != nil {
		add("low_stock_threshold", *req.LowStockThreshold)
	}
	add("updated_at", now)

	return setParts, args
}

// supplySortColumn maps a requested sort key to an allowed column.
func supplySortColumn(sort string) string {
	switch sort {
	case "name":
		return "name"
	default:
		return "created_at"
	}
}

// listDirection validates a sort direction, defaulting to descending.
func listDirection(dir string) string {
	if strings.EqualFold(dir, "asc") {
		return "ASC"
	}
	return "DESC"
}

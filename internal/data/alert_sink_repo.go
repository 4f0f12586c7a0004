package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agristock/agristock-api/internal/data/pgxutil"
	"github.com/agristock/agristock-api/internal/domain/model"
)

const alertSinkColumns = `id, name, uri, method, body_query, headers, ok_status, retry, enabled, created_at`

// AlertSinkRepo provides database operations for webhook alert sink management.
// Sinks are operator-level configuration and are not scoped per user.
type AlertSinkRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAlertSinkRepo creates a new AlertSinkRepo.
func NewAlertSinkRepo(db *sql.DB) *AlertSinkRepo {
	return &AlertSinkRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewAlertSinkRepoWithTimeProvider creates a new AlertSinkRepo with a custom time provider.
func NewAlertSinkRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AlertSinkRepo {
	return &AlertSinkRepo{
		DB:           db,
		timeProvider: tp,
	}
}

// Create creates a new alert sink with the given request parameters.
func (r *AlertSinkRepo) Create(ctx context.Context, req *model.CreateAlertSinkRequest) (*model.AlertSink, error) {
	if req == nil {
		return nil, errors.New("create alert sink request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	query := `
		INSERT INTO alert_sinks (name, uri, method, body_query, headers, ok_status, retry, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + alertSinkColumns

	var out model.AlertSink
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			req.Name, req.URI, req.Method, req.BodyQuery, req.Headers,
			req.OkStatusOrDefault(), req.RetryOrDefault(), enabled, r.timeProvider.Now())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AlertSink])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create alert sink: %w", mapAlertSinkWriteErr(err))
	}

	return &out, nil
}

// GetByID retrieves an alert sink by its ID.
func (r *AlertSinkRepo) GetByID(ctx context.Context, id string) (*model.AlertSink, error) {
	query := `SELECT ` + alertSinkColumns + ` FROM alert_sinks WHERE id = $1`

	var sink model.AlertSink
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		sink, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AlertSink])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlertSinkNotFound
		}
		return nil, fmt.Errorf("failed to get alert sink by ID: %w", err)
	}

	return &sink, nil
}

// List retrieves alert sinks with pagination, newest first.
func (r *AlertSinkRepo) List(ctx context.Context, limit, offset int) ([]*model.AlertSink, error) {
	if limit <= 0 {
		limit = 50 // Default limit
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + alertSinkColumns + `
		FROM alert_sinks
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	sinks, err := r.collectSinks(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert sinks: %w", err)
	}
	return sinks, nil
}

// Delete deletes an alert sink by its ID.
func (r *AlertSinkRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rowsAffected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM alert_sinks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rowsAffected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete alert sink: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListEnabled returns all enabled alert sinks for the alert scanner.
func (r *AlertSinkRepo) ListEnabled(ctx context.Context) ([]*model.AlertSink, error) {
	query := `SELECT ` + alertSinkColumns + `
		FROM alert_sinks
		WHERE enabled
		ORDER BY created_at ASC, id ASC`

	sinks, err := r.collectSinks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled alert sinks: %w", err)
	}
	return sinks, nil
}

func (r *AlertSinkRepo) collectSinks(ctx context.Context, query string, args ...any) ([]*model.AlertSink, error) {
	var sinks []*model.AlertSink
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		sinksSlice, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.AlertSink])
		if err != nil {
			return err
		}

		sinks = make([]*model.AlertSink, len(sinksSlice))
		for i := range sinksSlice {
			sinks[i] = &sinksSlice[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sinks, nil
}

// mapAlertSinkWriteErr maps unique violations on the sinks table to the
// name-exists sentinel.
func mapAlertSinkWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == pgerrcode.UniqueViolation && pgErr.TableName == "alert_sinks" {
		return ErrAlertSinkNameExists
	}
	return err
}

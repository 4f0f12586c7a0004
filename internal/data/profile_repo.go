package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/agristock/agristock-api/internal/data/pgxutil"
	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

// ProfileRepo reads profile rows. Rows are created server-side as a side
// effect of account creation; this repo only ever fetches them, so a missing
// row is an expected transient state, not corruption.
type ProfileRepo struct {
	DB *sql.DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db}
}

var (
	_ ports.ProfileSource    = (*ProfileRepo)(nil)
	_ ports.AccountDirectory = (*ProfileRepo)(nil)
)

// profileRow maps the profiles table for struct scanning.
type profileRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Username string `db:"username"`
	Email    string `db:"email"`
	Role     string `db:"role"`
}

func (p profileRow) toProfile() *domainauth.Profile {
	return &domainauth.Profile{
		ID:       p.ID,
		Name:     p.Name,
		Username: p.Username,
		Email:    p.Email,
		Role:     domainauth.ParseRole(p.Role),
	}
}

// FetchProfileRow returns the profile keyed by account id, or
// ports.ErrProfileNotFound when the row has not been created yet.
func (r *ProfileRepo) FetchProfileRow(ctx context.Context, accountID string) (*domainauth.Profile, error) {
	if accountID == "" {
		return nil, ports.ErrProfileNotFound
	}

	query := `SELECT id, name, username, email, role FROM profiles WHERE id = $1`

	var row profileRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, accountID)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[profileRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return row.toProfile(), nil
}

// LookupByUsername resolves a username to account rows. Usernames are stored
// lowercase, so the lookup normalizes before matching. Zero rows means no
// such username.
func (r *ProfileRepo) LookupByUsername(ctx context.Context, username string) ([]ports.AccountRecord, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, nil
	}

	query := `SELECT id, email FROM profiles WHERE username = $1`

	var records []ports.AccountRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, username)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rec ports.AccountRecord
			if err := rows.Scan(&rec.ID, &rec.Email); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	return records, nil
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campuskit/identity-api/internal/data/pgxutil"
	"github.com/campuskit/identity-api/internal/domain/principal"
	"github.com/campuskit/identity-api/internal/ports"
)

// PrincipalRepo provides database operations for one identity table. The four
// tables share a column shape except that administrators have no phone, so a
// single repo type parameterized by table serves all kinds.
type PrincipalRepo struct {
	db       *sql.DB
	kind     principal.Kind
	table    string
	hasPhone bool
}

// NewAdminRepo returns the repository over the administrators table.
func NewAdminRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db, kind: principal.KindAdmin, table: "administrators", hasPhone: false}
}

// NewStaffRepo returns the repository over the staff table.
func NewStaffRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db, kind: principal.KindStaff, table: "staff", hasPhone: true}
}

// NewParentRepo returns the repository over the parents table.
func NewParentRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db, kind: principal.KindParent, table: "parents", hasPhone: true}
}

// NewStudentRepo returns the repository over the students table.
func NewStudentRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db, kind: principal.KindStudent, table: "students", hasPhone: true}
}

// KindStores bundles one repo per kind behind the IdentityStore port.
func KindStores(db *sql.DB) map[principal.Kind]ports.IdentityStore {
	return map[principal.Kind]ports.IdentityStore{
		principal.KindAdmin:   NewAdminRepo(db),
		principal.KindStaff:   NewStaffRepo(db),
		principal.KindParent:  NewParentRepo(db),
		principal.KindStudent: NewStudentRepo(db),
	}
}

var _ ports.IdentityStore = (*PrincipalRepo)(nil)

// Kind returns the identity kind this repository serves.
func (r *PrincipalRepo) Kind() principal.Kind { return r.kind }

type principalRow struct {
	ID         int64   `db:"id"`
	FirstName  string  `db:"first_name"`
	LastName   string  `db:"last_name"`
	Email      *string `db:"email"`
	Phone      *string `db:"phone"`
	Active     bool    `db:"active"`
	SecretHash string  `db:"secret_hash"`
}

func (r *PrincipalRepo) columns() string {
	if r.hasPhone {
		return `id, first_name, last_name, email, phone, active, secret_hash`
	}
	return `id, first_name, last_name, email, NULL AS phone, active, secret_hash`
}

func (r *PrincipalRepo) toDomain(row principalRow) *principal.Principal {
	p := &principal.Principal{
		Kind:       r.kind,
		ID:         row.ID,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Active:     row.Active,
		SecretHash: row.SecretHash,
	}
	if row.Email != nil {
		p.Email = *row.Email
	}
	if row.Phone != nil {
		p.Phone = *row.Phone
	}
	return p
}

func (r *PrincipalRepo) findOne(ctx context.Context, where string, arg any) (*principal.Principal, error) {
	var row principalRow
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		query := `SELECT ` + r.columns() + ` FROM ` + r.table + ` WHERE ` + where
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()

		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[principalRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("%s lookup: %w", r.table, err)
	}
	return r.toDomain(row), nil
}

// FindByID retrieves a principal by primary key.
func (r *PrincipalRepo) FindByID(ctx context.Context, id int64) (*principal.Principal, error) {
	return r.findOne(ctx, `id = $1`, id)
}

// FindByEmail retrieves a principal by email. Emails are unique within a
// table; NULL emails never match.
func (r *PrincipalRepo) FindByEmail(ctx context.Context, email string) (*principal.Principal, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ports.ErrNotFound
	}
	return r.findOne(ctx, `email = $1`, email)
}

// FindByPhone retrieves a principal by phone. The administrators table has no
// phone column, so the admin repo always misses.
func (r *PrincipalRepo) FindByPhone(ctx context.Context, phone string) (*principal.Principal, error) {
	if !r.hasPhone || strings.TrimSpace(phone) == "" {
		return nil, ports.ErrNotFound
	}
	return r.findOne(ctx, `phone = $1`, phone)
}

// CreatePrincipalParams carries the insertable fields of an identity record.
type CreatePrincipalParams struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Active     bool
	SecretHash string
}

// Create inserts a new identity record. Duplicate email or phone values map
// to ErrDuplicateIdentifier.
func (r *PrincipalRepo) Create(ctx context.Context, params CreatePrincipalParams) (*principal.Principal, error) {
	if params.Email == "" && params.Phone == "" {
		return nil, errors.New("email or phone is required")
	}
	if !r.hasPhone && params.Phone != "" {
		return nil, fmt.Errorf("%s records have no phone field", r.kind)
	}
	if params.SecretHash == "" {
		return nil, errors.New("secret hash is required")
	}

	var row principalRow
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		var (
			query string
			args  []any
		)
		if r.hasPhone {
			query = `
				INSERT INTO ` + r.table + ` (first_name, last_name, email, phone, active, secret_hash)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING ` + r.columns()
			args = []any{params.FirstName, params.LastName, nullable(params.Email), nullable(params.Phone), params.Active, params.SecretHash}
		} else {
			query = `
				INSERT INTO ` + r.table + ` (first_name, last_name, email, active, secret_hash)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING ` + r.columns()
			args = []any{params.FirstName, params.LastName, nullable(params.Email), params.Active, params.SecretHash}
		}

		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[principalRow])
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentifier
		}
		return nil, fmt.Errorf("insert %s: %w", r.table, err)
	}
	return r.toDomain(row), nil
}

// SetActive flips the active flag on a record.
func (r *PrincipalRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		result, err := conn.Exec(ctx, `UPDATE `+r.table+` SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
		if err != nil {
			return fmt.Errorf("update %s: %w", r.table, err)
		}
		if result.RowsAffected() == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// List returns up to limit records ordered by id, for operator tooling.
func (r *PrincipalRepo) List(ctx context.Context, limit int) ([]*principal.Principal, error) {
	if limit <= 0 {
		limit = 100
	}

	var results []*principal.Principal
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+r.columns()+` FROM `+r.table+` ORDER BY id LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[principalRow])
		if err != nil {
			return err
		}
		results = make([]*principal.Principal, len(collected))
		for i := range collected {
			results[i] = r.toDomain(collected[i])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	return results, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

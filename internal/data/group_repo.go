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

// GroupRepo provides database operations for groups and their granted
// permission strings. Only staff and students hold group memberships.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo creates a new group repository.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

var _ ports.GroupStore = (*GroupRepo)(nil)

// Group is a named collection of members and permission grants.
type Group struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// PermissionStringsOf returns the union of "namespace.codename" permission
// strings over every group the principal belongs to.
func (r *GroupRepo) PermissionStringsOf(ctx context.Context, kind principal.Kind, principalID int64) ([]string, error) {
	if kind != principal.KindStaff && kind != principal.KindStudent {
		return nil, fmt.Errorf("%w: %s", ErrKindNotGrouped, kind)
	}

	var perms []string
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT DISTINCT p.namespace || '.' || p.codename
			FROM permissions p
			JOIN group_permissions gp ON gp.permission_id = p.id
			JOIN group_members gm ON gm.group_id = gp.group_id
			WHERE gm.member_kind = $1 AND gm.member_id = $2`,
			string(kind), principalID)
		if err != nil {
			return err
		}
		defer rows.Close()

		perms, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("group permissions: %w", err)
	}
	return perms, nil
}

// AllPermissionStrings returns every permission string known to the system.
func (r *GroupRepo) AllPermissionStrings(ctx context.Context) ([]string, error) {
	var perms []string
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT namespace || '.' || codename FROM permissions ORDER BY 1`)
		if err != nil {
			return err
		}
		defer rows.Close()

		perms, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("all permissions: %w", err)
	}
	return perms, nil
}

// GroupsOf returns the groups a principal belongs to, for operator tooling.
func (r *GroupRepo) GroupsOf(ctx context.Context, kind principal.Kind, principalID int64) ([]Group, error) {
	if kind != principal.KindStaff && kind != principal.KindStudent {
		return nil, fmt.Errorf("%w: %s", ErrKindNotGrouped, kind)
	}

	var groups []Group
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT g.id, g.name
			FROM groups g
			JOIN group_members gm ON gm.group_id = g.id
			WHERE gm.member_kind = $1 AND gm.member_id = $2
			ORDER BY g.name`,
			string(kind), principalID)
		if err != nil {
			return err
		}
		defer rows.Close()

		groups, err = pgx.CollectRows(rows, pgx.RowToStructByName[Group])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("groups of %s %d: %w", kind, principalID, err)
	}
	return groups, nil
}

// EnsureGroup creates a group if it does not exist and returns its id.
func (r *GroupRepo) EnsureGroup(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("group name is required")
	}

	var id int64
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO groups (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("ensure group %q: %w", name, err)
	}
	return id, nil
}

// EnsurePermission creates a permission if it does not exist and returns its id.
func (r *GroupRepo) EnsurePermission(ctx context.Context, namespace, codename string) (int64, error) {
	if namespace == "" || codename == "" {
		return 0, errors.New("namespace and codename are required")
	}

	var id int64
	err := pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO permissions (namespace, codename) VALUES ($1, $2)
			ON CONFLICT (namespace, codename) DO UPDATE SET codename = EXCLUDED.codename
			RETURNING id`, namespace, codename).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("ensure permission %s.%s: %w", namespace, codename, err)
	}
	return id, nil
}

// Grant attaches a permission to a group. Granting twice is a no-op.
func (r *GroupRepo) Grant(ctx context.Context, groupID, permissionID int64) error {
	return pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO group_permissions (group_id, permission_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, groupID, permissionID)
		if err != nil {
			return fmt.Errorf("grant permission: %w", err)
		}
		return nil
	})
}

// AddMember adds a staff or student principal to a group. Adding twice is a
// no-op; other kinds are rejected.
func (r *GroupRepo) AddMember(ctx context.Context, groupID int64, kind principal.Kind, principalID int64) error {
	if kind != principal.KindStaff && kind != principal.KindStudent {
		return fmt.Errorf("%w: %s", ErrKindNotGrouped, kind)
	}
	return pgxutil.WithPgxConn(ctx, r.db, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO group_members (group_id, member_kind, member_id) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`, groupID, string(kind), principalID)
		if err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		return nil
	})
}

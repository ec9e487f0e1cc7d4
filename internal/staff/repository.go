package staff

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipdeck/shipdeck/internal/authz"
	mdshared "github.com/shipdeck/shipdeck/internal/masterdata/shared"
	"github.com/shipdeck/shipdeck/internal/platform/db"
)

// Repository defines persistence operations for staff members and
// their permission grants.
type Repository interface {
	ListMembers(ctx context.Context, panel authz.Panel, filters mdshared.ListFilters) ([]Member, int, error)
	GetMember(ctx context.Context, panel authz.Panel, id int64) (Member, error)
	GrantsForActor(ctx context.Context, panel authz.Panel, actorID int64) ([]authz.Grant, error)
	ReplaceGrants(ctx context.Context, panel authz.Panel, actorID int64, grants []authz.Grant) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListMembers(ctx context.Context, panel authz.Panel, filters mdshared.ListFilters) ([]Member, int, error) {
	query := `SELECT id, panel, name, email, is_active, created_at
		FROM panel_accounts WHERE panel = $1 AND role = $2`
	args := []interface{}{string(panel), panel.StaffRole()}
	argCount := 2

	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR email ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM panel_accounts WHERE panel = $1 AND role = $2`
	countArgs := []interface{}{string(panel), panel.StaffRole()}
	if filters.Search != "" {
		countQuery += ` AND (name ILIKE $3 OR email ILIKE $3)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Panel, &m.Name, &m.Email, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		members = append(members, m)
	}
	return members, total, rows.Err()
}

func (r *repository) GetMember(ctx context.Context, panel authz.Panel, id int64) (Member, error) {
	const query = `SELECT id, panel, name, email, is_active, created_at
		FROM panel_accounts WHERE panel = $1 AND role = $2 AND id = $3`
	var m Member
	err := r.pool.QueryRow(ctx, query, string(panel), panel.StaffRole(), id).Scan(
		&m.ID, &m.Panel, &m.Name, &m.Email, &m.IsActive, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, mdshared.ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}

// GrantsForActor returns the flat grant list assigned to a staff
// account. Used both by the permission screens and as the grant
// source for session refreshes.
func (r *repository) GrantsForActor(ctx context.Context, panel authz.Panel, actorID int64) ([]authz.Grant, error) {
	const query = `SELECT module, panel, action, status FROM staff_permissions
		WHERE account_id = $1 AND panel = $2 ORDER BY module, action`
	rows, err := r.pool.Query(ctx, query, actorID, string(panel))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := []authz.Grant{}
	for rows.Next() {
		var g authz.Grant
		if err := rows.Scan(&g.Module, &g.Panel, &g.Action, &g.Status); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ReplaceGrants swaps the account's grant set wholesale inside one
// transaction. Grants are never patched row by row.
func (r *repository) ReplaceGrants(ctx context.Context, panel authz.Panel, actorID int64, grants []authz.Grant) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM staff_permissions WHERE account_id = $1 AND panel = $2`,
			actorID, string(panel)); err != nil {
			return fmt.Errorf("staff: clear grants: %w", err)
		}
		for _, g := range grants {
			if _, err := tx.Exec(ctx,
				`INSERT INTO staff_permissions (account_id, panel, module, action, status)
				 VALUES ($1, $2, $3, $4, $5)`,
				actorID, string(panel), g.Module, g.Action, g.Status); err != nil {
				return fmt.Errorf("staff: insert grant: %w", err)
			}
		}
		return nil
	})
}

var _ Repository = (*repository)(nil)

package pincodes

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipdeck/shipdeck/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters, trashed bool) ([]Pincode, int, error)
	Get(ctx context.Context, id int64) (Pincode, error)
	Create(ctx context.Context, pincode Pincode) (Pincode, error)
	Update(ctx context.Context, id int64, pincode Pincode) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	PermanentDelete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters, trashed bool) ([]Pincode, int, error) {
	deletedClause := ` AND deleted_at IS NULL`
	if trashed {
		deletedClause = ` AND deleted_at IS NOT NULL`
	}

	where := ``
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND code ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CityID != nil {
		argCount++
		where += ` AND city_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.CityID)
	}

	countQuery := `SELECT COUNT(*) FROM pincodes WHERE 1=1` + deletedClause + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, code, city_id, cod_available, deleted_at FROM pincodes WHERE 1=1` +
		deletedClause + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)

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

	var pincodes []Pincode
	for rows.Next() {
		var p Pincode
		if err := rows.Scan(&p.ID, &p.Code, &p.CityID, &p.CODAvailable, &p.DeletedAt); err != nil {
			return nil, 0, err
		}
		pincodes = append(pincodes, p)
	}
	return pincodes, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Pincode, error) {
	const query = `SELECT id, code, city_id, cod_available, deleted_at FROM pincodes WHERE id = $1`
	var p Pincode
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Code, &p.CityID, &p.CODAvailable, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Pincode{}, shared.ErrNotFound
		}
		return Pincode{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, pincode Pincode) (Pincode, error) {
	const query = `INSERT INTO pincodes (code, city_id, cod_available, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id`
	err := r.pool.QueryRow(ctx, query, pincode.Code, pincode.CityID, pincode.CODAvailable).Scan(&pincode.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Pincode{}, shared.ErrDuplicate
		}
		return Pincode{}, err
	}
	return pincode, nil
}

func (r *repository) Update(ctx context.Context, id int64, pincode Pincode) error {
	const query = `UPDATE pincodes SET code = $1, city_id = $2, cod_available = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, pincode.Code, pincode.CityID, pincode.CODAvailable, id)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pincodes SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pincodes SET deleted_at = NULL, updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) PermanentDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM pincodes WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "id":
		return "id " + dir
	case "city_id":
		return "city_id " + dir
	default:
		return "code " + dir
	}
}

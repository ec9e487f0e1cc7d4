package cities

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
	List(ctx context.Context, filters shared.ListFilters, trashed bool) ([]City, int, error)
	Get(ctx context.Context, id int64) (City, error)
	Create(ctx context.Context, city City) (City, error)
	Update(ctx context.Context, id int64, city City) error
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

func (r *repository) List(ctx context.Context, filters shared.ListFilters, trashed bool) ([]City, int, error) {
	deletedClause := ` AND deleted_at IS NULL`
	if trashed {
		deletedClause = ` AND deleted_at IS NOT NULL`
	}

	query := `SELECT id, name, state, deleted_at FROM cities WHERE 1=1` + deletedClause
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR state ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM cities WHERE 1=1` + deletedClause
	countArgs := []interface{}{}
	if filters.Search != "" {
		countQuery += ` AND (name ILIKE $1 OR state ILIKE $1)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)

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

	var cities []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name, &c.State, &c.DeletedAt); err != nil {
			return nil, 0, err
		}
		cities = append(cities, c)
	}
	return cities, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (City, error) {
	var c City
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, state, deleted_at FROM cities WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.State, &c.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return City{}, shared.ErrNotFound
		}
		return City{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, city City) (City, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cities (name, state, created_at, updated_at)
		 VALUES ($1, $2, NOW(), NOW()) RETURNING id`,
		city.Name, city.State).Scan(&city.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return City{}, shared.ErrDuplicate
		}
		return City{}, err
	}
	return city, nil
}

func (r *repository) Update(ctx context.Context, id int64, city City) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cities SET name = $1, state = $2, updated_at = NOW()
		 WHERE id = $3 AND deleted_at IS NULL`,
		city.Name, city.State, id)
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
		`UPDATE cities SET deleted_at = NOW(), updated_at = NOW()
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
		`UPDATE cities SET deleted_at = NULL, updated_at = NOW()
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
		`DELETE FROM cities WHERE id = $1 AND deleted_at IS NOT NULL`, id)
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
	case "state":
		return "state " + dir + ", name ASC"
	case "id":
		return "id " + dir
	default:
		return "name " + dir
	}
}

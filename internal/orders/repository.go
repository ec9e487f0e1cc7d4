package orders

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipdeck/shipdeck/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, scope Scope, status string, filters shared.ListFilters) ([]Order, int, error)
	Get(ctx context.Context, scope Scope, id int64) (Order, error)
	UpdateStatus(ctx context.Context, scope Scope, id int64, status string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, number, supplier_id, dropshipper_id, status, total, created_at, updated_at`

func (r *repository) List(ctx context.Context, scope Scope, status string, filters shared.ListFilters) ([]Order, int, error) {
	where := ``
	args := []interface{}{}
	argCount := 0

	if scope.SupplierID > 0 {
		argCount++
		where += ` AND supplier_id = $` + strconv.Itoa(argCount)
		args = append(args, scope.SupplierID)
	}
	if status != "" {
		argCount++
		where += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, status)
	}
	if filters.Search != "" {
		argCount++
		where += ` AND number ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM orders WHERE 1=1` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1` + where +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)

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

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Number, &o.SupplierID, &o.DropshipperID,
			&o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, scope Scope, id int64) (Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	args := []interface{}{id}
	if scope.SupplierID > 0 {
		query += ` AND supplier_id = $2`
		args = append(args, scope.SupplierID)
	}

	var o Order
	err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.Number, &o.SupplierID,
		&o.DropshipperID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, shared.ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *repository) UpdateStatus(ctx context.Context, scope Scope, id int64, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	args := []interface{}{status, id}
	if scope.SupplierID > 0 {
		query += ` AND supplier_id = $3`
		args = append(args, scope.SupplierID)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	column := "created_at"
	switch sortBy {
	case "number":
		column = "number"
	case "status":
		column = "status"
	case "total":
		column = "total"
	}
	dir := "DESC"
	if sortDir == "asc" {
		dir = "ASC"
	}
	return column + " " + dir
}

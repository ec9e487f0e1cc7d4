// Package dashboard serves the landing-screen summary each panel
// renders after login.
package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/shipdeck/shipdeck/internal/authz"
)

type Summary struct {
	Categories  int `json:"categories"`
	Cities      int `json:"cities"`
	Warehouses  int `json:"warehouses"`
	Pincodes    int `json:"pincodes"`
	StaffActive int `json:"staff_active"`
}

type Repository interface {
	CountActive(ctx context.Context, table string) (int, error)
	CountActiveStaff(ctx context.Context, panel authz.Panel) (int, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

// countTables is the closed set CountActive accepts; table names are
// interpolated into SQL and must never come from request input.
var countTables = map[string]struct{}{
	"categories": {},
	"cities":     {},
	"warehouses": {},
	"pincodes":   {},
}

func (r *PGRepository) CountActive(ctx context.Context, table string) (int, error) {
	if _, ok := countTables[table]; !ok {
		return 0, fmt.Errorf("dashboard: unknown table %q", table)
	}
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table+` WHERE deleted_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("dashboard: count %s: %w", table, err)
	}
	return n, nil
}

func (r *PGRepository) CountActiveStaff(ctx context.Context, panel authz.Panel) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM panel_accounts WHERE panel = $1 AND role = $2 AND is_active`,
		string(panel), panel.StaffRole()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("dashboard: count staff: %w", err)
	}
	return n, nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary fans the count queries out concurrently; one failure fails
// the whole summary.
func (s *Service) Summary(ctx context.Context, panel authz.Panel) (Summary, error) {
	var summary Summary

	g, ctx := errgroup.WithContext(ctx)

	count := func(table string, dst *int) {
		g.Go(func() error {
			n, err := s.repo.CountActive(ctx, table)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count("categories", &summary.Categories)
	count("cities", &summary.Cities)
	count("warehouses", &summary.Warehouses)
	count("pincodes", &summary.Pincodes)

	g.Go(func() error {
		n, err := s.repo.CountActiveStaff(ctx, panel)
		if err != nil {
			return err
		}
		summary.StaffActive = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

package warehouses

import (
	"context"
	"fmt"
	"strings"

	"github.com/shipdeck/shipdeck/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int, error) {
	return s.repo.List(ctx, filters, false)
}

func (s *Service) ListTrashed(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int, error) {
	return s.repo.List(ctx, filters, true)
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, warehouse Warehouse) (Warehouse, error) {
	if err := validate(&warehouse); err != nil {
		return Warehouse{}, err
	}
	return s.repo.Create(ctx, warehouse)
}

func (s *Service) Update(ctx context.Context, id int64, warehouse Warehouse) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := validate(&warehouse); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, warehouse)
}

func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) Restore(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Restore(ctx, id)
}

func (s *Service) PermanentDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.PermanentDelete(ctx, id)
}

func validate(warehouse *Warehouse) error {
	warehouse.Name = strings.TrimSpace(warehouse.Name)
	warehouse.Address = strings.TrimSpace(warehouse.Address)
	warehouse.ContactPhone = strings.TrimSpace(warehouse.ContactPhone)
	if warehouse.Name == "" {
		return fmt.Errorf("%w: name", shared.ErrRequiredField)
	}
	if warehouse.Address == "" {
		return fmt.Errorf("%w: address", shared.ErrRequiredField)
	}
	if warehouse.CityID <= 0 {
		return fmt.Errorf("%w: city_id", shared.ErrRequiredField)
	}
	warehouse.Name = shared.TitleCase(warehouse.Name)
	return nil
}

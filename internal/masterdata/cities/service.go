package cities

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]City, int, error) {
	return s.repo.List(ctx, filters, false)
}

func (s *Service) ListTrashed(ctx context.Context, filters shared.ListFilters) ([]City, int, error) {
	return s.repo.List(ctx, filters, true)
}

func (s *Service) Get(ctx context.Context, id int64) (City, error) {
	if id <= 0 {
		return City{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, city City) (City, error) {
	if err := validate(&city); err != nil {
		return City{}, err
	}
	return s.repo.Create(ctx, city)
}

func (s *Service) Update(ctx context.Context, id int64, city City) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := validate(&city); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, city)
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

func validate(c *City) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: city name", shared.ErrRequiredField)
	}
	c.Name = shared.TitleCase(c.Name)
	c.State = shared.TitleCase(strings.TrimSpace(c.State))
	return nil
}

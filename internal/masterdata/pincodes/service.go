package pincodes

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Pincode, int, error) {
	return s.repo.List(ctx, filters, false)
}

func (s *Service) ListTrashed(ctx context.Context, filters shared.ListFilters) ([]Pincode, int, error) {
	return s.repo.List(ctx, filters, true)
}

func (s *Service) Get(ctx context.Context, id int64) (Pincode, error) {
	if id <= 0 {
		return Pincode{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, pincode Pincode) (Pincode, error) {
	if err := validate(&pincode); err != nil {
		return Pincode{}, err
	}
	return s.repo.Create(ctx, pincode)
}

func (s *Service) Update(ctx context.Context, id int64, pincode Pincode) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := validate(&pincode); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, pincode)
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

func validate(pincode *Pincode) error {
	pincode.Code = strings.TrimSpace(pincode.Code)
	if pincode.Code == "" {
		return fmt.Errorf("%w: code", shared.ErrRequiredField)
	}
	for _, r := range pincode.Code {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: code must be numeric", shared.ErrValidation)
		}
	}
	if pincode.CityID <= 0 {
		return fmt.Errorf("%w: city_id", shared.ErrRequiredField)
	}
	return nil
}

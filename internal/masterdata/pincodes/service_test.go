package pincodes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdeck/shipdeck/internal/masterdata/shared"
)

type stubRepo struct {
	byID      map[int64]Pincode
	duplicate bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[int64]Pincode{}}
}

func (s *stubRepo) List(ctx context.Context, filters shared.ListFilters, trashed bool) ([]Pincode, int, error) {
	var out []Pincode
	for _, p := range s.byID {
		if (p.DeletedAt != nil) == trashed {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (Pincode, error) {
	p, ok := s.byID[id]
	if !ok {
		return Pincode{}, shared.ErrNotFound
	}
	return p, nil
}

func (s *stubRepo) Create(ctx context.Context, pincode Pincode) (Pincode, error) {
	if s.duplicate {
		return Pincode{}, shared.ErrDuplicate
	}
	pincode.ID = int64(len(s.byID) + 1)
	s.byID[pincode.ID] = pincode
	return pincode, nil
}

func (s *stubRepo) Update(ctx context.Context, id int64, pincode Pincode) error {
	if _, ok := s.byID[id]; !ok {
		return shared.ErrNotFound
	}
	pincode.ID = id
	s.byID[id] = pincode
	return nil
}

func (s *stubRepo) SoftDelete(ctx context.Context, id int64) error      { return nil }
func (s *stubRepo) Restore(ctx context.Context, id int64) error         { return nil }
func (s *stubRepo) PermanentDelete(ctx context.Context, id int64) error { return nil }

func TestCreateTrimsCode(t *testing.T) {
	svc := NewService(newStubRepo())

	created, err := svc.Create(context.Background(), Pincode{Code: " 400001 ", CityID: 3})
	require.NoError(t, err)
	assert.Equal(t, "400001", created.Code)
}

func TestCreateRejectsNonNumericCode(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Create(context.Background(), Pincode{Code: "40zz01", CityID: 3})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRequiresCity(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Create(context.Background(), Pincode{Code: "400001"})
	assert.ErrorIs(t, err, shared.ErrRequiredField)
}

func TestUpdateValidatesBeforeWrite(t *testing.T) {
	repo := newStubRepo()
	repo.byID[7] = Pincode{ID: 7, Code: "110011", CityID: 1}
	svc := NewService(repo)

	err := svc.Update(context.Background(), 7, Pincode{Code: "", CityID: 1})
	assert.ErrorIs(t, err, shared.ErrRequiredField)
	assert.Equal(t, "110011", repo.byID[7].Code)
}

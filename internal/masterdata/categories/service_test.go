package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdeck/shipdeck/internal/masterdata/shared"
)

type stubRepo struct {
	byID      map[int64]Category
	created   []Category
	deleted   []int64
	restored  []int64
	purged    []int64
	duplicate bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[int64]Category{}}
}

func (s *stubRepo) List(ctx context.Context, filters shared.ListFilters, trashed bool) ([]Category, int, error) {
	var out []Category
	for _, c := range s.byID {
		if (c.DeletedAt != nil) == trashed {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (Category, error) {
	c, ok := s.byID[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	return c, nil
}

func (s *stubRepo) Create(ctx context.Context, category Category) (Category, error) {
	if s.duplicate {
		return Category{}, shared.ErrDuplicate
	}
	category.ID = int64(len(s.byID) + 1)
	s.byID[category.ID] = category
	s.created = append(s.created, category)
	return category, nil
}

func (s *stubRepo) Update(ctx context.Context, id int64, category Category) error {
	if _, ok := s.byID[id]; !ok {
		return shared.ErrNotFound
	}
	category.ID = id
	s.byID[id] = category
	return nil
}

func (s *stubRepo) SoftDelete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRepo) Restore(ctx context.Context, id int64) error {
	s.restored = append(s.restored, id)
	return nil
}

func (s *stubRepo) PermanentDelete(ctx context.Context, id int64) error {
	s.purged = append(s.purged, id)
	return nil
}

func TestCreateNormalizesName(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Category{Name: "  home appliances "})
	require.NoError(t, err)
	assert.Equal(t, "Home Appliances", created.Name)
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Create(context.Background(), Category{Name: "   "})
	assert.ErrorIs(t, err, shared.ErrRequiredField)
}

func TestCreateDuplicate(t *testing.T) {
	repo := newStubRepo()
	repo.duplicate = true
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), Category{Name: "Toys"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestLifecycleRejectsInvalidID(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	_, err := svc.Get(ctx, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
	assert.ErrorIs(t, svc.SoftDelete(ctx, -1), shared.ErrInvalidID)
	assert.ErrorIs(t, svc.Restore(ctx, 0), shared.ErrInvalidID)
	assert.ErrorIs(t, svc.PermanentDelete(ctx, 0), shared.ErrInvalidID)
}

func TestSoftDeleteRestoreFlow(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.SoftDelete(ctx, 4))
	require.NoError(t, svc.Restore(ctx, 4))
	require.NoError(t, svc.PermanentDelete(ctx, 4))

	assert.Equal(t, []int64{4}, repo.deleted)
	assert.Equal(t, []int64{4}, repo.restored)
	assert.Equal(t, []int64{4}, repo.purged)
}

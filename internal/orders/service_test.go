package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdshared "github.com/shipdeck/shipdeck/internal/masterdata/shared"
)

type stubRepo struct {
	byID    map[int64]Order
	updated map[int64]string
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[int64]Order{}, updated: map[int64]string{}}
}

func (s *stubRepo) List(ctx context.Context, scope Scope, status string, filters mdshared.ListFilters) ([]Order, int, error) {
	var out []Order
	for _, o := range s.byID {
		if scope.SupplierID > 0 && o.SupplierID != scope.SupplierID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (s *stubRepo) Get(ctx context.Context, scope Scope, id int64) (Order, error) {
	o, ok := s.byID[id]
	if !ok || (scope.SupplierID > 0 && o.SupplierID != scope.SupplierID) {
		return Order{}, mdshared.ErrNotFound
	}
	return o, nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, scope Scope, id int64, status string) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	s.updated[id] = status
	return nil
}

func TestUpdateStatusMovesOpenOrder(t *testing.T) {
	repo := newStubRepo()
	repo.byID[1] = Order{ID: 1, SupplierID: 10, Status: StatusConfirmed}
	svc := NewService(repo, nil, nil)

	order, err := svc.UpdateStatus(context.Background(), Scope{}, "admin", 1, 1, StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, order.Status)
	assert.Equal(t, StatusShipped, repo.updated[1])
}

func TestUpdateStatusRejectsClosedOrder(t *testing.T) {
	repo := newStubRepo()
	repo.byID[1] = Order{ID: 1, Status: StatusDelivered}
	svc := NewService(repo, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), Scope{}, "admin", 1, 1, StatusPending)
	assert.ErrorIs(t, err, mdshared.ErrValidation)
	assert.Empty(t, repo.updated)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newStubRepo()
	repo.byID[1] = Order{ID: 1, Status: StatusPending}
	svc := NewService(repo, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), Scope{}, "admin", 1, 1, "returned")
	assert.ErrorIs(t, err, mdshared.ErrValidation)
}

func TestSupplierScopeHidesOtherSuppliers(t *testing.T) {
	repo := newStubRepo()
	repo.byID[1] = Order{ID: 1, SupplierID: 10, Status: StatusPending}
	repo.byID[2] = Order{ID: 2, SupplierID: 20, Status: StatusPending}
	svc := NewService(repo, nil, nil)

	items, total, err := svc.List(context.Background(), Scope{SupplierID: 10}, "", mdshared.ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)

	_, err = svc.Get(context.Background(), Scope{SupplierID: 10}, 2)
	assert.ErrorIs(t, err, mdshared.ErrNotFound)
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)

	_, _, err := svc.List(context.Background(), Scope{}, "archived", mdshared.ListFilters{})
	assert.ErrorIs(t, err, mdshared.ErrValidation)
}

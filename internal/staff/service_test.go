package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdeck/shipdeck/internal/authz"
	mdshared "github.com/shipdeck/shipdeck/internal/masterdata/shared"
)

type stubRepo struct {
	members map[int64]Member
	grants  map[int64][]authz.Grant
}

func newStubRepo() *stubRepo {
	return &stubRepo{members: map[int64]Member{}, grants: map[int64][]authz.Grant{}}
}

func (s *stubRepo) ListMembers(ctx context.Context, panel authz.Panel, filters mdshared.ListFilters) ([]Member, int, error) {
	var out []Member
	for _, m := range s.members {
		out = append(out, m)
	}
	return out, len(out), nil
}

func (s *stubRepo) GetMember(ctx context.Context, panel authz.Panel, id int64) (Member, error) {
	m, ok := s.members[id]
	if !ok {
		return Member{}, mdshared.ErrNotFound
	}
	return m, nil
}

func (s *stubRepo) GrantsForActor(ctx context.Context, panel authz.Panel, actorID int64) ([]authz.Grant, error) {
	grants := s.grants[actorID]
	if grants == nil {
		grants = []authz.Grant{}
	}
	return grants, nil
}

func (s *stubRepo) ReplaceGrants(ctx context.Context, panel authz.Panel, actorID int64, grants []authz.Grant) error {
	s.grants[actorID] = grants
	return nil
}

type stubResync struct {
	calls []int64
}

func (s *stubResync) EnqueueGrantResync(ctx context.Context, panel authz.Panel, accountID int64) error {
	s.calls = append(s.calls, accountID)
	return nil
}

func TestUpdateGrantsReplacesGlobalSlice(t *testing.T) {
	repo := newStubRepo()
	repo.members[7] = Member{ID: 7, Panel: "admin"}
	repo.grants[7] = []authz.Grant{
		{Module: authz.ModuleCity, Panel: "admin", Action: authz.ActionListing, Status: true},
	}
	resync := &stubResync{}
	svc := NewService(repo, nil, resync, nil)

	updated, err := svc.UpdateGrants(context.Background(), authz.PanelAdmin, 1, 7, []authz.Grant{
		{Module: authz.ModuleCategory, Action: authz.ActionCreate, Status: true},
	})
	require.NoError(t, err)

	require.Len(t, updated, 1)
	assert.Equal(t, authz.ModuleCategory, updated[0].Module)
	assert.Equal(t, "admin", updated[0].Panel)
	assert.Equal(t, []int64{7}, resync.calls)
}

func TestUpdateGrantsRejectsUnknownPair(t *testing.T) {
	repo := newStubRepo()
	repo.members[7] = Member{ID: 7, Panel: "admin"}
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.UpdateGrants(context.Background(), authz.PanelAdmin, 1, 7, []authz.Grant{
		{Module: "category", Action: authz.ActionCreate, Status: true},
	})
	assert.ErrorIs(t, err, mdshared.ErrValidation)
	assert.Empty(t, repo.grants[7])
}

func TestUpdateGrantsUnknownMember(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil, nil)

	_, err := svc.UpdateGrants(context.Background(), authz.PanelAdmin, 1, 404, nil)
	assert.ErrorIs(t, err, mdshared.ErrNotFound)
}

// The Order Permission screen has its own slice: replacing it keeps
// the Global Permission grants intact, and vice versa.
func TestUpdateOrderGrantsPreservesGlobalSlice(t *testing.T) {
	repo := newStubRepo()
	repo.members[7] = Member{ID: 7, Panel: "admin"}
	repo.grants[7] = []authz.Grant{
		{Module: authz.ModuleCategory, Panel: "admin", Action: authz.ActionListing, Status: true},
	}
	svc := NewService(repo, nil, nil, nil)

	updated, err := svc.UpdateOrderGrants(context.Background(), authz.PanelAdmin, 1, 7, []authz.Grant{
		{Module: authz.ModuleOrder, Action: authz.ActionListing, Status: true},
		{Module: authz.ModuleOrder, Action: authz.ActionUpdate, Status: true},
	})
	require.NoError(t, err)

	require.Len(t, updated, 2)
	for _, g := range updated {
		assert.Equal(t, authz.ModuleOrder, g.Module)
	}
	require.Len(t, repo.grants[7], 3)

	stored, err := svc.Grants(context.Background(), authz.PanelAdmin, 7)
	require.NoError(t, err)
	assert.Contains(t, stored, authz.Grant{
		Module: authz.ModuleCategory, Panel: "admin", Action: authz.ActionListing, Status: true,
	})
}

func TestUpdateOrderGrantsRejectsGlobalModule(t *testing.T) {
	repo := newStubRepo()
	repo.members[7] = Member{ID: 7, Panel: "admin"}
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.UpdateOrderGrants(context.Background(), authz.PanelAdmin, 1, 7, []authz.Grant{
		{Module: authz.ModuleCategory, Action: authz.ActionListing, Status: true},
	})
	assert.ErrorIs(t, err, mdshared.ErrValidation)
}

func TestUpdateGrantsLeavesOrderSliceAlone(t *testing.T) {
	repo := newStubRepo()
	repo.members[7] = Member{ID: 7, Panel: "admin"}
	repo.grants[7] = []authz.Grant{
		{Module: authz.ModuleOrder, Panel: "admin", Action: authz.ActionView, Status: true},
	}
	svc := NewService(repo, nil, nil, nil)

	updated, err := svc.UpdateGrants(context.Background(), authz.PanelAdmin, 1, 7, []authz.Grant{
		{Module: authz.ModuleStaff, Action: authz.ActionListing, Status: true},
	})
	require.NoError(t, err)

	require.Len(t, updated, 1)
	assert.Equal(t, authz.ModuleStaff, updated[0].Module)

	orderSlice, err := svc.OrderGrants(context.Background(), authz.PanelAdmin, 7)
	require.NoError(t, err)
	require.Len(t, orderSlice, 1)
	assert.Equal(t, authz.ActionView, orderSlice[0].Action)
}

func TestUpdateGrantsDropsMalformedEntries(t *testing.T) {
	repo := newStubRepo()
	repo.members[7] = Member{ID: 7, Panel: "admin"}
	svc := NewService(repo, nil, nil, nil)

	updated, err := svc.UpdateGrants(context.Background(), authz.PanelAdmin, 1, 7, []authz.Grant{
		{Module: "", Action: authz.ActionCreate, Status: true},
		{Module: authz.ModuleStaff, Action: authz.ActionListing, Status: true},
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, authz.ModuleStaff, updated[0].Module)
}

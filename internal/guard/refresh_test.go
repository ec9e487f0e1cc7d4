package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/guard"
	"github.com/shipdeck/shipdeck/internal/session"
)

type staticSource struct {
	grants []authz.Grant
	calls  int
}

func (s *staticSource) GrantsForActor(ctx context.Context, panel authz.Panel, actorID int64) ([]authz.Grant, error) {
	s.calls++
	return s.grants, nil
}

func staffSession() session.Session {
	return session.Session{
		Panel:  authz.PanelAdmin,
		Actor:  session.Actor{ID: 9, Role: authz.RoleAdminStaff},
		Token:  "tok",
		Grants: []authz.Grant{{Module: "Category", Action: "Listing", Status: true}},
	}
}

func TestRefreshReplacesStaffGrants(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	slot := saveSession(t, store, staffSession())

	fresh := []authz.Grant{
		{Module: "City", Action: "Create", Status: true},
		{Module: "City", Action: "Update", Status: false},
	}
	r := guard.NewRefresher(store, &staticSource{grants: fresh}, nil)

	sess, err := r.Refresh(ctx, slot, staffSession())
	require.NoError(t, err)
	assert.Equal(t, fresh, sess.Grants)

	stored, err := store.Load(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, fresh, stored.Grants)
}

func TestRefreshSkipsPrimaryRoles(t *testing.T) {
	store := newTestStore(t)
	source := &staticSource{grants: []authz.Grant{{Module: "City", Action: "Create", Status: true}}}
	r := guard.NewRefresher(store, source, nil)

	sess := staffSession()
	sess.Actor.Role = "admin"
	slot := saveSession(t, store, sess)

	got, err := r.Refresh(context.Background(), slot, sess)
	require.NoError(t, err)
	assert.Equal(t, sess.Grants, got.Grants)
	assert.Zero(t, source.calls, "primary roles never consult the grant source")
}

func TestRefreshFailureKeepsPreviousCache(t *testing.T) {
	store := newTestStore(t)
	slot := saveSession(t, store, staffSession())

	r := guard.NewRefresher(store, failingSource{}, nil)
	sess, err := r.Refresh(context.Background(), slot, staffSession())
	assert.ErrorIs(t, err, guard.ErrGrantFetchFailed)
	assert.Equal(t, staffSession().Grants, sess.Grants)

	stored, loadErr := store.Load(context.Background(), slot)
	require.NoError(t, loadErr)
	assert.Equal(t, staffSession().Grants, stored.Grants)
}

type sluggishSource struct {
	grants []authz.Grant
	block  chan struct{}
}

func (s *sluggishSource) GrantsForActor(ctx context.Context, panel authz.Panel, actorID int64) ([]authz.Grant, error) {
	<-s.block
	// Deliberately ignores cancellation to simulate a late response.
	return s.grants, nil
}

// A response that lands after the caller went away is discarded; the
// shared store must not see the stale write.
func TestRefreshDiscardsResultAfterCancellation(t *testing.T) {
	store := newTestStore(t)
	slot := saveSession(t, store, staffSession())

	source := &sluggishSource{
		grants: []authz.Grant{{Module: "Pincode", Action: "Create", Status: true}},
		block:  make(chan struct{}),
	}
	r := guard.NewRefresher(store, source, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.Refresh(ctx, slot, staffSession())
		done <- err
	}()

	cancel()
	close(source.block)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not return after cancellation")
	}

	stored, err := store.Load(context.Background(), slot)
	require.NoError(t, err)
	assert.Equal(t, staffSession().Grants, stored.Grants)
}

func TestRefreshSanitizesSourceGrants(t *testing.T) {
	store := newTestStore(t)
	slot := saveSession(t, store, staffSession())

	source := &staticSource{grants: []authz.Grant{
		{Module: "City", Action: "Create", Status: true},
		{Module: "", Action: "Update", Status: true},
	}}
	r := guard.NewRefresher(store, source, nil)

	sess, err := r.Refresh(context.Background(), slot, staffSession())
	require.NoError(t, err)
	assert.Equal(t, []authz.Grant{{Module: "City", Action: "Create", Status: true}}, sess.Grants)
}

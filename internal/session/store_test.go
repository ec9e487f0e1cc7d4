package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/session"
)

func newStore(t *testing.T) (*session.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return session.NewStore(client, "shipdeck_session", time.Hour, false), mr
}

func sampleSession() session.Session {
	return session.Session{
		Panel: authz.PanelAdmin,
		Actor: session.Actor{
			ID:    7,
			Name:  "Asha",
			Email: "asha@shipdeck.test",
			Role:  authz.RoleAdminStaff,
		},
		Token:           "tok-123",
		AuthenticatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Grants: []authz.Grant{
			{Module: "Category", Panel: "admin", Action: "Create", Status: true},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	slot := store.NewSlotID()
	want := sampleSession()
	require.NoError(t, store.Save(ctx, slot, want))

	got, err := store.Load(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreLoadAbsent(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Load(context.Background(), "missing-slot")
	assert.ErrorIs(t, err, session.ErrSessionAbsent)

	_, err = store.Load(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrSessionAbsent)
}

func TestStoreLoadMalformed(t *testing.T) {
	store, mr := newStore(t)
	mr.Set("session:bad-slot", "{not json")

	_, err := store.Load(context.Background(), "bad-slot")
	assert.ErrorIs(t, err, session.ErrSessionAbsent)

	// The corrupt blob is wiped, not left to shadow a later login.
	assert.False(t, mr.Exists("session:bad-slot"))
}

func TestStoreReplaceGrantsWholesale(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	slot := store.NewSlotID()
	require.NoError(t, store.Save(ctx, slot, sampleSession()))

	next := []authz.Grant{
		{Module: "City", Panel: "admin", Action: "Update", Status: true},
		{Module: "City", Panel: "admin", Action: "Restore", Status: false},
	}
	require.NoError(t, store.ReplaceGrants(ctx, slot, next))

	got, err := store.Load(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, next, got.Grants)

	// A nil replacement still yields an empty, non-nil list.
	require.NoError(t, store.ReplaceGrants(ctx, slot, nil))
	got, err = store.Load(ctx, slot)
	require.NoError(t, err)
	assert.NotNil(t, got.Grants)
	assert.Empty(t, got.Grants)
}

func TestStoreReplaceGrantsAbsentSlot(t *testing.T) {
	store, _ := newStore(t)

	err := store.ReplaceGrants(context.Background(), "missing", []authz.Grant{})
	assert.ErrorIs(t, err, session.ErrSessionAbsent)
}

func TestStoreClearIdempotent(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	slot := store.NewSlotID()
	require.NoError(t, store.Save(ctx, slot, sampleSession()))

	require.NoError(t, store.Clear(ctx, slot))
	_, err := store.Load(ctx, slot)
	assert.ErrorIs(t, err, session.ErrSessionAbsent)

	// Second clear is a no-op, never an error.
	require.NoError(t, store.Clear(ctx, slot))
	require.NoError(t, store.Clear(ctx, ""))
}

func TestSessionIsStaff(t *testing.T) {
	sess := sampleSession()
	assert.True(t, sess.IsStaff())

	sess.Actor.Role = "admin"
	assert.False(t, sess.IsStaff())

	// Supplier staff marker on the admin panel is not staff there.
	sess.Actor.Role = authz.RoleSupplierStaff
	assert.False(t, sess.IsStaff())
}

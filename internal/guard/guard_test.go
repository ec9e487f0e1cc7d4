package guard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/guard"
	"github.com/shipdeck/shipdeck/internal/platform/httpx"
	"github.com/shipdeck/shipdeck/internal/session"
	_ "github.com/shipdeck/shipdeck/testing"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return session.NewStore(client, "shipdeck_session", time.Hour, false)
}

func saveSession(t *testing.T, store *session.Store, sess session.Session) string {
	t.Helper()
	slot := store.NewSlotID()
	require.NoError(t, store.Save(context.Background(), slot, sess))
	return slot
}

func protectedRequest(slot string, store *session.Store) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/categories", nil)
	if slot != "" {
		req.AddCookie(&http.Cookie{Name: store.CookieName(), Value: slot})
	}
	return req
}

func runGuard(g guard.Guard, req *http.Request) (*httptest.ResponseRecorder, *session.State) {
	var captured *session.State
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = session.StateFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	res := httptest.NewRecorder()
	g.Protect(next).ServeHTTP(res, req)
	return res, captured
}

func TestGuardPassesValidSession(t *testing.T) {
	store := newTestStore(t)
	g := guard.Guard{Panel: authz.PanelAdmin, Store: store}

	slot := saveSession(t, store, session.Session{
		Panel:           authz.PanelAdmin,
		Actor:           session.Actor{ID: 1, Role: "admin"},
		Token:           "tok",
		AuthenticatedAt: time.Now().UTC(),
	})

	res, st := runGuard(g, protectedRequest(slot, store))
	assert.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, st)
	assert.Equal(t, slot, st.SlotID)
	assert.Equal(t, authz.PanelAdmin, st.Session.Panel)
}

func TestGuardRedirectsWithoutSession(t *testing.T) {
	store := newTestStore(t)
	g := guard.Guard{Panel: authz.PanelAdmin, Store: store}

	res, st := runGuard(g, protectedRequest("", store))
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/admin/login", res.Header().Get("Location"))
	assert.Nil(t, st)
}

// API clients asking for JSON get a problem body naming the login
// route instead of a redirect they would follow into an HTML page.
func TestGuardAnswersJSONClientsWithProblemBody(t *testing.T) {
	store := newTestStore(t)
	g := guard.Guard{Panel: authz.PanelAdmin, Store: store}

	req := protectedRequest("", store)
	req.Header.Set("Accept", "application/json")

	res, st := runGuard(g, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "/admin/login", res.Header().Get("Location"))
	assert.Nil(t, st)

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &problem))
	assert.Equal(t, "/admin/login", problem.Location)
	assert.Equal(t, http.StatusUnauthorized, problem.Status)
}

// A supplier session hitting the admin guard is cleared entirely:
// the slot holds session and grants together, so one delete removes
// both.
func TestGuardClearsSlotOnPanelMismatch(t *testing.T) {
	store := newTestStore(t)
	g := guard.Guard{Panel: authz.PanelAdmin, Store: store}

	slot := saveSession(t, store, session.Session{
		Panel: authz.PanelSupplier,
		Actor: session.Actor{ID: 2, Role: authz.RoleSupplierStaff},
		Token: "tok",
		Grants: []authz.Grant{
			{Module: "Warehouse", Action: "Create", Status: true},
		},
	})

	res, _ := runGuard(g, protectedRequest(slot, store))
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/admin/login", res.Header().Get("Location"))

	_, err := store.Load(context.Background(), slot)
	assert.ErrorIs(t, err, session.ErrSessionAbsent)
}

func TestGuardClearsSlotOnMissingToken(t *testing.T) {
	store := newTestStore(t)
	g := guard.Guard{Panel: authz.PanelAdmin, Store: store}

	slot := saveSession(t, store, session.Session{
		Panel: authz.PanelAdmin,
		Actor: session.Actor{ID: 3, Role: "admin"},
	})

	res, _ := runGuard(g, protectedRequest(slot, store))
	assert.Equal(t, http.StatusSeeOther, res.Code)

	_, err := store.Load(context.Background(), slot)
	assert.ErrorIs(t, err, session.ErrSessionAbsent)
}

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyToken(ctx context.Context, sess session.Session) error {
	return errors.New("revoked")
}

func TestGuardExternalVerifierFailure(t *testing.T) {
	store := newTestStore(t)
	g := guard.Guard{Panel: authz.PanelAdmin, Store: store, Verifier: rejectingVerifier{}}

	slot := saveSession(t, store, session.Session{
		Panel: authz.PanelAdmin,
		Actor: session.Actor{ID: 4, Role: "admin"},
		Token: "tok",
	})

	res, _ := runGuard(g, protectedRequest(slot, store))
	assert.Equal(t, http.StatusSeeOther, res.Code)
	_, err := store.Load(context.Background(), slot)
	assert.ErrorIs(t, err, session.ErrSessionAbsent)
}

type failingSource struct{}

func (failingSource) GrantsForActor(ctx context.Context, panel authz.Panel, actorID int64) ([]authz.Grant, error) {
	return nil, errors.New("endpoint down")
}

// A failed refresh keeps the cached grants and marks the response,
// but never logs the actor out.
func TestGuardRefreshFailureIsNonTerminal(t *testing.T) {
	store := newTestStore(t)
	g := guard.Guard{
		Panel:     authz.PanelAdmin,
		Store:     store,
		Refresher: guard.NewRefresher(store, failingSource{}, nil),
	}

	cached := []authz.Grant{{Module: "Category", Action: "Listing", Status: true}}
	slot := saveSession(t, store, session.Session{
		Panel:  authz.PanelAdmin,
		Actor:  session.Actor{ID: 5, Role: authz.RoleAdminStaff},
		Token:  "tok",
		Grants: cached,
	})

	res, st := runGuard(g, protectedRequest(slot, store))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "1", res.Header().Get(httpx.GrantsStaleHeader))
	require.NotNil(t, st)
	assert.Equal(t, cached, st.Session.Grants)
}

package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/guard"
	"github.com/shipdeck/shipdeck/internal/session"
)

func gatedRequest(sess session.Session) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/categories", nil)
	ctx := session.ContextWithState(req.Context(), &session.State{SlotID: "slot", Session: sess})
	return req.WithContext(ctx)
}

func TestRequireAllowsMatchingGrant(t *testing.T) {
	m := guard.Middleware{Evaluator: authz.Evaluator{}}
	handler := m.Require(authz.ModuleCategory, authz.ActionCreate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	sess := session.Session{
		Panel:  authz.PanelAdmin,
		Actor:  session.Actor{ID: 1, Role: authz.RoleAdminStaff},
		Token:  "tok",
		Grants: []authz.Grant{{Module: "Category", Action: "Create", Status: true}},
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, gatedRequest(sess))
	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestRequireDeniesStaffWithoutGrant(t *testing.T) {
	m := guard.Middleware{Evaluator: authz.Evaluator{}}
	handler := m.Require(authz.ModuleCategory, authz.ActionPermanentDelete)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	sess := session.Session{
		Panel:  authz.PanelAdmin,
		Actor:  session.Actor{ID: 1, Role: authz.RoleAdminStaff},
		Token:  "tok",
		Grants: []authz.Grant{{Module: "Category", Action: "Create", Status: true}},
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, gatedRequest(sess))
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireWithoutSessionState(t *testing.T) {
	m := guard.Middleware{Evaluator: authz.Evaluator{}}
	handler := m.Require(authz.ModuleCategory, authz.ActionListing)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/admin/categories", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

package staff

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/guard"
	mdshared "github.com/shipdeck/shipdeck/internal/masterdata/shared"
	"github.com/shipdeck/shipdeck/internal/platform/httpx"
	"github.com/shipdeck/shipdeck/internal/session"
)

// Handler exposes staff listing and the permission screens.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    guard.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate guard.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers staff routes for a panel's protected group.
func (h *Handler) MountRoutes(r chi.Router, panel authz.Panel) {
	r.Route("/staff", func(r chi.Router) {
		r.With(h.gate.Require(authz.ModuleStaff, authz.ActionListing)).
			Get("/", h.list(panel))
		r.With(h.gate.Require(authz.ModuleGlobalPermission, authz.ActionView, authz.ActionUpdate)).
			Get("/{id}/permissions", h.showGrants(panel))
		r.With(h.gate.Require(authz.ModuleGlobalPermission, authz.ActionUpdate)).
			Put("/{id}/permissions", h.replaceGrants(panel))
		r.With(h.gate.Require(authz.ModuleOrderPermission, authz.ActionView, authz.ActionUpdate)).
			Get("/{id}/order-permissions", h.showOrderGrants(panel))
		r.With(h.gate.Require(authz.ModuleOrderPermission, authz.ActionUpdate)).
			Put("/{id}/order-permissions", h.replaceOrderGrants(panel))
	})
}

type grantsPayload struct {
	Permissions []authz.Grant `json:"permissions"`
}

func (h *Handler) list(panel authz.Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := mdshared.FiltersFromQuery(r.URL.Query())
		members, total, err := h.service.ListMembers(r.Context(), panel, filters)
		if err != nil {
			h.logger.Error("list staff", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		if members == nil {
			members = []Member{}
		}
		httpx.JSON(w, http.StatusOK, map[string]any{
			"staff": members,
			"total": total,
		})
	}
}

func (h *Handler) showGrants(panel authz.Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		grants, err := h.service.Grants(r.Context(), panel, staffID)
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, grantsPayload{Permissions: grants})
	}
}

func (h *Handler) replaceGrants(panel authz.Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		var payload grantsPayload
		if err := httpx.DecodeJSON(r, &payload); err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}

		st := session.StateFromContext(r.Context())
		if st == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}

		grants, err := h.service.UpdateGrants(r.Context(), panel, st.Session.Actor.ID, staffID, payload.Permissions)
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, grantsPayload{Permissions: grants})
	}
}

func (h *Handler) showOrderGrants(panel authz.Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		grants, err := h.service.OrderGrants(r.Context(), panel, staffID)
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, grantsPayload{Permissions: grants})
	}
}

func (h *Handler) replaceOrderGrants(panel authz.Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		var payload grantsPayload
		if err := httpx.DecodeJSON(r, &payload); err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}

		st := session.StateFromContext(r.Context())
		if st == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}

		grants, err := h.service.UpdateOrderGrants(r.Context(), panel, st.Session.Actor.ID, staffID, payload.Permissions)
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, grantsPayload{Permissions: grants})
	}
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mdshared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, mdshared.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("staff request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

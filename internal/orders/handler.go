package orders

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

type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    guard.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, gate guard.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

func (h *Handler) MountRoutes(r chi.Router) {
	const module = authz.ModuleOrder
	r.Route("/orders", func(r chi.Router) {
		r.With(h.gate.Require(module, authz.ActionListing)).Get("/", h.List)
		r.With(h.gate.Require(module, authz.ActionView, authz.ActionListing)).Get("/{id}", h.Show)
		r.With(h.gate.Require(module, authz.ActionUpdate)).Patch("/{id}/status", h.UpdateStatus)
	})
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	st := session.StateFromContext(r.Context())
	if st == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	filters := mdshared.FiltersFromQuery(r.URL.Query())
	items, total, err := h.service.List(r.Context(), scopeFor(st.Session), r.URL.Query().Get("status"), filters)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []Order{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders": items,
		"total":  total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	st := session.StateFromContext(r.Context())
	if st == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	order, err := h.service.Get(r.Context(), scopeFor(st.Session), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	st := session.StateFromContext(r.Context())
	if st == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var payload statusPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), scopeFor(st.Session),
		string(st.Session.Panel), st.Session.Actor.ID, id, payload.Status)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// scopeFor narrows queries for the supplier panel to that account's
// orders. Admin sees the full book.
func scopeFor(sess session.Session) Scope {
	if sess.Panel == authz.PanelSupplier {
		return Scope{SupplierID: sess.Actor.ID}
	}
	return Scope{}
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mdshared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, mdshared.ErrInvalidID):
		httpx.RespondError(w, httpx.ErrValidation)
	case errors.Is(err, mdshared.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("orders request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

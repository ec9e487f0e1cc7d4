package categories

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/guard"
	"github.com/shipdeck/shipdeck/internal/masterdata/shared"
	"github.com/shipdeck/shipdeck/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    guard.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, gate guard.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers category routes on a panel's protected group.
// Each route is gated on the action label the panels declare for it.
func (h *Handler) MountRoutes(r chi.Router) {
	const module = authz.ModuleCategory
	r.Route("/categories", func(r chi.Router) {
		r.With(h.gate.Require(module, authz.ActionListing)).Get("/", h.List)
		r.With(h.gate.Require(module, authz.ActionListing)).Get("/{id}", h.Show)
		r.With(h.gate.Require(module, authz.ActionCreate)).Post("/", h.Create)
		r.With(h.gate.Require(module, authz.ActionUpdate)).Put("/{id}", h.Update)
		r.With(h.gate.Require(module, authz.ActionSoftDelete)).Delete("/{id}", h.SoftDelete)
		r.With(h.gate.Require(module, authz.ActionTrashListing)).Get("/trash", h.Trash)
		r.With(h.gate.Require(module, authz.ActionRestore)).Post("/{id}/restore", h.Restore)
		r.With(h.gate.Require(module, authz.ActionPermanentDelete)).Delete("/{id}/permanent", h.PermanentDelete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromQuery(r.URL.Query())
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list categories failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	respondList(w, items, total)
}

func (h *Handler) Trash(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromQuery(r.URL.Query())
	items, total, err := h.service.ListTrashed(r.Context(), filters)
	if err != nil {
		h.logger.Error("list trashed categories failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	respondList(w, items, total)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var category Category
	if err := httpx.DecodeJSON(r, &category); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	created, err := h.service.Create(r.Context(), category)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var category Category
	if err := httpx.DecodeJSON(r, &category); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Update(r.Context(), id, category); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.SoftDelete)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.Restore)
}

func (h *Handler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.service.PermanentDelete)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) error) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := op(r.Context(), id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, shared.ErrDuplicate):
		httpx.RespondError(w, httpx.ErrDuplicate)
	case errors.Is(err, shared.ErrInvalidID), errors.Is(err, shared.ErrRequiredField):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("category request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func respondList(w http.ResponseWriter, items []Category, total int) {
	if items == nil {
		items = []Category{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"categories": items,
		"total":      total,
	})
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return 0, false
	}
	return id, true
}

package pincodes

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

func (h *Handler) MountRoutes(r chi.Router) {
	const module = authz.ModulePincode
	r.Route("/pincodes", func(r chi.Router) {
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
		h.logger.Error("list pincodes failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	respondList(w, items, total)
}

func (h *Handler) Trash(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromQuery(r.URL.Query())
	items, total, err := h.service.ListTrashed(r.Context(), filters)
	if err != nil {
		h.logger.Error("list trashed pincodes failed", slog.Any("error", err))
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
	pincode, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pincode)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var pincode Pincode
	if err := httpx.DecodeJSON(r, &pincode); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	created, err := h.service.Create(r.Context(), pincode)
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
	var pincode Pincode
	if err := httpx.DecodeJSON(r, &pincode); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Update(r.Context(), id, pincode); err != nil {
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
	case errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrRequiredField),
		errors.Is(err, shared.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("pincode request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func respondList(w http.ResponseWriter, items []Pincode, total int) {
	if items == nil {
		items = []Pincode{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"pincodes": items,
		"total":    total,
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

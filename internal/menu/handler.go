package menu

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shipdeck/shipdeck/internal/platform/httpx"
	"github.com/shipdeck/shipdeck/internal/session"
)

type Handler struct {
	builder *Builder
}

func NewHandler(builder *Builder) *Handler {
	return &Handler{builder: builder}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/menu", h.Show)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	st := session.StateFromContext(r.Context())
	if st == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	entries := h.builder.Build(st.Session)
	httpx.JSON(w, http.StatusOK, map[string]any{"menu": entries})
}

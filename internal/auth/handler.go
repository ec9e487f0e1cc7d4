package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/guard"
	"github.com/shipdeck/shipdeck/internal/platform/httpx"
	"github.com/shipdeck/shipdeck/internal/session"
	"github.com/shipdeck/shipdeck/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows. One handler
// serves every panel; the panel is fixed when routes are mounted.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	store     *session.Store
	csrf      *shared.CSRFManager
	grants    guard.GrantSource
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, store *session.Store, csrf *shared.CSRFManager, grants guard.GrantSource) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		store:     store,
		csrf:      csrf,
		grants:    grants,
		validator: validator.New(),
	}
}

// MountRoutes registers the panel's public auth routes.
func (h *Handler) MountRoutes(r chi.Router, panel authz.Panel) {
	r.Post("/login", h.handleLogin(panel))
	r.Post("/logout", h.handleLogout)
}

// MountSessionRoutes registers routes that require a verified session.
func (h *Handler) MountSessionRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type actorPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type sessionPayload struct {
	Panel     string        `json:"panel"`
	Actor     actorPayload  `json:"actor"`
	IsStaff   bool          `json:"is_staff"`
	Grants    []authz.Grant `json:"grants"`
	CSRFToken string        `json:"csrf_token"`
}

func (h *Handler) handleLogin(panel authz.Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form loginForm
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		if err := h.validator.Struct(form); err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}

		account, err := h.service.Authenticate(r.Context(), panel, form.Email, form.Password)
		if err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
			return
		}

		grants := []authz.Grant{}
		if panel.IsRestrictedStaff(account.Role) && h.grants != nil {
			fetched, err := h.grants.GrantsForActor(r.Context(), panel, account.ID)
			if err != nil {
				// The session is still established; grants converge on
				// the first protected request.
				h.logger.Warn("fetch grants at login", slog.Any("error", err))
				w.Header().Set(httpx.GrantsStaleHeader, "1")
			} else {
				grants = authz.SanitizeGrants(fetched, h.logger)
			}
		}

		slotID := h.store.NewSlotID()
		sess := session.Session{
			Panel: panel,
			Actor: session.Actor{
				ID:    account.ID,
				Name:  account.Name,
				Email: account.Email,
				Role:  account.Role,
			},
			Token:           uuid.NewString(),
			AuthenticatedAt: time.Now().UTC(),
			Grants:          grants,
		}
		if err := h.store.Save(r.Context(), slotID, sess); err != nil {
			h.logger.Error("save session", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		h.store.WriteSlotCookie(w, slotID)

		expiresAt := time.Now().Add(h.store.TTL())
		if err := h.service.RegisterSession(r.Context(), slotID, account.ID, panel, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
			h.logger.Warn("register session", slog.Any("error", err))
		}

		httpx.JSON(w, http.StatusOK, sessionPayload{
			Panel:     string(panel),
			Actor:     actorPayload{ID: account.ID, Name: account.Name, Email: account.Email, Role: account.Role},
			IsStaff:   sess.IsStaff(),
			Grants:    sess.ActiveGrants(),
			CSRFToken: h.csrf.TokenFor(slotID),
		})
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	slotID := h.store.SlotIDFromRequest(r)
	if slotID != "" {
		if err := h.service.RemoveSession(r.Context(), slotID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		if err := h.store.Clear(r.Context(), slotID); err != nil {
			h.logger.Warn("clear session", slog.Any("error", err))
		}
	}
	h.store.ExpireSlotCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	st := session.StateFromContext(r.Context())
	if st == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	sess := st.Session
	httpx.JSON(w, http.StatusOK, sessionPayload{
		Panel:     string(sess.Panel),
		Actor:     actorPayload(sess.Actor),
		IsStaff:   sess.IsStaff(),
		Grants:    sess.ActiveGrants(),
		CSRFToken: h.csrf.TokenFor(st.SlotID),
	})
}

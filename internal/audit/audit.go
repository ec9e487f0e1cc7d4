// Package audit serves the admin-side audit trail written by the
// other modules through shared.AuditLogger.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/guard"
	"github.com/shipdeck/shipdeck/internal/platform/httpx"
)

type Entry struct {
	ID         int64          `json:"id"`
	ActorID    int64          `json:"actor_id"`
	Panel      string         `json:"panel"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns the newest entries first, optionally filtered by panel.
func (r *Repository) List(ctx context.Context, panel string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT id, actor_id, panel, action, entity, entity_id, meta, occurred_at
		FROM audit_logs`
	args := []interface{}{}
	if panel != "" {
		query += ` WHERE panel = $1`
		args = append(args, panel)
	}
	query += ` ORDER BY occurred_at DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Panel, &e.Action, &e.Entity, &e.EntityID, &meta, &e.OccurredAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Meta)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type Handler struct {
	logger *slog.Logger
	repo   *Repository
	gate   guard.Middleware
}

func NewHandler(logger *slog.Logger, repo *Repository, gate guard.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, gate: gate}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.gate.Require(authz.ModuleGlobalPermission, authz.ActionView)).Get("/audit", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.repo.List(r.Context(), r.URL.Query().Get("panel"), limit)
	if err != nil {
		h.logger.Error("list audit entries failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shipdeck/shipdeck/internal/authz"
	jobmetrics "github.com/shipdeck/shipdeck/internal/jobs"
)

// GrantReader loads the authoritative grants for a staff account.
type GrantReader interface {
	GrantsForActor(ctx context.Context, panel authz.Panel, actorID int64) ([]authz.Grant, error)
}

// SessionLocator finds an account's live session slot IDs.
type SessionLocator interface {
	ActiveSessionIDs(ctx context.Context, accountID int64) ([]string, error)
}

// GrantWriter swaps the cached grants inside a session slot.
type GrantWriter interface {
	ReplaceGrants(ctx context.Context, slotID string, grants []authz.Grant) error
}

// GrantResyncHandler fans a staff account's fresh grants out to every
// live session slot. The slot the editor used refreshes itself on its
// next request; this covers the account's other open sessions.
type GrantResyncHandler struct {
	Grants   GrantReader
	Sessions SessionLocator
	Store    GrantWriter
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// Handle processes TaskGrantResync tasks. A slot that vanished between
// lookup and write is skipped, not an error.
func (h *GrantResyncHandler) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := h.Metrics.Track("grant_resync")
	return tracker.End(h.handle(ctx, t))
}

func (h *GrantResyncHandler) handle(ctx context.Context, t *asynq.Task) error {
	var payload GrantResyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	grants, err := h.Grants.GrantsForActor(ctx, payload.Panel, payload.AccountID)
	if err != nil {
		return fmt.Errorf("jobs: load grants: %w", err)
	}
	grants = authz.SanitizeGrants(grants, h.Logger)

	slotIDs, err := h.Sessions.ActiveSessionIDs(ctx, payload.AccountID)
	if err != nil {
		return fmt.Errorf("jobs: locate sessions: %w", err)
	}

	for _, slotID := range slotIDs {
		if err := h.Store.ReplaceGrants(ctx, slotID, grants); err != nil {
			h.Logger.Warn("grant resync skipped slot",
				slog.String("slot", slotID),
				slog.Any("error", err))
		}
	}
	h.Logger.Info("grant resync complete",
		slog.String("panel", string(payload.Panel)),
		slog.Int64("account", payload.AccountID),
		slog.Int("slots", len(slotIDs)))
	return nil
}

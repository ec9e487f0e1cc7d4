package guard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/session"
)

// GrantSource supplies the authoritative grant list for an actor,
// typically the staff repository.
type GrantSource interface {
	GrantsForActor(ctx context.Context, panel authz.Panel, actorID int64) ([]authz.Grant, error)
}

// Refresher re-derives the staff flag from the current session and,
// for staff actors, replaces the cached grants wholesale with the
// source's answer. Permission checks made before a refresh completes
// see the previously cached grants, never a premature default.
type Refresher struct {
	store  *session.Store
	source GrantSource
	logger *slog.Logger
	group  singleflight.Group
}

// NewRefresher constructs a Refresher.
func NewRefresher(store *session.Store, source GrantSource, logger *slog.Logger) *Refresher {
	return &Refresher{store: store, source: source, logger: logger}
}

// Refresh updates the grant cache for a staff session and returns the
// session carrying the fresh grants. Non-staff sessions are returned
// untouched: their grants are never consulted. A fetch failure leaves
// the previous cache in place and reports ErrGrantFetchFailed. A
// canceled context discards the fetched result without writing.
// Concurrent refreshes for the same slot are collapsed into one fetch.
func (r *Refresher) Refresh(ctx context.Context, slotID string, sess session.Session) (session.Session, error) {
	if !sess.IsStaff() {
		return sess, nil
	}

	v, err, _ := r.group.Do(slotID, func() (any, error) {
		grants, err := r.source.GrantsForActor(ctx, sess.Panel, sess.Actor.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGrantFetchFailed, err)
		}
		grants = authz.SanitizeGrants(grants, r.logger)
		// The caller may have gone away while the fetch was in
		// flight; a stale result must not reach the shared store.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := r.store.ReplaceGrants(ctx, slotID, grants); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGrantFetchFailed, err)
		}
		return grants, nil
	})
	if err != nil {
		return sess, err
	}

	sess.Grants = v.([]authz.Grant)
	return sess, nil
}

// Package guard enforces the per-panel authentication contract: every
// protected route group verifies the shared session slot before any
// handler runs, and failed checks clear the slot and send the caller
// back to that panel's login.
package guard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/observability"
	"github.com/shipdeck/shipdeck/internal/platform/httpx"
	"github.com/shipdeck/shipdeck/internal/session"
)

var (
	// ErrPanelMismatch indicates the stored session belongs to a
	// different panel than the one being accessed.
	ErrPanelMismatch = errors.New("guard: panel mismatch")
	// ErrTokenMissing indicates a session without a bearer token.
	ErrTokenMissing = errors.New("guard: token missing")
	// ErrGrantFetchFailed indicates the permission refresh could not
	// reach its source. Recovered locally; never forces a logout.
	ErrGrantFetchFailed = errors.New("guard: grant fetch failed")
)

// TokenVerifier is the optional secondary check asking an external
// collaborator whether the token is still honored server-side.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, sess session.Session) error
}

// Guard verifies the session slot for one panel.
type Guard struct {
	Panel     authz.Panel
	Store     *session.Store
	Refresher *Refresher
	Verifier  TokenVerifier
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// LoginPath is the panel's login route, the redirect target for every
// failed check.
func (g Guard) LoginPath() string {
	return "/" + string(g.Panel) + "/login"
}

// Protect wraps protected routes. The checks run in order: session
// present, panel match, token present, then the optional external
// verification. Any failure clears the slot (session and grants
// together, one aggregate) and redirects; the protected handler is
// never reached. A failed grant refresh is the one non-terminal case:
// the previous grants stay in place and the request continues.
func (g Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		slotID := g.Store.SlotIDFromRequest(r)

		sess, err := g.Store.Load(ctx, slotID)
		if err != nil {
			g.fail(w, r, slotID, session.ErrSessionAbsent)
			return
		}
		if sess.Panel != g.Panel {
			g.fail(w, r, slotID, ErrPanelMismatch)
			return
		}
		if sess.Token == "" {
			g.fail(w, r, slotID, ErrTokenMissing)
			return
		}
		if g.Verifier != nil {
			if err := g.Verifier.VerifyToken(ctx, sess); err != nil {
				g.fail(w, r, slotID, ErrTokenMissing)
				return
			}
		}

		if g.Refresher != nil {
			refreshed, err := g.Refresher.Refresh(ctx, slotID, sess)
			if err != nil {
				if g.Logger != nil {
					g.Logger.Warn("permission refresh failed, using cached grants",
						slog.String("panel", string(g.Panel)),
						slog.Int64("actor", sess.Actor.ID),
						slog.Any("error", err))
				}
				if g.Metrics != nil {
					g.Metrics.ObserveGrantRefreshFailure(string(g.Panel))
				}
				w.Header().Set(httpx.GrantsStaleHeader, "1")
			} else {
				sess = refreshed
			}
		}

		ctx = session.ContextWithState(ctx, &session.State{SlotID: slotID, Session: sess})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g Guard) fail(w http.ResponseWriter, r *http.Request, slotID string, reason error) {
	if err := g.Store.Clear(r.Context(), slotID); err != nil && g.Logger != nil {
		g.Logger.Warn("clear session slot", slog.Any("error", err))
	}
	g.Store.ExpireSlotCookie(w)
	if g.Metrics != nil {
		g.Metrics.ObserveAuthFailure(string(g.Panel), reasonLabel(reason))
	}
	if wantsJSON(r) {
		w.Header().Set("Location", g.LoginPath())
		httpx.JSON(w, http.StatusUnauthorized, httpx.ProblemDetail{
			Title:    "Unauthorized",
			Status:   http.StatusUnauthorized,
			Detail:   "authentication required",
			Location: g.LoginPath(),
		})
		return
	}
	http.Redirect(w, r, g.LoginPath(), http.StatusSeeOther)
}

// wantsJSON distinguishes API clients from browser navigations. The
// former get a problem body carrying the login location instead of a
// 303 they would follow blindly.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func reasonLabel(reason error) string {
	switch {
	case errors.Is(reason, ErrPanelMismatch):
		return "panel_mismatch"
	case errors.Is(reason, ErrTokenMissing):
		return "token_missing"
	default:
		return "session_absent"
	}
}

package guard

import (
	"log/slog"
	"net/http"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/platform/httpx"
	"github.com/shipdeck/shipdeck/internal/session"
)

// Middleware gates individual routes on permission grants. It assumes
// Guard.Protect already ran for the group, so a session state is
// always present in context.
type Middleware struct {
	Evaluator authz.Evaluator
	Logger    *slog.Logger
}

// Require allows the request through when the current actor may
// perform any one of the listed actions within module. Primary roles
// always pass; staff roles need a matching active grant.
func (m Middleware) Require(module string, actions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := session.StateFromContext(r.Context())
			if st == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			sess := st.Session
			if m.Evaluator.CanPerform(sess.Panel, sess.Actor.Role, sess.ActiveGrants(), module, actions...) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Info("permission denied",
					slog.String("panel", string(sess.Panel)),
					slog.Int64("actor", sess.Actor.ID),
					slog.String("module", module))
			}
			httpx.RespondError(w, httpx.ErrForbidden)
		})
	}
}

package session

import (
	"context"
	"time"

	"github.com/shipdeck/shipdeck/internal/authz"
)

// Actor is the authenticated principal operating a panel.
type Actor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the aggregate held in the shared slot: identity, active
// panel, bearer token, and the permission grants assigned to the
// actor. Session and grants live in one value so clearing the slot
// removes both atomically; there is no second entry to forget.
type Session struct {
	Panel           authz.Panel   `json:"panel"`
	Actor           Actor         `json:"actor"`
	Token           string        `json:"token"`
	AuthenticatedAt time.Time     `json:"authenticated_at"`
	Grants          []authz.Grant `json:"grants"`
}

// ActiveGrants returns the grant list, never nil.
func (s Session) ActiveGrants() []authz.Grant {
	if s.Grants == nil {
		return []authz.Grant{}
	}
	return s.Grants
}

// IsStaff reports whether the session's actor holds the restricted
// staff sub-role of its own panel.
func (s Session) IsStaff() bool {
	return s.Panel.IsRestrictedStaff(s.Actor.Role)
}

type sessionContextKey struct{}

// State carries a loaded session plus its slot ID through a request.
type State struct {
	SlotID  string
	Session Session
}

// ContextWithState stores the loaded session state in context.
func ContextWithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, st)
}

// StateFromContext extracts the session state from context.
func StateFromContext(ctx context.Context) *State {
	st, _ := ctx.Value(sessionContextKey{}).(*State)
	return st
}

package authz

// EmptyGrantsPolicy decides what a staff actor with zero grants may
// do. The product's dashboards historically failed open here: a staff
// actor with an empty grant list could perform every action. That
// behavior is kept as the default until product decides otherwise;
// DenyOnEmpty is the strict alternative.
type EmptyGrantsPolicy int

const (
	AllowOnEmpty EmptyGrantsPolicy = iota
	DenyOnEmpty
)

// Evaluator answers whether an actor may perform an action within a
// module. It is a pure value: no side effects, safe to call on every
// request without memoization.
type Evaluator struct {
	OnEmpty EmptyGrantsPolicy
}

// CanPerform reports whether the actor holding role on panel may
// perform any of the required actions within module, given the flat
// set of grants assigned to it.
//
// Primary (non-staff) roles bypass grant checking entirely. For staff
// roles, an active grant must match module and one of the required
// actions exactly, case-sensitive, on the same grant record. Multiple
// required actions use any-match semantics: one matching grant enables
// the whole query.
func (e Evaluator) CanPerform(panel Panel, role string, grants []Grant, module string, actions ...string) bool {
	if !panel.IsRestrictedStaff(role) {
		return true
	}
	if len(grants) == 0 {
		return e.OnEmpty == AllowOnEmpty
	}
	for _, g := range grants {
		if !g.Status || g.Module != module {
			continue
		}
		for _, action := range actions {
			if g.Action == action {
				return true
			}
		}
	}
	return false
}

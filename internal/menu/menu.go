// Package menu assembles per-panel navigation. Entries carry the
// module/action pair their screen is gated on; building a menu for a
// session drops every entry the actor could not open anyway.
package menu

import (
	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/session"
)

type Entry struct {
	Label    string   `json:"label"`
	Path     string   `json:"path"`
	Module   string   `json:"-"`
	Actions  []string `json:"-"`
	Children []Entry  `json:"children,omitempty"`
}

// visible reports whether the entry itself is open to the actor.
// Entries without a module are informational and always shown.
func (e Entry) visible(ev authz.Evaluator, panel authz.Panel, role string, grants []authz.Grant) bool {
	if e.Module == "" {
		return true
	}
	return ev.CanPerform(panel, role, grants, e.Module, e.Actions...)
}

type Builder struct {
	evaluator authz.Evaluator
	panels    map[authz.Panel][]Entry
}

func NewBuilder(evaluator authz.Evaluator) *Builder {
	return &Builder{evaluator: evaluator, panels: defaultPanels()}
}

// Build returns the navigation the session's actor may see. Parent
// entries with a module of their own are gated like leaves; parents
// that only group children disappear when every child is filtered out.
func (b *Builder) Build(sess session.Session) []Entry {
	entries := b.panels[sess.Panel]
	return filter(entries, b.evaluator, sess.Panel, sess.Actor.Role, sess.ActiveGrants())
}

func filter(entries []Entry, ev authz.Evaluator, panel authz.Panel, role string, grants []authz.Grant) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.visible(ev, panel, role, grants) {
			continue
		}
		if len(e.Children) > 0 {
			e.Children = filter(e.Children, ev, panel, role, grants)
			if len(e.Children) == 0 && e.Module == "" {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func defaultPanels() map[authz.Panel][]Entry {
	crud := func(label, path, module string) Entry {
		return Entry{Label: label, Path: path, Module: module, Actions: []string{authz.ActionListing}}
	}
	masterdata := []Entry{
		crud("Categories", "/categories", authz.ModuleCategory),
		crud("Cities", "/cities", authz.ModuleCity),
		crud("Warehouses", "/warehouses", authz.ModuleWarehouse),
		crud("Pincodes", "/pincodes", authz.ModulePincode),
	}
	return map[authz.Panel][]Entry{
		authz.PanelAdmin: {
			{Label: "Dashboard", Path: "/dashboard"},
			{Label: "Master Data", Path: "", Children: masterdata},
			crud("Orders", "/orders", authz.ModuleOrder),
			crud("Staff", "/staff", authz.ModuleStaff),
			{Label: "Permissions", Path: "/staff", Module: authz.ModuleGlobalPermission, Actions: []string{authz.ActionView, authz.ActionUpdate}},
			{Label: "Order Permissions", Path: "/staff", Module: authz.ModuleOrderPermission, Actions: []string{authz.ActionView, authz.ActionUpdate}},
		},
		authz.PanelSupplier: {
			{Label: "Dashboard", Path: "/dashboard"},
			crud("Orders", "/orders", authz.ModuleOrder),
			crud("Warehouses", "/warehouses", authz.ModuleWarehouse),
			crud("Pincodes", "/pincodes", authz.ModulePincode),
			crud("Staff", "/staff", authz.ModuleStaff),
		},
		authz.PanelDropshipper: {
			{Label: "Dashboard", Path: "/dashboard"},
			crud("Categories", "/categories", authz.ModuleCategory),
			crud("Staff", "/staff", authz.ModuleStaff),
		},
	}
}

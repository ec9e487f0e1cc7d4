package authz

// Module and action labels used across the panels. Grant matching is
// exact-string, so the labels are centralized here and enforced when
// grants are written; a typo becomes a validation error at write time
// instead of a silent deny (or, under AllowOnEmpty, a silent allow).
const (
	ModuleCategory         = "Category"
	ModuleCity             = "City"
	ModuleWarehouse        = "Warehouse"
	ModulePincode          = "Pincode"
	ModuleStaff            = "Staff"
	ModuleOrder            = "Order"
	ModuleGlobalPermission = "Global Permission"
	ModuleOrderPermission  = "Order Permission"
)

const (
	ActionListing         = "Listing"
	ActionCreate          = "Create"
	ActionUpdate          = "Update"
	ActionSoftDelete      = "Soft Delete"
	ActionPermanentDelete = "Permanent Delete"
	ActionRestore         = "Restore"
	ActionTrashListing    = "Trash Listing"
	ActionView            = "View"
)

func crudActions() []string {
	return []string{
		ActionListing,
		ActionCreate,
		ActionUpdate,
		ActionSoftDelete,
		ActionPermanentDelete,
		ActionRestore,
		ActionTrashListing,
	}
}

var panelModules = map[Panel]map[string][]string{
	PanelAdmin: {
		ModuleCategory:         crudActions(),
		ModuleCity:             crudActions(),
		ModuleWarehouse:        crudActions(),
		ModulePincode:          crudActions(),
		ModuleStaff:            {ActionListing, ActionCreate, ActionUpdate, ActionSoftDelete},
		ModuleOrder:            {ActionListing, ActionView, ActionUpdate},
		ModuleGlobalPermission: {ActionView, ActionUpdate},
		ModuleOrderPermission:  {ActionView, ActionUpdate},
	},
	PanelSupplier: {
		ModuleWarehouse:        crudActions(),
		ModulePincode:          crudActions(),
		ModuleStaff:            {ActionListing, ActionCreate, ActionUpdate, ActionSoftDelete},
		ModuleOrder:            {ActionListing, ActionView, ActionUpdate},
		ModuleGlobalPermission: {ActionView, ActionUpdate},
		ModuleOrderPermission:  {ActionView, ActionUpdate},
	},
	PanelDropshipper: {
		ModuleCategory: {ActionListing},
		ModuleStaff:    {ActionListing, ActionCreate, ActionUpdate, ActionSoftDelete},
	},
}

// KnownPair reports whether (module, action) is a valid combination
// for the given panel. Evaluation stays raw exact-string matching;
// this registry is consulted only when grants are written.
func KnownPair(panel Panel, module, action string) bool {
	actions, ok := panelModules[panel][module]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// OrderScoped reports whether the module's grants are managed on the
// Order Permission screen. Everything else belongs to the Global
// Permission screen.
func OrderScoped(module string) bool {
	return module == ModuleOrder
}

// ModulesFor returns the module labels gated on the given panel.
func ModulesFor(panel Panel) []string {
	mods := make([]string, 0, len(panelModules[panel]))
	for m := range panelModules[panel] {
		mods = append(mods, m)
	}
	return mods
}

// ActionsFor returns the valid action labels for a module on a panel.
func ActionsFor(panel Panel, module string) []string {
	actions := panelModules[panel][module]
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}

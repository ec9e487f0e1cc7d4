package authz

// Panel identifies one of the independent dashboards. All panels share
// the same session slot in the client, so only one panel can be active
// per browser profile at a time.
type Panel string

const (
	PanelAdmin       Panel = "admin"
	PanelSupplier    Panel = "supplier"
	PanelDropshipper Panel = "dropshipper"
)

// Restricted staff role markers, one per panel. These are deliberately
// compile-time constants rather than configuration: each panel's
// classifier recognizes only its own marker, so a supplier staff role
// string is never classified as staff by the admin panel.
const (
	RoleAdminStaff       = "admin_staff"
	RoleSupplierStaff    = "supplier_staff"
	RoleDropshipperStaff = "dropshipper_staff"
)

var staffMarkers = map[Panel]string{
	PanelAdmin:       RoleAdminStaff,
	PanelSupplier:    RoleSupplierStaff,
	PanelDropshipper: RoleDropshipperStaff,
}

// Valid reports whether p names a known panel.
func (p Panel) Valid() bool {
	_, ok := staffMarkers[p]
	return ok
}

// StaffRole returns the restricted staff marker for this panel.
func (p Panel) StaffRole() string {
	return staffMarkers[p]
}

// IsRestrictedStaff reports whether role is this panel's restricted
// staff sub-role. Exact string match; primary/owner roles and other
// panels' staff markers are not staff here.
func (p Panel) IsRestrictedStaff(role string) bool {
	marker, ok := staffMarkers[p]
	return ok && role == marker
}

// Panels lists all known panels.
func Panels() []Panel {
	return []Panel{PanelAdmin, PanelSupplier, PanelDropshipper}
}

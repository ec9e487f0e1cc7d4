package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shipdeck/shipdeck/internal/authz"
)

func TestIsRestrictedStaff(t *testing.T) {
	assert.True(t, authz.PanelAdmin.IsRestrictedStaff(authz.RoleAdminStaff))
	assert.True(t, authz.PanelSupplier.IsRestrictedStaff(authz.RoleSupplierStaff))
	assert.True(t, authz.PanelDropshipper.IsRestrictedStaff(authz.RoleDropshipperStaff))

	assert.False(t, authz.PanelAdmin.IsRestrictedStaff("admin"))
	assert.False(t, authz.PanelSupplier.IsRestrictedStaff("supplier"))
}

// Each panel's classifier recognizes only its own marker.
func TestIsRestrictedStaffCrossPanel(t *testing.T) {
	assert.False(t, authz.PanelAdmin.IsRestrictedStaff(authz.RoleSupplierStaff))
	assert.False(t, authz.PanelSupplier.IsRestrictedStaff(authz.RoleAdminStaff))
	assert.False(t, authz.PanelDropshipper.IsRestrictedStaff(authz.RoleAdminStaff))
}

func TestIsRestrictedStaffExactMatch(t *testing.T) {
	assert.False(t, authz.PanelAdmin.IsRestrictedStaff("Admin_Staff"))
	assert.False(t, authz.PanelAdmin.IsRestrictedStaff(" admin_staff"))
	assert.False(t, authz.PanelAdmin.IsRestrictedStaff(""))
}

func TestPanelValid(t *testing.T) {
	for _, p := range authz.Panels() {
		assert.True(t, p.Valid())
	}
	assert.False(t, authz.Panel("vendor").Valid())
	assert.False(t, authz.Panel("").Valid())
}

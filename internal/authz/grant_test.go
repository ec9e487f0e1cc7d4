package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdeck/shipdeck/internal/authz"
)

func TestParseGrantsDropsMalformedEntries(t *testing.T) {
	payload := []byte(`[
		{"module":"Category","panel":"admin","action":"Create","status":true},
		{"module":"","action":"Update","status":true},
		{"module":"City","action":"","status":true},
		{"module":"Warehouse","action":"Restore"}
	]`)

	grants, err := authz.ParseGrants(payload, nil)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	assert.Equal(t, authz.Grant{Module: "Category", Panel: "admin", Action: "Create", Status: true}, grants[0])
	// Missing status decodes as an inactive grant, not an error.
	assert.Equal(t, authz.Grant{Module: "Warehouse", Action: "Restore", Status: false}, grants[1])
}

func TestParseGrantsInvalidJSON(t *testing.T) {
	_, err := authz.ParseGrants([]byte(`{"permissions":`), nil)
	assert.Error(t, err)
}

func TestSanitizeGrantsNeverNil(t *testing.T) {
	assert.NotNil(t, authz.SanitizeGrants(nil, nil))
	assert.Empty(t, authz.SanitizeGrants([]authz.Grant{{Module: "", Action: ""}}, nil))
}

func TestKnownPair(t *testing.T) {
	assert.True(t, authz.KnownPair(authz.PanelAdmin, authz.ModuleCategory, authz.ActionSoftDelete))
	assert.True(t, authz.KnownPair(authz.PanelSupplier, authz.ModuleWarehouse, authz.ActionTrashListing))

	assert.False(t, authz.KnownPair(authz.PanelAdmin, "category", authz.ActionCreate))
	assert.False(t, authz.KnownPair(authz.PanelAdmin, authz.ModuleCategory, "Delete"))
	// Categories are not a supplier module.
	assert.False(t, authz.KnownPair(authz.PanelSupplier, authz.ModuleCategory, authz.ActionCreate))
}

func TestOrderScoped(t *testing.T) {
	assert.True(t, authz.OrderScoped(authz.ModuleOrder))
	// The screen that manages order grants is itself a global grant.
	assert.False(t, authz.OrderScoped(authz.ModuleOrderPermission))
	assert.False(t, authz.OrderScoped(authz.ModuleCategory))

	assert.True(t, authz.KnownPair(authz.PanelSupplier, authz.ModuleOrder, authz.ActionView))
	assert.False(t, authz.KnownPair(authz.PanelDropshipper, authz.ModuleOrder, authz.ActionListing))
}

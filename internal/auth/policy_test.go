package auth

import (
	"testing"

	"ccw_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

// TestCanPerformTable checks every role/action pair against the capability
// table; no role may inherit another's permissions.
func TestCanPerformTable(t *testing.T) {
	cases := []struct {
		role   string
		action Action
		want   bool
	}{
		{domain.RoleAdmin, ActionView, true},
		{domain.RoleAdmin, ActionEdit, true},
		{domain.RoleAdmin, ActionManageUsers, true},
		{domain.RoleAdmin, ActionCoordinateReports, true},

		{domain.RolePSSCoordinator, ActionView, true},
		{domain.RolePSSCoordinator, ActionEdit, true},
		{domain.RolePSSCoordinator, ActionManageUsers, false},
		{domain.RolePSSCoordinator, ActionCoordinateReports, true},

		{domain.RoleDataEntry, ActionView, true},
		{domain.RoleDataEntry, ActionEdit, true},
		{domain.RoleDataEntry, ActionManageUsers, false},
		{domain.RoleDataEntry, ActionCoordinateReports, false},

		{domain.RoleViewer, ActionView, true},
		{domain.RoleViewer, ActionEdit, false},
		{domain.RoleViewer, ActionManageUsers, false},
		{domain.RoleViewer, ActionCoordinateReports, false},
	}
	for _, tc := range cases {
		got := CanPerform(tc.role, tc.action)
		assert.Equal(t, tc.want, got, "role %s action %s", tc.role, tc.action)
	}
}

// TestCanPerformUnknownRole denies everything to roles outside the table
func TestCanPerformUnknownRole(t *testing.T) {
	for _, action := range []Action{ActionView, ActionEdit, ActionManageUsers, ActionCoordinateReports} {
		assert.False(t, CanPerform("superuser", action))
		assert.False(t, CanPerform("", action))
	}
}

// TestUnauthenticatedPrincipalDeniedEverything covers the zero Principal
func TestUnauthenticatedPrincipalDeniedEverything(t *testing.T) {
	var anon Principal
	assert.False(t, anon.IsAuthenticated())
	for _, action := range []Action{ActionView, ActionEdit, ActionManageUsers, ActionCoordinateReports} {
		assert.False(t, anon.Allows(action))
	}

	// An authenticated viewer is still a viewer
	viewer := Principal{UserID: 7, Username: "v", Role: domain.RoleViewer}
	assert.True(t, viewer.Allows(ActionView))
	assert.False(t, viewer.Allows(ActionEdit))
}

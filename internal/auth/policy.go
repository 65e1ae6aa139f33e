package auth

import "ccw_tracker/internal/domain" // Role constants

// Action is something a principal may attempt
type Action string

// Actions gated by the policy
const (
	ActionView              Action = "view"               // Read enrollment and report data
	ActionEdit              Action = "edit"               // Create or modify enrollment data
	ActionManageUsers       Action = "manage_users"       // Create and list user accounts
	ActionCoordinateReports Action = "coordinate_reports" // File and revise monthly reports
)

// Principal is the authenticated identity attached to a request. The web
// layer resolves the session token into a Principal before calling into the
// services; the services never re-derive identity or role from request fields.
type Principal struct {
	UserID   uint   `json:"user_id"`  // Database id of the user
	Username string `json:"username"` // Login name
	Role     string `json:"role"`     // One of the domain role constants
	District string `json:"district"` // District the user reports for
	Facility string `json:"facility"` // Facility the user reports for
}

// IsAuthenticated reports whether the principal identifies a logged-in user
func (p Principal) IsAuthenticated() bool {
	return p.UserID != 0
}

// capability table: role -> the actions it may perform. Every permission
// check in the system goes through this one table.
var capabilities = map[string]map[Action]bool{
	domain.RoleAdmin: {
		ActionView:              true,
		ActionEdit:              true,
		ActionManageUsers:       true,
		ActionCoordinateReports: true,
	},
	domain.RolePSSCoordinator: {
		ActionView:              true,
		ActionEdit:              true,
		ActionCoordinateReports: true,
	},
	domain.RoleDataEntry: {
		ActionView: true,
		ActionEdit: true,
	},
	domain.RoleViewer: {
		ActionView: true,
	},
}

// CanPerform decides whether a role may perform an action. Unknown roles get
// nothing; no role inherits another's capabilities.
func CanPerform(role string, action Action) bool {
	return capabilities[role][action]
}

// Allows is CanPerform applied to a principal; an unauthenticated principal
// is denied every action.
func (p Principal) Allows(action Action) bool {
	if !p.IsAuthenticated() {
		return false
	}
	return CanPerform(p.Role, action)
}

package domain

import "time"

// User roles
const (
	RoleAdmin          = "admin"           // Full access including user management
	RoleDataEntry      = "data_entry"      // Can view and edit enrollment data
	RoleViewer         = "viewer"          // Read-only access
	RolePSSCoordinator = "pss_coordinator" // Edit access plus monthly report coordination
)

// User Model
type User struct {
	ID        uint       `gorm:"primaryKey"`                    // Primary key
	Username  string     `gorm:"size:50;uniqueIndex;not null"`  // Unique username, stored lowercase
	Email     string     `gorm:"size:100;uniqueIndex;not null"` // Unique email
	Password  string     `gorm:"size:255;not null" json:"-"`    // Bcrypt hash, never serialized
	FullName  string     `gorm:"size:100;not null"`             // Display name
	Role      string     `gorm:"size:30;default:viewer;index"`  // One of the role constants
	District  string     `gorm:"size:100"`                      // District the user reports for
	Facility  string     `gorm:"size:150"`                      // Facility the user reports for
	IsActive  bool       `gorm:"default:true"`                  // Soft-deactivate flag, users are never hard-deleted
	LastLogin *time.Time // Set on each successful login
	CreatedAt time.Time  // Timestamp of creation
	UpdatedAt time.Time  // Timestamp of last update
}

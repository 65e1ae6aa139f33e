package api

import (
	"net/http" // HTTP status codes

	"ccw_tracker/internal/middleware" // Principal extraction
	"ccw_tracker/internal/services"   // Credential store

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// UserResponse is the admin view of an account, password hash excluded
type UserResponse struct {
	ID        uint   `json:"user_id"`   // Primary key
	Username  string `json:"username"`  // Login name
	Email     string `json:"email"`     // Contact email
	FullName  string `json:"full_name"` // Display name
	Role      string `json:"role"`      // Assigned role
	District  string `json:"district"`  // District
	Facility  string `json:"facility"`  // Facility
	IsActive  bool   `json:"is_active"` // Soft-deactivate flag
	LastLogin string `json:"last_login,omitempty"` // Last successful login
}

// ListUsersHandler returns all accounts for the admin screen
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.GetPrincipal(c)
		users, err := services.ListUsers(db, principal)
		if err != nil {
			writeServiceError(c, err, nil)
			return
		}
		resp := make([]UserResponse, 0, len(users))
		for _, u := range users {
			r := UserResponse{
				ID:       u.ID,
				Username: u.Username,
				Email:    u.Email,
				FullName: u.FullName,
				Role:     u.Role,
				District: u.District,
				Facility: u.Facility,
				IsActive: u.IsActive,
			}
			if u.LastLogin != nil {
				r.LastLogin = u.LastLogin.Format("2006-01-02 15:04")
			}
			resp = append(resp, r)
		}
		c.JSON(http.StatusOK, gin.H{"users": resp})
	}
}

// CreateUserHandler creates a new account (admin only, enforced by the route
// guard and again by the service)
func CreateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.NewUserInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user form: " + err.Error()})
			return
		}
		id, err := services.CreateUser(db, req)
		if err != nil {
			writeServiceError(c, err, nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User created", "user_id": id})
	}
}

package api

import (
	"net/http" // HTTP status codes

	"ccw_tracker/internal/middleware" // Principal extraction
	"ccw_tracker/internal/services"   // Credential store
	"ccw_tracker/internal/utils"      // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// LoginRequest carries the login form fields
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// ChangePasswordRequest carries the change-password form fields
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"` // Current password
	NewPassword     string `json:"new_password" binding:"required"`     // Replacement password
	ConfirmPassword string `json:"confirm_password" binding:"required"` // Must match the replacement
}

// LoginHandler authenticates a user and returns a session token plus the
// principal the session will act as
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide username and password"})
			return
		}
		principal, err := services.Authenticate(db, req.Username, req.Password)
		if err != nil {
			writeServiceError(c, err, nil)
			return
		}
		token, err := utils.GenerateJWT(principal.UserID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": principal})
	}
}

// ChangePasswordHandler replaces the authenticated user's password
func ChangePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
			return
		}
		if req.NewPassword != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New passwords do not match"})
			return
		}
		principal := middleware.GetPrincipal(c)
		if err := services.ChangePassword(db, principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			writeServiceError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}

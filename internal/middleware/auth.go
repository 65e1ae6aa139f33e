package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"ccw_tracker/internal/auth"   // Policy and Principal
	"ccw_tracker/internal/domain" // User model
	"ccw_tracker/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// PrincipalKey is the gin context key holding the resolved Principal
const PrincipalKey = "principal"

// AuthMiddleware resolves the bearer token into a Principal and stores it in
// the request context. The user row is re-read on each request, so
// deactivated accounts lose access immediately even with a live token.
// A missing or invalid token is an unauthenticated request: 401, and the
// client is told where to log in. It is never conflated with 403.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// No token: unauthenticated, redirect target included
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "login": "/auth/login"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the session token
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session", "login": "/auth/login"})
			return
		}
		var user domain.User // Load the user behind the token
		if err := db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
			// Unknown or deactivated user: treat as unauthenticated
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session", "login": "/auth/login"})
			return
		}
		// Attach the Principal; everything downstream trusts only this value
		c.Set(PrincipalKey, auth.Principal{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
			District: user.District,
			Facility: user.Facility,
		})
		c.Next()
	}
}

// RequireAction gates a route on the capability table. The principal is
// already authenticated here, so a denial is 403, not a login redirect.
func RequireAction(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if !principal.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "login": "/auth/login"})
			return
		}
		if !auth.CanPerform(principal.Role, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the Principal set by AuthMiddleware, or the zero
// (unauthenticated) Principal when none was set.
func GetPrincipal(c *gin.Context) auth.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Principal{}
}

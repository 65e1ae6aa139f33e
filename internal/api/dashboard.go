package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"ccw_tracker/internal/middleware" // Principal extraction
	"ccw_tracker/internal/services"   // Dashboard aggregation
	"ccw_tracker/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// DashboardHandler returns the landing-page enrollment summary, served from
// cache when fresh
func DashboardHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.GetPrincipal(c)
		ctx := context.Background() // Context for Redis operations

		var cached services.DashboardStats
		found, err := utils.GetCache(ctx, rdb, utils.CacheKeyDashboard, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"stats": cached, "cached": true})
			return
		}

		stats, err := services.GetDashboardStats(db, principal)
		if err != nil {
			writeServiceError(c, err, nil)
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.CacheKeyDashboard, stats, utils.CacheTTL)
		c.JSON(http.StatusOK, gin.H{"stats": stats, "cached": false})
	}
}

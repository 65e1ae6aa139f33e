package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"ccw_tracker/internal/domain"     // Domain models
	"ccw_tracker/internal/middleware" // Principal extraction
	"ccw_tracker/internal/services"   // Enrollment aggregate
	"ccw_tracker/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// EnrollmentRequest is the enrollment form: the child section plus the
// optional caregiver and case-manager sections flattened into one body.
type EnrollmentRequest struct {
	services.ChildInput
	services.CaregiverInput
	services.CaseManagerInput
}

// CreateEnrollmentHandler writes a child enrollment with its caregiver and
// case-manager records in one transaction. On failure the submitted values
// come back with the error so the form can be re-presented.
func CreateEnrollmentHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EnrollmentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment form: " + err.Error()})
			return
		}
		principal := middleware.GetPrincipal(c)
		id, err := services.CreateEnrollment(db, principal, req.ChildInput, &req.CaregiverInput, &req.CaseManagerInput)
		if err != nil {
			// Nothing was persisted; hand the form back for correction
			writeServiceError(c, err, gin.H{"submitted": req})
			return
		}
		// Drop the stale list and dashboard caches
		utils.InvalidateEnrollmentCaches(context.Background(), rdb)
		c.JSON(http.StatusCreated, gin.H{"message": "Enrollment saved", "enrollment_id": id})
	}
}

// ListEnrollmentsHandler returns the denormalized child records, newest
// enrollment date first, served from cache when fresh
func ListEnrollmentsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.GetPrincipal(c)
		ctx := context.Background() // Context for Redis operations

		var cached []domain.Enrollment
		found, err := utils.GetCache(ctx, rdb, utils.CacheKeyEnrollmentList, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"children": cached, "cached": true})
			return
		}

		children, err := services.ListEnrollments(db, principal)
		if err != nil {
			writeServiceError(c, err, nil)
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.CacheKeyEnrollmentList, children, utils.CacheTTL)
		c.JSON(http.StatusOK, gin.H{"children": children, "cached": false})
	}
}

package main

import (
	"ccw_tracker/internal/api"        // Custom package for API handlers
	"ccw_tracker/internal/auth"       // Authorization policy
	"ccw_tracker/internal/config"     // Custom package for configuration
	"ccw_tracker/internal/middleware" // Custom package for middleware
	"context"                         // context package is needed for Redis operations
	"log"                             // log package is needed for logging

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database; TranslateError turns driver unique-constraint
	// failures into gorm.ErrDuplicatedKey for the services
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/auth/login", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint
	r.POST("/auth/change-password",
		middleware.AuthMiddleware(db, cfg.JWTSecret), api.ChangePasswordHandler(db)) // Password change endpoint

	// Everything below requires an authenticated principal; per-route guards
	// apply the capability table on top
	authed := r.Group("/", middleware.AuthMiddleware(db, cfg.JWTSecret))

	// Dashboard
	authed.GET("/dashboard", middleware.RequireAction(auth.ActionView), api.DashboardHandler(db, redisClient))

	// Enrollment routes
	authed.GET("/enrollment", middleware.RequireAction(auth.ActionView), api.ListEnrollmentsHandler(db, redisClient))
	authed.POST("/enrollment", middleware.RequireAction(auth.ActionEdit), api.CreateEnrollmentHandler(db, redisClient))

	// Report routes
	authed.GET("/reports", middleware.RequireAction(auth.ActionView), api.ListReportsHandler(db))
	authed.GET("/reports/pdf/:id", middleware.RequireAction(auth.ActionView), api.ReportPDFHandler(db))
	authed.POST("/reports", middleware.RequireAction(auth.ActionCoordinateReports), api.CreateReportHandler(db))
	authed.PUT("/reports/:id", middleware.RequireAction(auth.ActionCoordinateReports), api.UpdateReportHandler(db))

	// User management routes (admin only)
	authed.GET("/users", middleware.RequireAction(auth.ActionManageUsers), api.ListUsersHandler(db))
	authed.POST("/users", middleware.RequireAction(auth.ActionManageUsers), api.CreateUserHandler(db))

	log.Println(cfg.AppName + " running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                                // Start the server on port cfg.AppPort
}

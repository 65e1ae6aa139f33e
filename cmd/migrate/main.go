package main

import (
	"ccw_tracker/internal/config" // Custom package for configuration
	"ccw_tracker/internal/db"     // Migration and seed logic
)

// Main function to run database migration and seeding
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run migration against the configured database
}

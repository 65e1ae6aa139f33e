package services

import (
	"testing"

	"ccw_tracker/internal/auth"
	"ccw_tracker/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Enrollment{},
		&domain.Caregiver{},
		&domain.CaseManager{},
		&domain.MonthlyReport{},
		&domain.Metric{},
		&domain.ReportNarrative{},
		&domain.ReportingInstruction{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// seedUser inserts a user with a bcrypt-hashed password and returns it
func seedUser(t *testing.T, db *gorm.DB, username, password, role string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := domain.User{
		Username: username,
		Email:    username + "@example.org",
		Password: string(hash),
		FullName: "Test " + username,
		Role:     role,
		District: "Central",
		Facility: "Main Office",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

// principalFor builds the Principal a session for the user would carry
func principalFor(user domain.User) auth.Principal {
	return auth.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		District: user.District,
		Facility: user.Facility,
	}
}

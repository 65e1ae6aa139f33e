package db

import (
	"ccw_tracker/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// defaultInstructions are the seven guidance lines shown on the monthly
// report form, seeded once.
var defaultInstructions = []string{
	"Report this data at facility level for all sites implementing CCW",
	"Report this data on monthly basis",
	"PSS coordinator should lead in compiling and entering the report in DHIS2",
	"Generate this report \"as of\" or \"by\" (cumulative cohort report)",
	"If the reporting month is November 2024, the reporting period is \"as of\" or \"by\" October 2024",
	"Use CCW Tracker as primary data source for this report",
	"The Treatment Supporter should enter the report in DHIS2 by 5th of every new month",
}

// Migrate creates the schema and seeds the default admin account and the
// reporting instructions
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
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
		logrus.Fatalf("migration failed: %v", err) // Fatal error if migration fails
	}
	Seed(db)
	logrus.Info("Migration completed.")
}

// Seed inserts the default admin user and reporting instructions if absent.
// The default password must be changed after first login.
func Seed(db *gorm.DB) {
	var count int64
	db.Model(&domain.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			logrus.Fatalf("failed to hash default password: %v", err)
		}
		admin := domain.User{
			Username: "admin",
			Email:    "admin@chivwati.org",
			Password: string(hash),
			FullName: "System Administrator",
			Role:     domain.RoleAdmin,
			District: "Central",
			Facility: "Main Office",
			IsActive: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			logrus.Fatalf("failed to seed admin user: %v", err)
		}
		logrus.Info("Default admin user created (username: admin)")
	}

	db.Model(&domain.ReportingInstruction{}).Count(&count)
	if count == 0 {
		for i, text := range defaultInstructions {
			row := domain.ReportingInstruction{Number: i + 1, Text: text, IsActive: true}
			if err := db.Create(&row).Error; err != nil {
				logrus.Fatalf("failed to seed reporting instructions: %v", err)
			}
		}
		logrus.Info("Default reporting instructions inserted")
	}
}

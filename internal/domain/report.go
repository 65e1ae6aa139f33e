package domain

import "time"

// Metric enumerations
var (
	AgeCategories = []string{"0-4", "5-9", "10-14"} // Valid metric age bands
	MetricSexes   = []string{"M", "F", "P", "B"}    // Male, Female, Positive, Both
)

// MonthlyReport Model (one per district+facility+month+year)
type MonthlyReport struct {
	ID             uint       `gorm:"primaryKey"`                              // Primary key
	District       string     `gorm:"size:100;not null;uniqueIndex:uniq_report"` // Composite key part
	Facility       string     `gorm:"size:150;not null;uniqueIndex:uniq_report"` // Composite key part
	ReportingMonth string     `gorm:"size:20;not null;uniqueIndex:uniq_report"`  // Composite key part, month name
	ReportingYear  int        `gorm:"not null;uniqueIndex:uniq_report"`          // Composite key part
	ReportedBy     *uint      // User who filed the report, nulled if that user is removed
	Reporter       *User      `gorm:"foreignKey:ReportedBy;constraint:OnDelete:SET NULL"` // Weak reference, not owned
	ReportDate     *time.Time // Date the report was compiled
	CreatedAt      time.Time  // Timestamp of creation
	UpdatedAt      time.Time  // Timestamp of last update

	// Owned records, deleted with the report
	Metrics   []Metric         `gorm:"constraint:OnDelete:CASCADE"` // Metric rows
	Narrative *ReportNarrative `gorm:"constraint:OnDelete:CASCADE"` // At most one narrative
}

// Metric Model (one counted value within a monthly report)
type Metric struct {
	ID          uint      `gorm:"primaryKey"`        // Primary key
	ReportID    uint      `gorm:"not null;index"`    // Owning report
	Category    string    `gorm:"size:100;not null"` // Metric category
	Name        string    `gorm:"size:200;not null"` // Metric name within the category
	AgeCategory string    `gorm:"size:10"`           // 0-4, 5-9 or 10-14
	Sex         string    `gorm:"size:1"`            // M, F, P or B
	Value       int       `gorm:"default:0"`         // Counted value, never negative
	CreatedAt   time.Time // Timestamp of creation
}

// ReportNarrative Model (free-text section of a monthly report)
type ReportNarrative struct {
	ID            uint      `gorm:"primaryKey"`           // Primary key
	ReportID      uint      `gorm:"uniqueIndex;not null"` // Owning report
	Successes     string    `gorm:"type:text"`            // What went well
	Challenges    string    `gorm:"type:text"`            // What did not
	LessonsLearnt string    `gorm:"type:text"`            // Lessons learnt
	BestPractices string    `gorm:"type:text"`            // Best practices observed
	CreatedAt     time.Time // Timestamp of creation
	UpdatedAt     time.Time // Timestamp of last update
}

// ReportingInstruction Model (static guidance shown on the report form)
type ReportingInstruction struct {
	ID        uint      `gorm:"primaryKey"`     // Primary key
	Number    int       // Display order
	Text      string    `gorm:"type:text;not null"` // Instruction text
	IsActive  bool      `gorm:"default:true"`   // Whether the instruction is shown
	CreatedAt time.Time // Timestamp of creation
}

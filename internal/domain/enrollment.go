package domain

import "time"

// Enrollment Model (child enrollment into the CCW program)
type Enrollment struct {
	ID                  uint       `gorm:"primaryKey"`                   // Primary key
	SerialNumber        string     `gorm:"size:50;uniqueIndex;not null"` // Globally unique serial, stored uppercase, immutable
	District            string     `gorm:"size:100;not null;index"`      // District of the facility
	Facility            string     `gorm:"size:150;not null;index"`      // Facility the child is enrolled at
	CCWEnrollmentDate   time.Time  `gorm:"not null;index"`               // Date of enrollment into CCW
	ChildName           string     `gorm:"size:100;not null"`            // Child's full name
	AgeYears            int        // Child's age in years
	Sex                 string     `gorm:"size:1;not null"` // M or F
	ARTNumber           string     `gorm:"size:50"`         // ART clinic number
	ARTRegimen          string     `gorm:"size:100"`        // Current ART regimen
	DurationOnART       string     `gorm:"size:50"`         // Time on ART, free text
	DisclosureStatus    string     `gorm:"size:30"`         // Not Disclosed, Partially Disclosed, Fully Disclosed
	IACStatus           string     `gorm:"size:30"`         // Not Started, In Progress, Completed
	FirstIACDate        *time.Time // Date of first IAC session
	CompletedIAC        string     `gorm:"size:20"` // Yes, No, In Progress
	FollowupVLCollected string     `gorm:"size:5"`  // Follow-up VL sample collected: Yes or No
	TypeOfVLSample      string     `gorm:"size:10"` // DBS or Plasma
	DateVLCollected     *time.Time // Date the follow-up VL sample was collected
	TestingPlatform     string     `gorm:"size:50"` // VL testing platform
	VLResultReceived    string     `gorm:"size:5"`  // Follow-up VL result received: Yes or No
	VLResult            string     `gorm:"size:50"` // Follow-up VL result
	ResultsNarrative    string     `gorm:"type:text"` // Free-text narrative
	CreatedBy           *uint      // User who created the record, nulled if that user is removed
	Creator             *User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"` // Weak reference, not owned
	CreatedAt           time.Time  // Timestamp of creation
	UpdatedAt           time.Time  // Timestamp of last update

	// Owned records, deleted with the enrollment
	Caregiver   *Caregiver   `gorm:"constraint:OnDelete:CASCADE"` // At most one caregiver
	CaseManager *CaseManager `gorm:"constraint:OnDelete:CASCADE"` // At most one case manager
}

// Caregiver Model (owned by exactly one Enrollment)
type Caregiver struct {
	ID              uint      `gorm:"primaryKey"`          // Primary key
	EnrollmentID    uint      `gorm:"uniqueIndex;not null"` // Owning enrollment
	CaregiverName   string    `gorm:"size:100;not null"`   // Caregiver's full name
	ContactNumber   string    `gorm:"size:20"`             // Phone number
	PhysicalAddress string    `gorm:"type:text"`           // Home address
	AgeYears        int       // Caregiver's age in years
	Sex             string    `gorm:"size:1"`  // M or F
	Relationship    string    `gorm:"size:50"` // Relationship of child to caregiver
	HIVStatus       string    `gorm:"size:10"` // Positive, Negative, Unknown
	ARTStatus       string    `gorm:"size:50"` // ART status if positive
	RecentVLResults string    `gorm:"size:50"` // Recent VL results if positive
	CreatedAt       time.Time // Timestamp of creation
	UpdatedAt       time.Time // Timestamp of last update
}

// CaseManager Model (owned by exactly one Enrollment)
type CaseManager struct {
	ID                 uint       `gorm:"primaryKey"`           // Primary key
	EnrollmentID       uint       `gorm:"uniqueIndex;not null"` // Owning enrollment
	ManagerName        string     `gorm:"size:100;not null"`    // Case manager's full name
	ContactNumber      string     `gorm:"size:20"`              // Phone number
	Cadre              string     `gorm:"size:50"`              // Case manager cadre
	HomeAssessmentDone string     `gorm:"size:5"`               // Yes or No
	AssessmentDate     *time.Time // Date of home assessment
	IssuesIdentified   string     `gorm:"type:text"` // Issues found during assessment
	ActionPlan         string     `gorm:"type:text"` // Action plan in place
	KeyStepsTaken      string     `gorm:"type:text"` // Key steps taken so far
	TypeOfDOTS         string     `gorm:"size:50"`   // Type of DOTS provided
	HomeVisits         int        `gorm:"default:0"` // Number of home visits
	Comments           string     `gorm:"type:text"` // Additional information
	CreatedAt          time.Time  // Timestamp of creation
	UpdatedAt          time.Time  // Timestamp of last update
}

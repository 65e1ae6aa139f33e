package services

import (
	"errors"
	"strings"
	"time"

	"ccw_tracker/internal/auth"
	"ccw_tracker/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// dateLayout is the wire format for all date fields
const dateLayout = "2006-01-02"

// Enumerations accepted on the enrollment form
var (
	childSexes         = map[string]bool{"M": true, "F": true}
	disclosureStatuses = map[string]bool{"Not Disclosed": true, "Partially Disclosed": true, "Fully Disclosed": true}
	iacStatuses        = map[string]bool{"Not Started": true, "In Progress": true, "Completed": true}
	hivStatuses        = map[string]bool{"Positive": true, "Negative": true, "Unknown": true}
)

// ChildInput carries the enrollment form fields. Field names are a stable
// contract with the web layer.
type ChildInput struct {
	SerialNumber        string `json:"serial_number" binding:"required"`
	District            string `json:"district" binding:"required"`
	Facility            string `json:"facility" binding:"required"`
	CCWEnrollmentDate   string `json:"ccw_enrollment_date" binding:"required"`
	ChildName           string `json:"child_name" binding:"required"`
	AgeYears            int    `json:"age_years"`
	Sex                 string `json:"sex" binding:"required"`
	ARTNumber           string `json:"art_number"`
	ARTRegimen          string `json:"art_regimen"`
	DurationOnART       string `json:"duration_on_art"`
	DisclosureStatus    string `json:"disclosure_status"`
	IACStatus           string `json:"iac_status"`
	FirstIACDate        string `json:"first_iac_date"`
	CompletedIAC        string `json:"completed_iac"`
	FollowupVLCollected string `json:"followup_vl_sample_collected"`
	TypeOfVLSample      string `json:"type_of_vl_sample"`
	DateVLCollected     string `json:"date_followup_vl_sample_collected"`
	TestingPlatform     string `json:"testing_platform"`
	VLResultReceived    string `json:"followup_vl_result_received"`
	VLResult            string `json:"followup_vl_result"`
	ResultsNarrative    string `json:"results_narrative"`
}

// CaregiverInput carries the optional caregiver section of the form. The
// section is considered present when the caregiver name is non-empty.
type CaregiverInput struct {
	CaregiverName   string `json:"caregiver_name"`
	ContactNumber   string `json:"contact_number"`
	PhysicalAddress string `json:"physical_address"`
	AgeYears        int    `json:"caregiver_age"`
	Sex             string `json:"caregiver_sex"`
	Relationship    string `json:"relationship"`
	HIVStatus       string `json:"hiv_status"`
	ARTStatus       string `json:"art_status_if_positive"`
	RecentVLResults string `json:"recent_vl_results_if_positive"`
}

// CaseManagerInput carries the optional case-manager section of the form,
// present when the manager name is non-empty.
type CaseManagerInput struct {
	ManagerName        string `json:"manager_name"`
	ContactNumber      string `json:"manager_contact_number"`
	Cadre              string `json:"cadre"`
	HomeAssessmentDone string `json:"home_assessment_done"`
	AssessmentDate     string `json:"date_of_home_assessment"`
	IssuesIdentified   string `json:"issues_identified"`
	ActionPlan         string `json:"action_plan_in_place"`
	KeyStepsTaken      string `json:"key_steps_taken"`
	TypeOfDOTS         string `json:"type_of_dots"`
	HomeVisits         int    `json:"number_of_home_visits"`
	Comments           string `json:"comments_additional_info"`
}

// CreateEnrollment writes a child enrollment and its optional caregiver and
// case-manager records as one unit: either all rows persist or none do. The
// serial number is normalized to uppercase and must be globally unique.
// Returns the new enrollment id.
func CreateEnrollment(db *gorm.DB, principal auth.Principal, child ChildInput, caregiver *CaregiverInput, manager *CaseManagerInput) (uint, error) {
	if err := requireAction(principal, auth.ActionEdit); err != nil {
		return 0, err
	}

	serial := strings.ToUpper(strings.TrimSpace(child.SerialNumber))
	if serial == "" {
		return 0, Errf(KindPolicyViolation, "serial_number", "serial number is required")
	}
	if !childSexes[child.Sex] {
		return 0, Errf(KindPolicyViolation, "sex", "sex must be M or F")
	}
	if child.DisclosureStatus != "" && !disclosureStatuses[child.DisclosureStatus] {
		return 0, Errf(KindPolicyViolation, "disclosure_status", "unknown disclosure status %q", child.DisclosureStatus)
	}
	if child.IACStatus != "" && !iacStatuses[child.IACStatus] {
		return 0, Errf(KindPolicyViolation, "iac_status", "unknown IAC status %q", child.IACStatus)
	}
	enrollDate, err := time.Parse(dateLayout, child.CCWEnrollmentDate)
	if err != nil {
		return 0, Errf(KindPolicyViolation, "ccw_enrollment_date", "enrollment date must be YYYY-MM-DD")
	}
	if caregiver != nil && caregiver.HIVStatus != "" && !hivStatuses[caregiver.HIVStatus] {
		return 0, Errf(KindPolicyViolation, "hiv_status", "unknown HIV status %q", caregiver.HIVStatus)
	}

	// Pre-check for a friendly message; the unique index is the arbiter
	// under concurrent creates.
	var count int64
	if err := db.Model(&domain.Enrollment{}).Where("serial_number = ?", serial).Count(&count).Error; err == nil && count > 0 {
		return 0, Errf(KindDuplicateKey, "serial_number", "serial number %q already exists", serial)
	}

	createdBy := principal.UserID
	enrollment := domain.Enrollment{
		SerialNumber:        serial,
		District:            child.District,
		Facility:            child.Facility,
		CCWEnrollmentDate:   enrollDate,
		ChildName:           child.ChildName,
		AgeYears:            child.AgeYears,
		Sex:                 child.Sex,
		ARTNumber:           child.ARTNumber,
		ARTRegimen:          child.ARTRegimen,
		DurationOnART:       child.DurationOnART,
		DisclosureStatus:    child.DisclosureStatus,
		IACStatus:           child.IACStatus,
		FirstIACDate:        parseOptionalDate(child.FirstIACDate),
		CompletedIAC:        child.CompletedIAC,
		FollowupVLCollected: child.FollowupVLCollected,
		TypeOfVLSample:      child.TypeOfVLSample,
		DateVLCollected:     parseOptionalDate(child.DateVLCollected),
		TestingPlatform:     child.TestingPlatform,
		VLResultReceived:    child.VLResultReceived,
		VLResult:            child.VLResult,
		ResultsNarrative:    child.ResultsNarrative,
		CreatedBy:           &createdBy, // Always the principal, never client-supplied
	}

	// All rows commit together or not at all
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return err // Rolls back
		}
		if caregiver != nil && strings.TrimSpace(caregiver.CaregiverName) != "" {
			row := domain.Caregiver{
				EnrollmentID:    enrollment.ID,
				CaregiverName:   caregiver.CaregiverName,
				ContactNumber:   caregiver.ContactNumber,
				PhysicalAddress: caregiver.PhysicalAddress,
				AgeYears:        caregiver.AgeYears,
				Sex:             caregiver.Sex,
				Relationship:    caregiver.Relationship,
				HIVStatus:       caregiver.HIVStatus,
				ARTStatus:       caregiver.ARTStatus,
				RecentVLResults: caregiver.RecentVLResults,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err // Rolls back the enrollment insert too
			}
		}
		if manager != nil && strings.TrimSpace(manager.ManagerName) != "" {
			row := domain.CaseManager{
				EnrollmentID:       enrollment.ID,
				ManagerName:        manager.ManagerName,
				ContactNumber:      manager.ContactNumber,
				Cadre:              manager.Cadre,
				HomeAssessmentDone: manager.HomeAssessmentDone,
				AssessmentDate:     parseOptionalDate(manager.AssessmentDate),
				IssuesIdentified:   manager.IssuesIdentified,
				ActionPlan:         manager.ActionPlan,
				KeyStepsTaken:      manager.KeyStepsTaken,
				TypeOfDOTS:         manager.TypeOfDOTS,
				HomeVisits:         manager.HomeVisits,
				Comments:           manager.Comments,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil // Commit
	})
	if txErr != nil {
		logrus.WithFields(logrus.Fields{
			"serial_number": serial,
			"user_id":       principal.UserID,
			"error":         txErr.Error(),
		}).Error("Enrollment create failed")
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return 0, Errf(KindDuplicateKey, "serial_number", "serial number %q already exists", serial)
		}
		return 0, &ServiceError{Kind: KindTransaction, Message: "enrollment was not saved", Cause: txErr}
	}

	logrus.WithFields(logrus.Fields{
		"enrollment_id": enrollment.ID,
		"serial_number": serial,
		"user_id":       principal.UserID,
	}).Info("Enrollment created")
	return enrollment.ID, nil
}

// ListEnrollments returns every enrollment with its caregiver and case
// manager, newest enrollment date first, insertion order breaking ties.
func ListEnrollments(db *gorm.DB, principal auth.Principal) ([]domain.Enrollment, error) {
	if err := requireAction(principal, auth.ActionView); err != nil {
		return nil, err
	}
	var children []domain.Enrollment
	err := db.Preload("Caregiver").Preload("CaseManager").
		Order("ccw_enrollment_date DESC, id ASC").
		Find(&children).Error
	if err != nil {
		return nil, &ServiceError{Kind: KindTransaction, Message: "failed to list enrollments", Cause: err}
	}
	return children, nil
}

// parseOptionalDate returns nil for empty or malformed optional dates
func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

package services

import (
	"errors"
	"time"

	"ccw_tracker/internal/auth"
	"ccw_tracker/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Metric enumerations as lookup sets
var (
	metricAges  = map[string]bool{"0-4": true, "5-9": true, "10-14": true}
	metricSexes = map[string]bool{"M": true, "F": true, "P": true, "B": true}
)

// MetricInput is one counted value on the monthly report form. Any
// category/name/age/sex combination may be omitted from a report; an omitted
// metric means not reported, not zero.
type MetricInput struct {
	Category    string `json:"metric_category" binding:"required"`
	Name        string `json:"metric_name" binding:"required"`
	AgeCategory string `json:"age_category"`
	Sex         string `json:"sex"`
	Value       int    `json:"value"`
}

// NarrativeInput is the free-text section of the monthly report form
type NarrativeInput struct {
	Successes     string `json:"successes"`
	Challenges    string `json:"challenges"`
	LessonsLearnt string `json:"lessons_learnt"`
	BestPractices string `json:"best_practices"`
}

// MonthlyReportInput carries a full report submission
type MonthlyReportInput struct {
	District       string          `json:"district" binding:"required"`
	Facility       string          `json:"facility" binding:"required"`
	ReportingMonth string          `json:"reporting_month" binding:"required"`
	ReportingYear  int             `json:"reporting_year" binding:"required"`
	ReportDate     string          `json:"report_date"`
	Metrics        []MetricInput   `json:"metrics"`
	Narrative      *NarrativeInput `json:"narrative"`
}

// validateMetrics rejects malformed enumerated fields and negative counts
func validateMetrics(metrics []MetricInput) error {
	for _, m := range metrics {
		if m.AgeCategory != "" && !metricAges[m.AgeCategory] {
			return Errf(KindPolicyViolation, "age_category", "unknown age category %q", m.AgeCategory)
		}
		if m.Sex != "" && !metricSexes[m.Sex] {
			return Errf(KindPolicyViolation, "sex", "metric sex must be one of M, F, P, B")
		}
		if m.Value < 0 {
			return Errf(KindPolicyViolation, "value", "metric %q may not be negative", m.Name)
		}
	}
	return nil
}

// CreateMonthlyReport files a new report for a district+facility+period. The
// report row, its metric rows and the optional narrative commit as one unit.
// A report already filed for the same period and site fails with a duplicate
// key; revisions go through UpdateMonthlyReport instead.
func CreateMonthlyReport(db *gorm.DB, principal auth.Principal, input MonthlyReportInput) (uint, error) {
	if err := requireAction(principal, auth.ActionCoordinateReports); err != nil {
		return 0, err
	}
	if err := validateMetrics(input.Metrics); err != nil {
		return 0, err
	}

	// Pre-check the composite key for a friendly message; the unique index
	// decides when two coordinators race.
	var count int64
	err := db.Model(&domain.MonthlyReport{}).
		Where("district = ? AND facility = ? AND reporting_month = ? AND reporting_year = ?",
			input.District, input.Facility, input.ReportingMonth, input.ReportingYear).
		Count(&count).Error
	if err == nil && count > 0 {
		return 0, Errf(KindDuplicateKey, "reporting_month", "a report for %s %s %s %d already exists",
			input.District, input.Facility, input.ReportingMonth, input.ReportingYear)
	}

	reportedBy := principal.UserID
	report := domain.MonthlyReport{
		District:       input.District,
		Facility:       input.Facility,
		ReportingMonth: input.ReportingMonth,
		ReportingYear:  input.ReportingYear,
		ReportedBy:     &reportedBy,
		ReportDate:     parseOptionalDate(input.ReportDate),
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		return writeReportChildren(tx, report.ID, input.Metrics, input.Narrative)
	})
	if txErr != nil {
		logrus.WithFields(logrus.Fields{
			"district": input.District,
			"facility": input.Facility,
			"period":   input.ReportingMonth,
			"year":     input.ReportingYear,
			"error":    txErr.Error(),
		}).Error("Monthly report create failed")
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return 0, Errf(KindDuplicateKey, "reporting_month", "a report for %s %s %s %d already exists",
				input.District, input.Facility, input.ReportingMonth, input.ReportingYear)
		}
		return 0, &ServiceError{Kind: KindTransaction, Message: "report was not saved", Cause: txErr}
	}

	logrus.WithFields(logrus.Fields{
		"report_id": report.ID,
		"user_id":   principal.UserID,
	}).Info("Monthly report created")
	return report.ID, nil
}

// UpdateMonthlyReport is the explicit revision path: it targets an existing
// report id and replaces its metrics and narrative in one transaction. The
// composite key of the report itself is immutable.
func UpdateMonthlyReport(db *gorm.DB, principal auth.Principal, reportID uint, input MonthlyReportInput) error {
	if err := requireAction(principal, auth.ActionCoordinateReports); err != nil {
		return err
	}
	if err := validateMetrics(input.Metrics); err != nil {
		return err
	}

	var report domain.MonthlyReport
	if err := db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(KindNotFound, "", "report %d does not exist", reportID)
		}
		return &ServiceError{Kind: KindTransaction, Message: "report lookup failed", Cause: err}
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Delete(&domain.Metric{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&domain.ReportNarrative{}).Error; err != nil {
			return err
		}
		if input.ReportDate != "" {
			if err := tx.Model(&report).Update("report_date", parseOptionalDate(input.ReportDate)).Error; err != nil {
				return err
			}
		}
		return writeReportChildren(tx, reportID, input.Metrics, input.Narrative)
	})
	if txErr != nil {
		logrus.WithFields(logrus.Fields{
			"report_id": reportID,
			"error":     txErr.Error(),
		}).Error("Monthly report update failed")
		return &ServiceError{Kind: KindTransaction, Message: "report revision was not saved", Cause: txErr}
	}
	return nil
}

// writeReportChildren inserts metric rows and the narrative under a report id
// inside the caller's transaction.
func writeReportChildren(tx *gorm.DB, reportID uint, metrics []MetricInput, narrative *NarrativeInput) error {
	for _, m := range metrics {
		row := domain.Metric{
			ReportID:    reportID,
			Category:    m.Category,
			Name:        m.Name,
			AgeCategory: m.AgeCategory,
			Sex:         m.Sex,
			Value:       m.Value,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	if narrative != nil {
		row := domain.ReportNarrative{
			ReportID:      reportID,
			Successes:     narrative.Successes,
			Challenges:    narrative.Challenges,
			LessonsLearnt: narrative.LessonsLearnt,
			BestPractices: narrative.BestPractices,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetMonthlyReport loads one report with its metrics and narrative
func GetMonthlyReport(db *gorm.DB, reportID uint) (*domain.MonthlyReport, error) {
	var report domain.MonthlyReport
	err := db.Preload("Metrics").Preload("Narrative").First(&report, reportID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errf(KindNotFound, "", "report %d does not exist", reportID)
		}
		return nil, &ServiceError{Kind: KindTransaction, Message: "report lookup failed", Cause: err}
	}
	return &report, nil
}

// ListMonthlyReports returns all reports, most recent period first
func ListMonthlyReports(db *gorm.DB, principal auth.Principal) ([]domain.MonthlyReport, error) {
	if err := requireAction(principal, auth.ActionView); err != nil {
		return nil, err
	}
	var reports []domain.MonthlyReport
	err := db.Order("reporting_year DESC, reporting_month DESC").Find(&reports).Error
	if err != nil {
		return nil, &ServiceError{Kind: KindTransaction, Message: "failed to list reports", Cause: err}
	}
	return reports, nil
}

// DistrictStat is one row of the per-district enrollment summary
type DistrictStat struct {
	District         string  `json:"district"`
	TotalEnrollments int64   `json:"total_enrollments"`
	Males            int64   `json:"males"`
	Females          int64   `json:"females"`
	AverageAge       float64 `json:"average_age"`
}

// DashboardStats is the landing-page summary
type DashboardStats struct {
	TotalChildren     int64               `json:"total_children"`
	ByDistrict        []DistrictStat      `json:"by_district"`
	RecentEnrollments []domain.Enrollment `json:"recent_enrollments"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// GetDashboardStats aggregates enrollment counts for the dashboard
func GetDashboardStats(db *gorm.DB, principal auth.Principal) (*DashboardStats, error) {
	if err := requireAction(principal, auth.ActionView); err != nil {
		return nil, err
	}

	stats := DashboardStats{GeneratedAt: time.Now()}
	if err := db.Model(&domain.Enrollment{}).Count(&stats.TotalChildren).Error; err != nil {
		return nil, &ServiceError{Kind: KindTransaction, Message: "failed to count enrollments", Cause: err}
	}
	err := db.Model(&domain.Enrollment{}).
		Select("district, COUNT(*) AS total_enrollments, " +
			"SUM(CASE WHEN sex = 'M' THEN 1 ELSE 0 END) AS males, " +
			"SUM(CASE WHEN sex = 'F' THEN 1 ELSE 0 END) AS females, " +
			"ROUND(AVG(age_years), 1) AS average_age").
		Group("district").
		Scan(&stats.ByDistrict).Error
	if err != nil {
		return nil, &ServiceError{Kind: KindTransaction, Message: "failed to aggregate by district", Cause: err}
	}
	err = db.Order("created_at DESC, id DESC").Limit(5).Find(&stats.RecentEnrollments).Error
	if err != nil {
		return nil, &ServiceError{Kind: KindTransaction, Message: "failed to load recent enrollments", Cause: err}
	}
	return &stats, nil
}

package services

import (
	"testing"

	"ccw_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleReport returns a valid monthly report submission
func sampleReport() MonthlyReportInput {
	return MonthlyReportInput{
		District:       "Lilongwe",
		Facility:       "Area 18 Health Centre",
		ReportingMonth: "March",
		ReportingYear:  2024,
		ReportDate:     "2024-04-03",
		Metrics: []MetricInput{
			{Category: "Enrollment", Name: "Children enrolled in CCW", AgeCategory: "0-4", Sex: "M", Value: 12},
			{Category: "Enrollment", Name: "Children enrolled in CCW", AgeCategory: "5-9", Sex: "F", Value: 9},
			{Category: "Viral Load", Name: "Children with suppressed VL", AgeCategory: "10-14", Sex: "B", Value: 17},
		},
		Narrative: &NarrativeInput{
			Successes:  "All caregivers attended the March session.",
			Challenges: "Two facilities reported stockouts.",
		},
	}
}

// TestCreateMonthlyReportAtomic writes the report with its metrics and
// narrative as one unit
func TestCreateMonthlyReportAtomic(t *testing.T) {
	db := setupTestDB(t)
	coord := seedUser(t, db, "coordinator", "secret123", domain.RolePSSCoordinator)

	id, err := CreateMonthlyReport(db, principalFor(coord), sampleReport())
	require.NoError(t, err)
	require.NotZero(t, id)

	stored, err := GetMonthlyReport(db, id)
	require.NoError(t, err)
	assert.Len(t, stored.Metrics, 3)
	require.NotNil(t, stored.Narrative)
	assert.Contains(t, stored.Narrative.Successes, "March session")
	require.NotNil(t, stored.ReportedBy)
	assert.Equal(t, coord.ID, *stored.ReportedBy)
}

// TestCreateMonthlyReportDuplicateKey rejects a second report for the same
// district+facility+period and leaves exactly one
func TestCreateMonthlyReportDuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	coord := seedUser(t, db, "coordinator", "secret123", domain.RolePSSCoordinator)

	_, err := CreateMonthlyReport(db, principalFor(coord), sampleReport())
	require.NoError(t, err)

	_, err = CreateMonthlyReport(db, principalFor(coord), sampleReport())
	require.Error(t, err)
	assert.Equal(t, KindDuplicateKey, KindOf(err))

	var count int64
	db.Model(&domain.MonthlyReport{}).
		Where("district = ? AND facility = ? AND reporting_month = ? AND reporting_year = ?",
			"Lilongwe", "Area 18 Health Centre", "March", 2024).
		Count(&count)
	assert.EqualValues(t, 1, count)

	// A different period for the same site is fine
	april := sampleReport()
	april.ReportingMonth = "April"
	_, err = CreateMonthlyReport(db, principalFor(coord), april)
	assert.NoError(t, err)
}

// TestCreateMonthlyReportForbidden denies roles without report coordination
func TestCreateMonthlyReportForbidden(t *testing.T) {
	db := setupTestDB(t)
	clerk := seedUser(t, db, "clerk", "secret123", domain.RoleDataEntry)
	viewer := seedUser(t, db, "viewer", "secret123", domain.RoleViewer)

	_, err := CreateMonthlyReport(db, principalFor(clerk), sampleReport())
	assert.Equal(t, KindForbidden, KindOf(err))
	_, err = CreateMonthlyReport(db, principalFor(viewer), sampleReport())
	assert.Equal(t, KindForbidden, KindOf(err))

	// But both may read the list
	_, err = ListMonthlyReports(db, principalFor(viewer))
	assert.NoError(t, err)
}

// TestCreateMonthlyReportMetricValidation names the offending field
func TestCreateMonthlyReportMetricValidation(t *testing.T) {
	db := setupTestDB(t)
	coord := seedUser(t, db, "coordinator", "secret123", domain.RolePSSCoordinator)
	p := principalFor(coord)

	badAge := sampleReport()
	badAge.Metrics[0].AgeCategory = "15-19"
	_, err := CreateMonthlyReport(db, p, badAge)
	assert.Equal(t, KindPolicyViolation, KindOf(err))

	badSex := sampleReport()
	badSex.Metrics[0].Sex = "X"
	_, err = CreateMonthlyReport(db, p, badSex)
	assert.Equal(t, KindPolicyViolation, KindOf(err))

	negative := sampleReport()
	negative.Metrics[0].Value = -1
	_, err = CreateMonthlyReport(db, p, negative)
	assert.Equal(t, KindPolicyViolation, KindOf(err))

	var count int64
	db.Model(&domain.MonthlyReport{}).Count(&count)
	assert.Zero(t, count, "rejected reports must not persist anything")
}

// TestCreateMonthlyReportPartialMetrics allows omitted combinations
func TestCreateMonthlyReportPartialMetrics(t *testing.T) {
	db := setupTestDB(t)
	coord := seedUser(t, db, "coordinator", "secret123", domain.RolePSSCoordinator)

	partial := sampleReport()
	partial.Metrics = partial.Metrics[:1] // Only one combination reported
	partial.Narrative = nil

	id, err := CreateMonthlyReport(db, principalFor(coord), partial)
	require.NoError(t, err)

	stored, err := GetMonthlyReport(db, id)
	require.NoError(t, err)
	assert.Len(t, stored.Metrics, 1)
	assert.Nil(t, stored.Narrative)
}

// TestUpdateMonthlyReport replaces metrics and narrative by report id
func TestUpdateMonthlyReport(t *testing.T) {
	db := setupTestDB(t)
	coord := seedUser(t, db, "coordinator", "secret123", domain.RolePSSCoordinator)

	id, err := CreateMonthlyReport(db, principalFor(coord), sampleReport())
	require.NoError(t, err)

	revision := sampleReport()
	revision.Metrics = []MetricInput{
		{Category: "Enrollment", Name: "Children enrolled in CCW", AgeCategory: "0-4", Sex: "M", Value: 14},
	}
	revision.Narrative = &NarrativeInput{Successes: "Corrected figures after verification."}
	require.NoError(t, UpdateMonthlyReport(db, principalFor(coord), id, revision))

	stored, err := GetMonthlyReport(db, id)
	require.NoError(t, err)
	require.Len(t, stored.Metrics, 1)
	assert.Equal(t, 14, stored.Metrics[0].Value)
	require.NotNil(t, stored.Narrative)
	assert.Contains(t, stored.Narrative.Successes, "Corrected")

	// Unknown ids are not found
	err = UpdateMonthlyReport(db, principalFor(coord), 9999, revision)
	assert.Equal(t, KindNotFound, KindOf(err))
}

// TestGetMonthlyReportNotFound covers the missing-report path
func TestGetMonthlyReportNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetMonthlyReport(db, 42)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

// TestGetDashboardStats aggregates enrollment counts by district
func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	clerk := seedUser(t, db, "clerk", "secret123", domain.RoleDataEntry)

	boy := validChild("ccw-100")
	boy.Sex = "M"
	boy.AgeYears = 4
	girl := validChild("ccw-101")
	girl.AgeYears = 10
	_, err := CreateEnrollment(db, principalFor(clerk), boy, nil, nil)
	require.NoError(t, err)
	_, err = CreateEnrollment(db, principalFor(clerk), girl, nil, nil)
	require.NoError(t, err)

	stats, err := GetDashboardStats(db, principalFor(clerk))
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalChildren)
	require.Len(t, stats.ByDistrict, 1)
	assert.Equal(t, "Lilongwe", stats.ByDistrict[0].District)
	assert.EqualValues(t, 2, stats.ByDistrict[0].TotalEnrollments)
	assert.EqualValues(t, 1, stats.ByDistrict[0].Males)
	assert.EqualValues(t, 1, stats.ByDistrict[0].Females)
	assert.Len(t, stats.RecentEnrollments, 2)
}

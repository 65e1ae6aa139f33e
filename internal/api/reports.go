package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"ccw_tracker/internal/middleware" // Principal extraction
	"ccw_tracker/internal/report"     // PDF projection
	"ccw_tracker/internal/services"   // Reporting aggregate

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ListReportsHandler returns all monthly reports, most recent period first
func ListReportsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.GetPrincipal(c)
		reports, err := services.ListMonthlyReports(db, principal)
		if err != nil {
			writeServiceError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reports": reports})
	}
}

// CreateReportHandler files a monthly report for a district+facility+period
func CreateReportHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.MonthlyReportInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report form: " + err.Error()})
			return
		}
		principal := middleware.GetPrincipal(c)
		id, err := services.CreateMonthlyReport(db, principal, req)
		if err != nil {
			// Nothing was persisted; hand the form back for correction
			writeServiceError(c, err, gin.H{"submitted": req})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Report saved", "report_id": id})
	}
}

// UpdateReportHandler is the explicit revision path for an existing report
func UpdateReportHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
			return
		}
		var req services.MonthlyReportInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report form: " + err.Error()})
			return
		}
		principal := middleware.GetPrincipal(c)
		if err := services.UpdateMonthlyReport(db, principal, uint(reportID), req); err != nil {
			writeServiceError(c, err, gin.H{"submitted": req})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Report updated"})
	}
}

// ReportPDFHandler streams a monthly report as a PDF attachment
func ReportPDFHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
			return
		}
		rpt, err := services.GetMonthlyReport(db, uint(reportID))
		if err != nil {
			writeServiceError(c, err, nil)
			return
		}
		pdfBytes, err := report.Render(rpt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+report.Filename(rpt.ID))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}

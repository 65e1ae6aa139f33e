// Package report renders a monthly report as a PDF document. Rendering is a
// pure projection of an already-loaded report; it performs no queries and has
// no side effects.
package report

import (
	"bytes"
	"fmt"

	"ccw_tracker/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// Filename returns the download name for a report document
func Filename(reportID uint) string {
	return fmt.Sprintf("report-%d.pdf", reportID)
}

// Render produces the PDF bytes for a monthly report
func Render(r *domain.MonthlyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "CHIVWATI cha WANA Monthly Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Report identity
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("District: %s", r.District), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Facility: %s", r.Facility), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Period: %s %d", r.ReportingMonth, r.ReportingYear), "", 1, "L", false, 0, "")
	if r.ReportDate != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Report date: %s", r.ReportDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(r.Metrics) > 0 {
		writeMetricTable(pdf, r.Metrics)
	}
	if r.Narrative != nil {
		writeNarrative(pdf, r.Narrative)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// writeMetricTable lays out the metric rows as a simple bordered table
func writeMetricTable(pdf *gofpdf.Fpdf, metrics []domain.Metric) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Metrics", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	widths := []float64{45, 75, 20, 15, 20}
	headers := []string{"Category", "Metric", "Age", "Sex", "Value"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, m := range metrics {
		pdf.CellFormat(widths[0], 6, m.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, m.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, m.AgeCategory, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, m.Sex, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%d", m.Value), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// writeNarrative lays out the free-text sections
func writeNarrative(pdf *gofpdf.Fpdf, n *domain.ReportNarrative) {
	sections := []struct {
		title string
		body  string
	}{
		{"Successes", n.Successes},
		{"Challenges", n.Challenges},
		{"Lessons Learnt", n.LessonsLearnt},
		{"Best Practices", n.BestPractices},
	}
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, s.title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, s.body, "", "L", false)
		pdf.Ln(2)
	}
}

package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/traxovo/fleetrec/internal/model"
)

// PDFWriter emits a printable summary with a per-driver table.
type PDFWriter struct{}

// Format returns the writer's format name.
func (w *PDFWriter) Format() string { return FormatPDF }

// Write implements service.ReportWriter.
func (w *PDFWriter) Write(_ context.Context, report *model.Report, path string) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Driver Attendance Report - %s", report.Date))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Policy: %s    Drivers: %d    On Time: %d    Late: %d    Early End: %d    Not On Job: %d",
		report.Policy, report.Summary.TotalDrivers, report.Summary.OnTime,
		report.Summary.Late, report.Summary.EarlyEnd, report.Summary.NotOnJob))
	pdf.Ln(10)

	if report.IsTestData {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, "WARNING: driving history flagged as test data; all drivers reported Not On Job.")
		pdf.Ln(8)
	}

	widths := []float64{55, 40, 35, 28, 75, 22, 22}
	headers := []string{"Driver", "Assets", "Job Site", "Status", "Reason", "Key On", "Key Off"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, rec := range report.Drivers {
		cols := []string{
			rec.DisplayName,
			strings.Join(rec.AssetIDs, ", "),
			rec.JobSite,
			string(rec.Status),
			rec.Reason,
			rec.KeyOn,
			rec.KeyOff,
		}
		for i, v := range cols {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	for _, line := range definitions(report.Policy) {
		pdf.Cell(0, 4, line)
		pdf.Ln(4)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

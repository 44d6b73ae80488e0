package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/traxovo/fleetrec/internal/model"
)

// XLSXWriter emits a workbook with one sheet per classification bucket plus a
// Definitions sheet stating the rule in force.
type XLSXWriter struct{}

// Format returns the writer's format name.
func (w *XLSXWriter) Format() string { return FormatXLSX }

// Write implements service.ReportWriter.
func (w *XLSXWriter) Write(_ context.Context, report *model.Report, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for _, status := range model.AllStatuses() {
		if err := writeBucket(f, report, status); err != nil {
			return err
		}
	}
	if err := writeDefinitions(f, report); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on On Time.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeBucket(f *excelize.File, report *model.Report, status model.Status) error {
	sheet := string(status)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	header := make([]any, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %q: %w", sheet, err)
	}

	rowIdx := 2
	for _, rec := range report.Drivers {
		if rec.Status != status {
			continue
		}
		row := driverRow(rec)
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row on %q: %w", sheet, err)
		}
		rowIdx++
	}
	return nil
}

func writeDefinitions(f *excelize.File, report *model.Report) error {
	const sheet = "Definitions"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	lines := definitions(report.Policy)
	lines = append(lines,
		fmt.Sprintf("Date: %s", report.Date),
		fmt.Sprintf("Drivers: %d (on time %d, late %d, early end %d, not on job %d)",
			report.Summary.TotalDrivers, report.Summary.OnTime, report.Summary.Late,
			report.Summary.EarlyEnd, report.Summary.NotOnJob),
	)

	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, line); err != nil {
			return fmt.Errorf("failed to write definitions: %w", err)
		}
	}
	return nil
}

package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/traxovo/fleetrec/internal/model"
)

// CSVWriter emits one row per driver with a fixed header matching the JSON
// driver fields.
type CSVWriter struct{}

// Format returns the writer's format name.
func (w *CSVWriter) Format() string { return FormatCSV }

// Write implements service.ReportWriter.
func (w *CSVWriter) Write(_ context.Context, report *model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range report.Drivers {
		if err := writer.Write(driverRow(rec)); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", rec.Driver, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

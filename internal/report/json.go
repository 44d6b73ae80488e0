package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/traxovo/fleetrec/internal/model"
)

// JSONWriter emits the canonical report: UTF-8, 2-space indent.
type JSONWriter struct{}

// Format returns the writer's format name.
func (w *JSONWriter) Format() string { return FormatJSON }

// Write implements service.ReportWriter.
func (w *JSONWriter) Write(_ context.Context, report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Package report serializes reconciliation results for human consumption.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/traxovo/fleetrec/internal/model"
	"github.com/traxovo/fleetrec/internal/service"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ForFormat constructs the writer for one output format.
func ForFormat(format string) (service.ReportWriter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return &JSONWriter{}, nil
	case FormatCSV:
		return &CSVWriter{}, nil
	case FormatXLSX:
		return &XLSXWriter{}, nil
	case FormatPDF:
		return &PDFWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// ForFormats constructs writers for each requested format, rejecting unknown
// ones up front so a long run never fails at write time.
func ForFormats(formats []string) ([]service.ReportWriter, error) {
	writers := make([]service.ReportWriter, 0, len(formats))
	for _, format := range formats {
		w, err := ForFormat(format)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	return writers, nil
}

// csvHeader is the fixed column set shared by the CSV and XLSX writers,
// mirroring the JSON driver fields.
var csvHeader = []string{
	"driver",
	"display_name",
	"asset_ids",
	"job_site",
	"status",
	"reason",
	"key_on",
	"key_off",
	"minutes_late",
	"minutes_early",
	"in_driving_history",
}

// driverRow flattens one classification record into csvHeader order.
func driverRow(rec model.ClassificationRecord) []string {
	return []string{
		rec.Driver,
		rec.DisplayName,
		strings.Join(rec.AssetIDs, ";"),
		rec.JobSite,
		string(rec.Status),
		rec.Reason,
		rec.KeyOn,
		rec.KeyOff,
		strconv.Itoa(rec.MinutesLate),
		strconv.Itoa(rec.MinutesEarly),
		strconv.FormatBool(rec.InDrivingHistory),
	}
}

// definitions returns the classification rule text for the policy in force,
// shown on the XLSX Definitions sheet and the PDF footer.
func definitions(policy string) []string {
	switch policy {
	case "presence":
		return []string{
			"Policy: presence",
			"On Time: driver's normalized name was matched in the driving history for the date.",
			"Not On Job: driver's normalized name is absent from the driving history.",
			"Late / Early End: not computed under this policy.",
			"Test data: when the driving history has no overlap with the asset list and is dominated by placeholder names, every driver is reported Not On Job.",
		}
	case "schedule":
		return []string{
			"Policy: schedule",
			"Not On Job: no key-on event recorded for the shift.",
			"Late: key-on later than scheduled start plus the late grace (default 15 minutes).",
			"Early End: key-off earlier than scheduled end minus the early-end grace (default 30 minutes).",
			"On Time: everything else. Scheduled window defaults to 07:00-17:30 without a timesheet entry.",
		}
	default:
		return []string{fmt.Sprintf("Policy: %s", policy)}
	}
}

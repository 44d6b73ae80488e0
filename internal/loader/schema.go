// Package loader reads the spreadsheet and CSV exports the pipeline consumes.
// Column resolution is driven by declarative alias tables rather than
// control-flow sniffing, so a new export format is a config change.
package loader

import (
	"regexp"
	"strings"
)

// Canonical field names shared by schemas and loaders.
const (
	FieldAssetID        = "asset_id"
	FieldDriver         = "driver"
	FieldJobSite        = "job_site"
	FieldKeyOn          = "key_on"
	FieldKeyOff         = "key_off"
	FieldScheduledStart = "scheduled_start"
	FieldScheduledEnd   = "scheduled_end"
)

// Logical source names.
const (
	SourceAssetList      = "asset_list"
	SourceDrivingHistory = "driving_history"
	SourceActivityDetail = "activity_detail"
	SourceTimesheets     = "timesheets"
)

// Field maps a canonical field name to the ordered list of header spellings
// accepted for it.
type Field struct {
	Name     string
	Aliases  []string
	Required bool
}

// Schema describes the expected columns of one logical source.
type Schema struct {
	Source string
	Fields []Field
}

// DefaultSchemas returns the built-in alias tables for every source.
func DefaultSchemas() map[string]Schema {
	return map[string]Schema{
		SourceAssetList: {
			Source: SourceAssetList,
			Fields: []Field{
				{Name: FieldAssetID, Required: true, Aliases: []string{
					"equip #", "equipment id", "asset id", "asset", "unit #", "unit",
				}},
				{Name: FieldDriver, Required: true, Aliases: []string{
					"driver", "driver name", "assigned driver", "operator", "employee",
				}},
				{Name: FieldJobSite, Aliases: []string{
					"job site", "jobsite", "job", "site", "location", "project",
				}},
			},
		},
		SourceDrivingHistory: {
			Source: SourceDrivingHistory,
			Fields: []Field{
				{Name: FieldDriver, Required: true, Aliases: []string{
					"driver", "driver name", "operator", "name",
				}},
				{Name: FieldAssetID, Aliases: []string{
					"asset id", "asset", "equipment id", "unit", "vehicle",
				}},
				{Name: FieldKeyOn, Aliases: []string{
					"key on", "first key on", "keyon", "ignition on", "start time",
				}},
				{Name: FieldKeyOff, Aliases: []string{
					"key off", "last key off", "keyoff", "ignition off", "end time",
				}},
			},
		},
		SourceActivityDetail: {
			Source: SourceActivityDetail,
			Fields: []Field{
				{Name: FieldDriver, Required: true, Aliases: []string{
					"driver", "driver name", "operator", "name",
				}},
				{Name: FieldAssetID, Aliases: []string{
					"asset id", "asset", "equipment id", "unit", "machine",
				}},
				{Name: FieldKeyOn, Aliases: []string{
					"first start", "activity start", "start time", "start",
				}},
				{Name: FieldKeyOff, Aliases: []string{
					"last stop", "activity end", "end time", "stop",
				}},
			},
		},
		SourceTimesheets: {
			Source: SourceTimesheets,
			Fields: []Field{
				{Name: FieldDriver, Required: true, Aliases: []string{
					"driver", "employee", "employee name", "name",
				}},
				{Name: FieldScheduledStart, Aliases: []string{
					"scheduled start", "sched start", "shift start", "start",
				}},
				{Name: FieldScheduledEnd, Aliases: []string{
					"scheduled end", "sched end", "shift end", "end",
				}},
			},
		},
	}
}

var headerSpaceRe = regexp.MustCompile(`[\s_]+`)

// canonHeader folds a raw header cell to the form aliases are compared in:
// lowercase, underscores as spaces, whitespace collapsed.
func canonHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.TrimSpace(headerSpaceRe.ReplaceAllString(h, " "))
}

// resolution maps canonical field names to column indexes in a resolved table.
type resolution struct {
	columns   map[string]int
	headerRow int
}

// maxHeaderScan bounds how deep into a sheet the header row is searched for.
const maxHeaderScan = 10

// resolveSchema locates the header row within the first maxHeaderScan rows and
// maps every schema field it can. It fails when any required field has no
// matching column.
func resolveSchema(schema Schema, rows [][]string) (*resolution, bool) {
	var best *resolution
	bestMatched := 0

	limit := len(rows)
	if limit > maxHeaderScan {
		limit = maxHeaderScan
	}

	for rowIdx := 0; rowIdx < limit; rowIdx++ {
		cols := make(map[string]int, len(schema.Fields))
		for _, field := range schema.Fields {
			if idx, ok := findColumn(field, rows[rowIdx]); ok {
				cols[field.Name] = idx
			}
		}

		requiredOK := true
		for _, field := range schema.Fields {
			if field.Required {
				if _, ok := cols[field.Name]; !ok {
					requiredOK = false
					break
				}
			}
		}
		if !requiredOK {
			continue
		}

		if len(cols) > bestMatched {
			bestMatched = len(cols)
			best = &resolution{columns: cols, headerRow: rowIdx}
		}
	}

	return best, best != nil
}

// findColumn returns the index of the first header cell matching one of the
// field's aliases, honoring alias order: an earlier alias in a later column
// beats a later alias in an earlier column.
func findColumn(field Field, header []string) (int, bool) {
	canon := make([]string, len(header))
	for i, cell := range header {
		canon[i] = canonHeader(cell)
	}

	for _, alias := range field.Aliases {
		want := canonHeader(alias)
		for i, cell := range canon {
			if cell == want {
				return i, true
			}
		}
	}
	return 0, false
}

// cell safely fetches a column value from a possibly short row.
func cell(row []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/traxovo/fleetrec/internal/common"
	"github.com/traxovo/fleetrec/internal/identity"
	"github.com/traxovo/fleetrec/internal/model"
)

// Loader implements service.SourceLoader over local spreadsheet/CSV exports.
type Loader struct {
	schemas map[string]Schema
}

// Options configures a Loader.
type Options struct {
	// AliasOverrides replaces the accepted header list for
	// source -> field, e.g. {"asset_list": {"driver": ["chauffeur"]}}.
	AliasOverrides map[string]map[string][]string
}

// New creates a Loader with the built-in schemas, applying any overrides.
func New(opts Options) *Loader {
	schemas := DefaultSchemas()
	for source, fields := range opts.AliasOverrides {
		schema, ok := schemas[source]
		if !ok {
			slog.Warn("Ignoring alias override for unknown source", "source", source)
			continue
		}
		for i, field := range schema.Fields {
			if aliases, ok := fields[field.Name]; ok && len(aliases) > 0 {
				schema.Fields[i].Aliases = aliases
			}
		}
		schemas[source] = schema
	}
	return &Loader{schemas: schemas}
}

// CheckResult describes how a source file resolved against its schema.
type CheckResult struct {
	Columns   map[string]int
	Source    string
	Path      string
	HeaderRow int
	DataRows  int
}

// Check resolves a source file without loading it, reporting which columns
// matched and where the header row was found.
func (l *Loader) Check(_ context.Context, source, path string) (*CheckResult, error) {
	if _, ok := l.schemas[source]; !ok {
		return nil, fmt.Errorf("unknown source %q", source)
	}

	res, rows, err := l.resolve(source, path)
	if err != nil {
		return nil, err
	}

	return &CheckResult{
		Source:    source,
		Path:      path,
		HeaderRow: res.headerRow + 1,
		Columns:   res.columns,
		DataRows:  len(rows),
	}, nil
}

// resolve reads a file and locates its columns for the named source schema.
func (l *Loader) resolve(source, path string) (*resolution, [][]string, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", common.ErrEmptySource, path)
	}

	res, ok := resolveSchema(l.schemas[source], rows)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s in %s", common.ErrSchemaUnresolved, source, path)
	}
	return res, rows[res.headerRow+1:], nil
}

// LoadAssetList reads the authoritative equipment/driver/job-site list.
func (l *Loader) LoadAssetList(_ context.Context, path string) ([]model.AssetAssignment, error) {
	res, rows, err := l.resolve(SourceAssetList, path)
	if err != nil {
		return nil, err
	}

	var assignments []model.AssetAssignment
	for _, row := range rows {
		assetID := identity.NormalizeAssetID(cell(row, res.columns, FieldAssetID))
		if assetID == "" {
			continue
		}

		kind := model.AssetVehicle
		if identity.IsTrailer(assetID) {
			kind = model.AssetTrailer
		}

		assignments = append(assignments, model.AssetAssignment{
			AssetID:   assetID,
			DriverRaw: cell(row, res.columns, FieldDriver),
			JobSite:   cell(row, res.columns, FieldJobSite),
			Kind:      kind,
		})
	}

	if len(assignments) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptySource, path)
	}
	return assignments, nil
}

// LoadDrivingHistory reads a daily telematics export of key-on/key-off events.
func (l *Loader) LoadDrivingHistory(_ context.Context, path string) ([]model.DrivingRecord, error) {
	res, rows, err := l.resolve(SourceDrivingHistory, path)
	if err != nil {
		return nil, err
	}

	var records []model.DrivingRecord
	for _, row := range rows {
		driver := cell(row, res.columns, FieldDriver)
		if driver == "" {
			continue
		}

		records = append(records, model.DrivingRecord{
			DriverRaw: driver,
			AssetID:   identity.NormalizeAssetID(cell(row, res.columns, FieldAssetID)),
			KeyOn:     parseClock(cell(row, res.columns, FieldKeyOn)),
			KeyOff:    parseClock(cell(row, res.columns, FieldKeyOff)),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptySource, path)
	}
	return records, nil
}

// LoadActivityDetail reads the secondary activity export. Rows carry the same
// driver/asset/start/stop shape as the driving history and are merged into it
// downstream.
func (l *Loader) LoadActivityDetail(_ context.Context, path string) ([]model.DrivingRecord, error) {
	res, rows, err := l.resolve(SourceActivityDetail, path)
	if err != nil {
		return nil, err
	}

	var records []model.DrivingRecord
	for _, row := range rows {
		driver := cell(row, res.columns, FieldDriver)
		if driver == "" {
			continue
		}

		records = append(records, model.DrivingRecord{
			DriverRaw: driver,
			AssetID:   identity.NormalizeAssetID(cell(row, res.columns, FieldAssetID)),
			KeyOn:     parseClock(cell(row, res.columns, FieldKeyOn)),
			KeyOff:    parseClock(cell(row, res.columns, FieldKeyOff)),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptySource, path)
	}
	return records, nil
}

// LoadShiftEntries reads scheduled shift windows from a timesheet export.
func (l *Loader) LoadShiftEntries(_ context.Context, path string) ([]model.ShiftEntry, error) {
	res, rows, err := l.resolve(SourceTimesheets, path)
	if err != nil {
		return nil, err
	}

	var entries []model.ShiftEntry
	for _, row := range rows {
		driver := cell(row, res.columns, FieldDriver)
		if driver == "" {
			continue
		}

		entries = append(entries, model.ShiftEntry{
			DriverRaw:      driver,
			ScheduledStart: parseClock(cell(row, res.columns, FieldScheduledStart)),
			ScheduledEnd:   parseClock(cell(row, res.columns, FieldScheduledEnd)),
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptySource, path)
	}
	return entries, nil
}

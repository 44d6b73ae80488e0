// Package engine orchestrates one reconciliation run: load sources, build
// driver identities, match names, classify, and optionally persist.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/traxovo/fleetrec/internal/common"
	"github.com/traxovo/fleetrec/internal/identity"
	"github.com/traxovo/fleetrec/internal/model"
	"github.com/traxovo/fleetrec/internal/service"
)

// Sources holds the resolved input paths for one target date. Empty paths
// mean the source is not configured and is skipped silently.
type Sources struct {
	AssetList      string
	DrivingHistory string
	ActivityDetail string
	Timesheets     string
}

// Reconciler runs the pipeline. Storage may be nil, in which case runs are
// not persisted (dry-run).
type Reconciler struct {
	loader     service.SourceLoader
	matcher    service.Matcher
	classifier service.Classifier
	storage    service.Storage
}

// New creates a Reconciler with injected dependencies.
func New(loader service.SourceLoader, matcher service.Matcher, classifier service.Classifier, storage service.Storage) *Reconciler {
	return &Reconciler{
		loader:     loader,
		matcher:    matcher,
		classifier: classifier,
		storage:    storage,
	}
}

// Run reconciles one date. The asset list is the source of truth and its
// absence is fatal for the date; driving history, activity detail and
// timesheets are best-effort and degrade to empty when unavailable.
func (r *Reconciler) Run(ctx context.Context, date time.Time, sources Sources) (*model.Report, error) {
	assignments, err := r.loader.LoadAssetList(ctx, sources.AssetList)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", common.ErrNoUsableSources, date.Format("2006-01-02"), err)
	}

	var history []model.DrivingRecord
	if sources.DrivingHistory != "" {
		history, err = r.loadHistory(ctx, sources.DrivingHistory)
		if err != nil {
			return nil, err
		}
	}

	if sources.ActivityDetail != "" {
		activity, err := r.loadActivity(ctx, sources.ActivityDetail)
		if err != nil {
			return nil, err
		}
		history = append(history, activity...)
	}

	var shifts []model.ShiftEntry
	if sources.Timesheets != "" {
		shifts, err = r.loadShifts(ctx, sources.Timesheets)
		if err != nil {
			return nil, err
		}
	}

	norm := identity.NewNormalizer()
	drivers := buildDrivers(norm, assignments)
	historyMap := buildHistoryMap(norm, history)
	shiftMap := buildShiftMap(norm, shifts)

	driverNames := make([]string, 0, len(drivers))
	for _, d := range drivers {
		driverNames = append(driverNames, d.Name)
	}
	historyNames := make([]string, 0, len(historyMap))
	for name := range historyMap {
		historyNames = append(historyNames, name)
	}

	matchResult, err := r.matcher.Match(ctx, driverNames, historyNames)
	if err != nil {
		return nil, fmt.Errorf("matching failed: %w", err)
	}

	records, isTestData, err := r.classifier.Classify(ctx, service.ClassifyInput{
		Drivers: drivers,
		History: historyMap,
		Shifts:  shiftMap,
		Matches: matchResult.Matches,
	})
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	exact, fuzzy, unmatched := matchResult.MatchSummary()
	report := &model.Report{
		Date:       date.Format("2006-01-02"),
		Policy:     r.classifier.Name(),
		IsTestData: isTestData,
		Drivers:    records,
		Matches:    matchResult.Audit,
		Summary: model.Summary{
			ExactMatches: exact,
			FuzzyMatches: fuzzy,
			Unmatched:    unmatched,
		},
	}
	report.Tally()

	if r.storage != nil {
		run := &model.Run{
			ID:         uuid.NewString(),
			Date:       report.Date,
			Policy:     report.Policy,
			IsTestData: report.IsTestData,
			Summary:    report.Summary,
			CreatedAt:  time.Now().UTC(),
		}
		if err := r.storage.SaveRun(ctx, run, report.Matches, report.Drivers); err != nil {
			return nil, fmt.Errorf("failed to persist run: %w", err)
		}
		report.RunID = run.ID
	}

	return report, nil
}

// loadHistory reads the driving history, degrading soft failures to an empty
// source so classification can still report every driver Not On Job.
func (r *Reconciler) loadHistory(ctx context.Context, path string) ([]model.DrivingRecord, error) {
	history, err := r.loader.LoadDrivingHistory(ctx, path)
	if err != nil {
		if common.IsSoftSourceError(err) {
			slog.Warn("Skipping driving history", "path", path, "reason", err)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load driving history: %w", err)
	}
	return history, nil
}

// loadActivity reads the secondary activity export, soft-skipping like the
// driving history. Surviving records merge into the history map.
func (r *Reconciler) loadActivity(ctx context.Context, path string) ([]model.DrivingRecord, error) {
	activity, err := r.loader.LoadActivityDetail(ctx, path)
	if err != nil {
		if common.IsSoftSourceError(err) {
			slog.Warn("Skipping activity detail", "path", path, "reason", err)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load activity detail: %w", err)
	}
	return activity, nil
}

// loadShifts reads timesheets, degrading soft failures to the default shift
// window for every driver.
func (r *Reconciler) loadShifts(ctx context.Context, path string) ([]model.ShiftEntry, error) {
	shifts, err := r.loader.LoadShiftEntries(ctx, path)
	if err != nil {
		if common.IsSoftSourceError(err) {
			slog.Warn("Skipping timesheets", "path", path, "reason", err)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load timesheets: %w", err)
	}
	return shifts, nil
}

// buildDrivers folds asset-list rows into one identity per normalized driver
// name. Trailers and unassigned rows contribute nothing.
func buildDrivers(norm *identity.Normalizer, assignments []model.AssetAssignment) []model.Driver {
	index := make(map[string]*model.Driver)
	for _, a := range assignments {
		if a.Kind == model.AssetTrailer {
			continue
		}
		name := norm.Normalize(a.DriverRaw)
		if name == "" {
			continue
		}

		d, ok := index[name]
		if !ok {
			d = &model.Driver{Name: name, DisplayName: norm.DisplayName(name)}
			index[name] = d
		}
		d.AddAsset(a.AssetID)
		d.AddJobSite(a.JobSite)
		d.AddSource("asset_list")
	}

	drivers := make([]model.Driver, 0, len(index))
	for _, d := range index {
		drivers = append(drivers, *d)
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].Name < drivers[j].Name })
	return drivers
}

// buildHistoryMap keys driving records by normalized name. Multiple records
// for one driver merge to the earliest key-on and latest key-off.
func buildHistoryMap(norm *identity.Normalizer, history []model.DrivingRecord) map[string]model.DrivingRecord {
	out := make(map[string]model.DrivingRecord, len(history))
	for _, rec := range history {
		name := norm.Normalize(rec.DriverRaw)
		if name == "" {
			continue
		}

		existing, ok := out[name]
		if !ok {
			out[name] = rec
			continue
		}
		// HH:MM strings are zero-padded, so lexical comparison is ordering.
		if rec.KeyOn != "" && (existing.KeyOn == "" || rec.KeyOn < existing.KeyOn) {
			existing.KeyOn = rec.KeyOn
		}
		if rec.KeyOff > existing.KeyOff {
			existing.KeyOff = rec.KeyOff
		}
		out[name] = existing
	}
	return out
}

// buildShiftMap keys timesheet entries by normalized name; first entry wins.
func buildShiftMap(norm *identity.Normalizer, shifts []model.ShiftEntry) map[string]model.ShiftEntry {
	out := make(map[string]model.ShiftEntry, len(shifts))
	for _, entry := range shifts {
		name := norm.Normalize(entry.DriverRaw)
		if name == "" {
			continue
		}
		if _, ok := out[name]; !ok {
			out[name] = entry
		}
	}
	return out
}

// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/traxovo/fleetrec/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Run operations
	SaveRun(ctx context.Context, run *model.Run, matches []model.MatchRecord, records []model.ClassificationRecord) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	GetMatchRecords(ctx context.Context, runID string) ([]model.MatchRecord, error)
	GetClassificationRecords(ctx context.Context, runID string) ([]model.ClassificationRecord, error)
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// SourceLoader reads one logical source for a target date. Implementations
// soft-fail: a missing file or unresolvable schema returns a sentinel error
// the caller is expected to log and skip.
type SourceLoader interface {
	LoadAssetList(ctx context.Context, path string) ([]model.AssetAssignment, error)
	LoadDrivingHistory(ctx context.Context, path string) ([]model.DrivingRecord, error)
	LoadActivityDetail(ctx context.Context, path string) ([]model.DrivingRecord, error)
	LoadShiftEntries(ctx context.Context, path string) ([]model.ShiftEntry, error)
}

// Matcher resolves driving-history names against asset-list names.
type Matcher interface {
	Match(ctx context.Context, assetListNames, historyNames []string) (*model.MatchResult, error)
}

// ClassifyInput carries everything a classification policy may consult. All
// name keys are normalized.
type ClassifyInput struct {
	History map[string]model.DrivingRecord
	Shifts  map[string]model.ShiftEntry
	Matches map[string]string
	Drivers []model.Driver
}

// Classifier assigns an attendance status to every asset-list driver. The
// bool result reports whether the driving-history input was flagged as
// synthetic test data.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, in ClassifyInput) ([]model.ClassificationRecord, bool, error)
}

// ReportWriter serializes a report to one output format.
type ReportWriter interface {
	Format() string
	Write(ctx context.Context, report *model.Report, path string) error
}

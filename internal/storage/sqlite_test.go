package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traxovo/fleetrec/internal/common"
	"github.com/traxovo/fleetrec/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "fleetrec.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRun(id string) *model.Run {
	return &model.Run{
		ID:     id,
		Date:   "2024-05-17",
		Policy: "schedule",
		Summary: model.Summary{
			TotalDrivers: 2,
			OnTime:       1,
			NotOnJob:     1,
			ExactMatches: 1,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	matches := []model.MatchRecord{
		{HistoryName: "john smith", AssetListName: "john smith", Type: model.MatchExact, Score: 100},
		{HistoryName: "stranger", Type: model.MatchNone, Score: 40},
	}
	records := []model.ClassificationRecord{
		{
			Driver:           "john smith",
			DisplayName:      "Smith, John",
			AssetIDs:         []string{"PT-125", "PT-126"},
			JobSite:          "Riverside",
			Status:           model.StatusOnTime,
			Reason:           "within scheduled shift window",
			KeyOn:            "07:01",
			KeyOff:           "17:30",
			InDrivingHistory: true,
		},
		{
			Driver: "jane doe",
			Status: model.StatusNotOnJob,
			Reason: "no key-on recorded",
		},
	}

	require.NoError(t, s.SaveRun(ctx, sampleRun("run-1"), matches, records))

	run, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-17", run.Date)
	assert.Equal(t, "schedule", run.Policy)
	assert.Equal(t, 2, run.Summary.TotalDrivers)

	gotMatches, err := s.GetMatchRecords(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, gotMatches, 2)
	assert.Equal(t, model.MatchExact, gotMatches[0].Type)

	gotRecords, err := s.GetClassificationRecords(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, gotRecords, 2)
	// Ordered by driver.
	assert.Equal(t, "jane doe", gotRecords[0].Driver)
	assert.Equal(t, []string{"PT-125", "PT-126"}, gotRecords[1].AssetIDs)
	assert.True(t, gotRecords[1].InDrivingHistory)
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveRunValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	assert.Error(t, s.SaveRun(ctx, nil, nil, nil))
	assert.Error(t, s.SaveRun(ctx, &model.Run{ID: "x"}, nil, nil))
}

func TestListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	older := sampleRun("run-old")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.SaveRun(ctx, older, nil, nil))
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-new"), nil, nil))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeleteRunsBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	old := sampleRun("run-old")
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, s.SaveRun(ctx, old, []model.MatchRecord{
		{HistoryName: "john smith", Type: model.MatchNone},
	}, nil))
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-new"), nil, nil))

	deleted, err := s.DeleteRunsBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = s.GetRun(ctx, "run-old")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Child records cascade with the run.
	matches, err := s.GetMatchRecords(ctx, "run-old")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

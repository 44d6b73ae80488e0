package classify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traxovo/fleetrec/internal/common"
	"github.com/traxovo/fleetrec/internal/model"
	"github.com/traxovo/fleetrec/internal/service"
)

func driver(name string, assets ...string) model.Driver {
	return model.Driver{Name: name, DisplayName: name, AssetIDs: assets}
}

func TestForName(t *testing.T) {
	p, err := ForName(PolicyPresence, ScheduleOptions{})
	require.NoError(t, err)
	assert.Equal(t, PolicyPresence, p.Name())

	s, err := ForName(PolicySchedule, ScheduleOptions{})
	require.NoError(t, err)
	assert.Equal(t, PolicySchedule, s.Name())

	_, err = ForName("vibes", ScheduleOptions{})
	assert.ErrorIs(t, err, common.ErrUnknownPolicy)
}

func TestPresenceEmptyHistoryMeansNotOnJob(t *testing.T) {
	ctx := context.Background()
	p := NewPresencePolicy()

	records, isTestData, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1")},
	})
	require.NoError(t, err)
	assert.False(t, isTestData)
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusNotOnJob, records[0].Status)
	assert.Equal(t, "absent from driving history", records[0].Reason)
	assert.False(t, records[0].InDrivingHistory)
}

func TestPresenceMatchedDriverIsOnTime(t *testing.T) {
	ctx := context.Background()
	p := NewPresencePolicy()

	records, isTestData, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1"), driver("bob stone", "B-2")},
		History: map[string]model.DrivingRecord{
			"doe jane": {DriverRaw: "Doe, Jane", KeyOn: "07:05", KeyOff: "17:40"},
		},
		Matches: map[string]string{"doe jane": "jane doe"},
	})
	require.NoError(t, err)
	assert.False(t, isTestData)
	require.Len(t, records, 2)

	assert.Equal(t, model.StatusOnTime, records[0].Status)
	assert.True(t, records[0].InDrivingHistory)
	assert.Equal(t, "07:05", records[0].KeyOn)

	assert.Equal(t, model.StatusNotOnJob, records[1].Status)
}

func TestPresenceTestDataForcesNotOnJob(t *testing.T) {
	ctx := context.Background()
	p := NewPresencePolicy()

	records, isTestData, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane roe", "A-1"), driver("carl mason", "B-2")},
		History: map[string]model.DrivingRecord{
			"john smith":      {DriverRaw: "John Smith"},
			"michael johnson": {DriverRaw: "Michael Johnson"},
		},
		// Zero overlap: the matcher produced nothing.
		Matches: map[string]string{},
	})
	require.NoError(t, err)
	assert.True(t, isTestData)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, model.StatusNotOnJob, rec.Status)
		assert.Equal(t, "test data detected", rec.Reason)
	}
}

func TestDetectTestData(t *testing.T) {
	tests := []struct {
		name    string
		history []string
		assets  []string
		want    bool
	}{
		{
			name:    "placeholder names with zero overlap",
			history: []string{"john smith", "michael johnson"},
			assets:  []string{"jane roe"},
			want:    true,
		},
		{
			name:    "any overlap clears the flag",
			history: []string{"john smith", "jane roe"},
			assets:  []string{"jane roe"},
			want:    false,
		},
		{
			name:    "no placeholder names",
			history: []string{"wilhelmina von oranien"},
			assets:  []string{"jane roe"},
			want:    false,
		},
		{
			name:    "empty history",
			history: nil,
			assets:  []string{"jane roe"},
			want:    false,
		},
		{
			name:    "placeholders in the minority",
			history: []string{"john smith", "ada lovelace", "grace hopper"},
			assets:  []string{"jane roe"},
			want:    false,
		},
		{
			name: "two placeholders among five stay below the bar",
			history: []string{
				"john smith", "jane doe", "ada lovelace", "grace hopper", "mary shelley",
			},
			assets: []string{"someone else"},
			want:   false,
		},
		{
			name:    "exactly half is enough",
			history: []string{"john smith", "jane doe", "ada lovelace", "grace hopper"},
			assets:  []string{"someone else"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTestData(tt.history, tt.assets))
		})
	}
}

func TestHistoryByAssetNameCollisionIsDeterministic(t *testing.T) {
	// Both history spellings resolved to the same asset-list driver.
	matches := map[string]string{
		"jon smith":  "john smith",
		"john smyth": "john smith",
	}

	for i := 0; i < 10; i++ {
		inverted := historyByAssetName(matches)
		assert.Equal(t, "john smyth", inverted["john smith"])
	}
}

func TestScheduleLate(t *testing.T) {
	ctx := context.Background()
	p := NewSchedulePolicy(ScheduleOptions{})

	records, _, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1")},
		History: map[string]model.DrivingRecord{
			"jane doe": {KeyOn: "07:20", KeyOff: "17:35"},
		},
		Matches: map[string]string{"jane doe": "jane doe"},
		Shifts: map[string]model.ShiftEntry{
			"jane doe": {ScheduledStart: "07:00", ScheduledEnd: "17:30"},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusLate, records[0].Status)
	assert.Equal(t, 20, records[0].MinutesLate)
}

func TestScheduleWithinGraceIsOnTime(t *testing.T) {
	ctx := context.Background()
	p := NewSchedulePolicy(ScheduleOptions{})

	records, _, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1")},
		History: map[string]model.DrivingRecord{
			"jane doe": {KeyOn: "07:15", KeyOff: "17:30"},
		},
		Matches: map[string]string{"jane doe": "jane doe"},
		Shifts: map[string]model.ShiftEntry{
			"jane doe": {ScheduledStart: "07:00", ScheduledEnd: "17:30"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOnTime, records[0].Status)
}

func TestScheduleEarlyEnd(t *testing.T) {
	ctx := context.Background()
	p := NewSchedulePolicy(ScheduleOptions{})

	records, _, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1")},
		History: map[string]model.DrivingRecord{
			"jane doe": {KeyOn: "07:00", KeyOff: "16:00"},
		},
		Matches: map[string]string{"jane doe": "jane doe"},
		Shifts: map[string]model.ShiftEntry{
			"jane doe": {ScheduledStart: "07:00", ScheduledEnd: "17:30"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusEarlyEnd, records[0].Status)
	assert.Equal(t, 90, records[0].MinutesEarly)
}

func TestScheduleNoKeyOnMeansNotOnJob(t *testing.T) {
	ctx := context.Background()
	p := NewSchedulePolicy(ScheduleOptions{})

	records, _, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1")},
		History: map[string]model.DrivingRecord{
			"jane doe": {KeyOn: ""},
		},
		Matches: map[string]string{"jane doe": "jane doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotOnJob, records[0].Status)
	assert.Equal(t, "no key-on recorded", records[0].Reason)
}

func TestScheduleDefaultShiftWindow(t *testing.T) {
	ctx := context.Background()
	p := NewSchedulePolicy(ScheduleOptions{})

	// No timesheet entry: 07:00-17:30 default applies, so an 07:20 key-on
	// is 20 minutes late.
	records, _, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1")},
		History: map[string]model.DrivingRecord{
			"jane doe": {KeyOn: "07:20", KeyOff: "17:30"},
		},
		Matches: map[string]string{"jane doe": "jane doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusLate, records[0].Status)
	assert.Equal(t, 20, records[0].MinutesLate)
}

func TestScheduleCustomGrace(t *testing.T) {
	ctx := context.Background()
	p := NewSchedulePolicy(ScheduleOptions{LateGrace: 30 * time.Minute})

	records, _, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1")},
		History: map[string]model.DrivingRecord{
			"jane doe": {KeyOn: "07:20", KeyOff: "17:30"},
		},
		Matches: map[string]string{"jane doe": "jane doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOnTime, records[0].Status)
}

func TestScheduleUnmatchedDriverNotOnJob(t *testing.T) {
	ctx := context.Background()
	p := NewSchedulePolicy(ScheduleOptions{})

	records, _, err := p.Classify(ctx, service.ClassifyInput{
		Drivers: []model.Driver{driver("jane doe", "A-1")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotOnJob, records[0].Status)
	assert.False(t, records[0].InDrivingHistory)
}

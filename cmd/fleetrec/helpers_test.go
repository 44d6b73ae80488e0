package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDates(t *testing.T) {
	dates, err := parseDates([]string{"2024-05-17", "2024-05-18"})
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, 2024, dates[0].Year())
	assert.Equal(t, time.May, dates[0].Month())
	assert.Equal(t, 17, dates[0].Day())

	_, err = parseDates([]string{"05/17/2024"})
	assert.Error(t, err)
}

func TestParseDatesDefaultsToToday(t *testing.T) {
	dates, err := parseDates(nil)
	require.NoError(t, err)
	require.Len(t, dates, 1)

	now := time.Now()
	assert.Equal(t, now.Year(), dates[0].Year())
	assert.Equal(t, now.YearDay(), dates[0].YearDay())
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, "out/reconciliation_2024-05-17.json", reportPath("out", "2024-05-17", "json"))
}

func TestSourcesForDate(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("sources.asset_list", "/data/assets.xlsx")
	viper.Set("sources.driving_history", "/data/driving_{date}.csv")

	sources := sourcesForDate(time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "/data/assets.xlsx", sources.AssetList)
	assert.Equal(t, "/data/driving_2024-05-17.csv", sources.DrivingHistory)
	assert.Equal(t, "", sources.Timesheets)
}

func TestScheduleOptionsFromConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	setDefaults()

	opts := scheduleOptions()
	assert.Equal(t, "07:00", opts.DefaultStart)
	assert.Equal(t, "17:30", opts.DefaultEnd)
	assert.Equal(t, 15*time.Minute, opts.LateGrace)
	assert.Equal(t, 30*time.Minute, opts.EarlyGrace)
}

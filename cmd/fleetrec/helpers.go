package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/traxovo/fleetrec/internal/classify"
	"github.com/traxovo/fleetrec/internal/config"
	"github.com/traxovo/fleetrec/internal/engine"
	"github.com/traxovo/fleetrec/internal/loader"
	"github.com/traxovo/fleetrec/internal/storage"
)

func setDefaults() {
	viper.SetDefault("policy", classify.DefaultPolicy)
	viper.SetDefault("match.threshold", 85)
	viper.SetDefault("schedule.default_start", "07:00")
	viper.SetDefault("schedule.default_end", "17:30")
	viper.SetDefault("schedule.late_grace", "15m")
	viper.SetDefault("schedule.early_grace", "30m")
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.formats", []string{"json"})
	viper.SetDefault("database.path", config.DefaultDatabasePath())
	viper.SetDefault("runs.keep_days", 90)
}

// buildLoader constructs the source loader with any alias overrides from
// config.
func buildLoader() *loader.Loader {
	var overrides map[string]map[string][]string
	_ = viper.UnmarshalKey("sources.aliases", &overrides)
	return loader.New(loader.Options{AliasOverrides: overrides})
}

// scheduleOptions reads the schedule policy tuning from config.
func scheduleOptions() classify.ScheduleOptions {
	return classify.ScheduleOptions{
		DefaultStart: viper.GetString("schedule.default_start"),
		DefaultEnd:   viper.GetString("schedule.default_end"),
		LateGrace:    viper.GetDuration("schedule.late_grace"),
		EarlyGrace:   viper.GetDuration("schedule.early_grace"),
	}
}

// sourcesForDate expands the configured path templates for one target date.
func sourcesForDate(date time.Time) engine.Sources {
	expand := func(key string) string {
		template := viper.GetString(key)
		if template == "" {
			return ""
		}
		return config.ExpandDate(config.ExpandPath(template), date)
	}

	return engine.Sources{
		AssetList:      expand("sources.asset_list"),
		DrivingHistory: expand("sources.driving_history"),
		ActivityDetail: expand("sources.activity_detail"),
		Timesheets:     expand("sources.timesheets"),
	}
}

// parseDates parses the positional date arguments, defaulting to today.
func parseDates(args []string) ([]time.Time, error) {
	if len(args) == 0 {
		now := time.Now()
		return []time.Time{time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)}, nil
	}

	dates := make([]time.Time, 0, len(args))
	for _, arg := range args {
		date, err := time.ParseInLocation("2006-01-02", arg, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", arg, err)
		}
		dates = append(dates, date)
	}
	return dates, nil
}

// openStorage opens and migrates the run-history database.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// reportPath names an output file for one date and format.
func reportPath(dir, date, format string) string {
	return filepath.Join(dir, fmt.Sprintf("reconciliation_%s.%s", date, format))
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/traxovo/fleetrec/internal/classify"
	"github.com/traxovo/fleetrec/internal/engine"
	"github.com/traxovo/fleetrec/internal/match"
	"github.com/traxovo/fleetrec/internal/report"
	"github.com/traxovo/fleetrec/internal/service"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [YYYY-MM-DD ...]",
		Short: "Reconcile asset-list drivers against driving history",
		Long: `Run the reconciliation pipeline for one or more dates: load the
configured sources, match driver identities, classify attendance, and write
reports. With no arguments the current date is used.

Examples:
  # Today, default policy and formats
  fleetrec reconcile

  # A specific week, strict presence policy, Excel + JSON output
  fleetrec reconcile 2024-05-13 2024-05-14 2024-05-15 --policy presence --format json --format xlsx`,
		RunE: runReconcile,
	}

	cmd.Flags().String("policy", "", "classification policy (presence, schedule)")
	cmd.Flags().Int("threshold", 0, "fuzzy match acceptance threshold (0-100)")
	cmd.Flags().StringSlice("format", nil, "report formats (json, csv, xlsx, pdf); repeatable")
	cmd.Flags().String("output-dir", "", "directory for report files")
	cmd.Flags().BoolP("dry-run", "d", false, "run the pipeline without writing reports or run history")
	cmd.Flags().String("asset-list", "", "asset list path template ({date} is substituted)")
	cmd.Flags().String("driving-history", "", "driving history path template")
	cmd.Flags().String("activity-detail", "", "activity detail path template")
	cmd.Flags().String("timesheets", "", "timesheet path template")

	_ = viper.BindPFlag("policy", cmd.Flags().Lookup("policy"))
	_ = viper.BindPFlag("match.threshold", cmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag("output.formats", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("sources.asset_list", cmd.Flags().Lookup("asset-list"))
	_ = viper.BindPFlag("sources.driving_history", cmd.Flags().Lookup("driving-history"))
	_ = viper.BindPFlag("sources.activity_detail", cmd.Flags().Lookup("activity-detail"))
	_ = viper.BindPFlag("sources.timesheets", cmd.Flags().Lookup("timesheets"))

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	dates, err := parseDates(args)
	if err != nil {
		return err
	}

	if viper.GetString("sources.asset_list") == "" {
		return fmt.Errorf("no asset list configured; set sources.asset_list or pass --asset-list")
	}

	classifier, err := classify.ForName(viper.GetString("policy"), scheduleOptions())
	if err != nil {
		return err
	}

	writers, err := report.ForFormats(viper.GetStringSlice("output.formats"))
	if err != nil {
		return err
	}

	var store service.Storage
	if !dryRun {
		s, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	reconciler := engine.New(
		buildLoader(),
		match.NewMatcher(viper.GetInt("match.threshold")),
		classifier,
		store,
	)

	outputDir := viper.GetString("output.dir")
	if !dryRun {
		if err := os.MkdirAll(outputDir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	succeeded := 0
	var lastErr error
	for _, date := range dates {
		sources := sourcesForDate(date)

		slog.Info("Reconciling",
			"date", date.Format("2006-01-02"),
			"policy", classifier.Name(),
			"dry_run", dryRun)

		rep, err := reconciler.Run(ctx, date, sources)
		if err != nil {
			slog.Error("Reconciliation failed", "date", date.Format("2006-01-02"), "error", err)
			lastErr = err
			continue
		}

		if !dryRun {
			for _, w := range writers {
				path := reportPath(outputDir, rep.Date, w.Format())
				if err := w.Write(ctx, rep, path); err != nil {
					return fmt.Errorf("failed to write %s report: %w", w.Format(), err)
				}
				slog.Info("Wrote report", "format", w.Format(), "path", path)
			}
		}

		slog.Info("Reconciled",
			"date", rep.Date,
			"run_id", rep.RunID,
			"drivers", rep.Summary.TotalDrivers,
			"on_time", rep.Summary.OnTime,
			"late", rep.Summary.Late,
			"early_end", rep.Summary.EarlyEnd,
			"not_on_job", rep.Summary.NotOnJob,
			"test_data", rep.IsTestData)
		succeeded++
	}

	if succeeded == 0 {
		return fmt.Errorf("all %d date(s) failed: %w", len(dates), lastErr)
	}
	if succeeded < len(dates) {
		slog.Warn("Some dates failed", "succeeded", succeeded, "requested", len(dates))
	}
	return nil
}

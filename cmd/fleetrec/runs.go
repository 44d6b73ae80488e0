package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/traxovo/fleetrec/internal/model"
	"github.com/traxovo/fleetrec/internal/report"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect and export stored reconciliation runs",
	}
	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())
	cmd.AddCommand(runsExportCmd())
	cmd.AddCommand(runsPruneCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			fmt.Printf("%-36s  %-10s  %-8s  %7s  %7s  %5s  %9s  %10s\n",
				"RUN", "DATE", "POLICY", "DRIVERS", "ON TIME", "LATE", "EARLY END", "NOT ON JOB")
			for _, run := range runs {
				fmt.Printf("%-36s  %-10s  %-8s  %7d  %7d  %5d  %9d  %10d\n",
					run.ID, run.Date, run.Policy,
					run.Summary.TotalDrivers, run.Summary.OnTime, run.Summary.Late,
					run.Summary.EarlyEnd, run.Summary.NotOnJob)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum runs to list")
	return cmd
}

func runsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the stored classification for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			records, err := store.GetClassificationRecords(ctx, run.ID)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s  date=%s  policy=%s  test_data=%v\n\n", run.ID, run.Date, run.Policy, run.IsTestData)
			for _, rec := range records {
				fmt.Printf("%-28s  %-10s  %-24s  %s\n",
					rec.DisplayName, rec.Status, strings.Join(rec.AssetIDs, ","), rec.Reason)
			}
			return nil
		},
	}
}

func runsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Re-emit reports for a stored run",
		Long:  `Rebuild the report for a stored run from the database and write it in the requested formats, without re-reading the original spreadsheets.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			records, err := store.GetClassificationRecords(ctx, run.ID)
			if err != nil {
				return err
			}
			matches, err := store.GetMatchRecords(ctx, run.ID)
			if err != nil {
				return err
			}

			rep := &model.Report{
				RunID:      run.ID,
				Date:       run.Date,
				Policy:     run.Policy,
				IsTestData: run.IsTestData,
				Drivers:    records,
				Matches:    matches,
				Summary:    run.Summary,
			}

			formats, _ := cmd.Flags().GetStringSlice("format")
			if len(formats) == 0 {
				formats = viper.GetStringSlice("output.formats")
			}
			writers, err := report.ForFormats(formats)
			if err != nil {
				return err
			}

			outputDir, _ := cmd.Flags().GetString("output-dir")
			if outputDir == "" {
				outputDir = viper.GetString("output.dir")
			}
			if err := os.MkdirAll(outputDir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			for _, w := range writers {
				path := reportPath(outputDir, rep.Date, w.Format())
				if err := w.Write(ctx, rep, path); err != nil {
					return fmt.Errorf("failed to write %s report: %w", w.Format(), err)
				}
				slog.Info("Wrote report", "format", w.Format(), "path", path)
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("format", nil, "report formats (json, csv, xlsx, pdf); repeatable")
	cmd.Flags().String("output-dir", "", "directory for report files")
	return cmd
}

func runsPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			days, _ := cmd.Flags().GetInt("older-than")
			if days <= 0 {
				days = viper.GetInt("runs.keep_days")
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cutoff := time.Now().UTC().AddDate(0, 0, -days)
			deleted, err := store.DeleteRunsBefore(ctx, cutoff)
			if err != nil {
				return err
			}

			slog.Info("Pruned runs", "deleted", deleted, "older_than_days", days)
			return nil
		},
	}
	cmd.Flags().Int("older-than", 0, "delete runs older than this many days (default: runs.keep_days)")
	return cmd
}

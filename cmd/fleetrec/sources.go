package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/traxovo/fleetrec/internal/loader"
)

func sourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Inspect configured input sources",
	}
	cmd.AddCommand(sourcesCheckCmd())
	return cmd
}

func sourcesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [YYYY-MM-DD]",
		Short: "Resolve each configured source and show the columns found",
		Long: `Read every configured source for the given date (default today)
and report whether its schema resolved, which header row was used, and which
columns matched. No matching or classification is performed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSourcesCheck,
	}
}

func runSourcesCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dates, err := parseDates(args)
	if err != nil {
		return err
	}
	sources := sourcesForDate(dates[0])

	l := buildLoader()
	checks := []struct {
		source string
		path   string
	}{
		{loader.SourceAssetList, sources.AssetList},
		{loader.SourceDrivingHistory, sources.DrivingHistory},
		{loader.SourceActivityDetail, sources.ActivityDetail},
		{loader.SourceTimesheets, sources.Timesheets},
	}

	unusable := 0
	for _, c := range checks {
		if c.path == "" {
			fmt.Printf("%-16s not configured\n", c.source)
			continue
		}

		result, err := l.Check(ctx, c.source, c.path)
		if err != nil {
			unusable++
			fmt.Printf("%-16s UNUSABLE  %s\n", c.source, err)
			continue
		}

		fields := make([]string, 0, len(result.Columns))
		for field, col := range result.Columns {
			fields = append(fields, fmt.Sprintf("%s=col%d", field, col+1))
		}
		sort.Strings(fields)

		fmt.Printf("%-16s ok        %s (header row %d, %d data rows): %v\n",
			c.source, c.path, result.HeaderRow, result.DataRows, fields)
	}

	if unusable > 0 {
		return fmt.Errorf("%d configured source(s) unusable", unusable)
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"arkiv/internal/commit"
	"arkiv/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transcode runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				return printRunOutcomes(cmd, store, runID)
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			headers := []string{"Run", "Started", "Library", "Transcoded", "Skipped", "Failed", "Missing"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortRunID(run.ID),
					humanize.Time(run.StartedAt),
					run.LibraryDir,
					strconv.Itoa(run.Transcoded),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Failed),
					strconv.Itoa(run.Missing),
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-file outcomes for one run ID")
	return cmd
}

func printRunOutcomes(cmd *cobra.Command, store *history.Store, runID string) error {
	records, err := store.RunOutcomes(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("list outcomes: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No outcomes recorded for run %s\n", runID)
		return nil
	}

	headers := []string{"File", "Status", "Saved MB", "Reason"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		saved := ""
		if record.Status == commit.StatusTranscoded {
			saved = strconv.FormatInt(record.SizeDeltaMB, 10)
		}
		rows = append(rows, []string{record.Path, string(record.Status), saved, record.Reason})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

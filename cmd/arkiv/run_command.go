package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"arkiv/internal/commit"
	"arkiv/internal/deps"
	"arkiv/internal/encoding"
	"arkiv/internal/history"
	"arkiv/internal/logging"
	"arkiv/internal/media/probe"
	"arkiv/internal/validation"
	"arkiv/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan the library and transcode eligible files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscodePass(cmd, ctx)
		},
	}
}

func runTranscodePass(cmd *cobra.Command, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	statuses := deps.CheckBinaries(deps.Required(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s (see `arkiv deps`)", strings.Join(missing, ", "))
	}
	if status := deps.CheckLibraryDir(cfg.Paths.LibraryDir); !status.Available {
		return fmt.Errorf("library directory %s: %s", cfg.Paths.LibraryDir, status.Detail)
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "arkiv.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another arkiv run is already in progress")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	var journal *history.Store
	if cfg.History.Enabled {
		journal, err = history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("history store unavailable, continuing without it", logging.Error(err))
			journal = nil
		} else {
			defer journal.Close()
		}
	}

	out := cmd.OutOrStdout()
	prober := probe.NewFFProber(cfg.FFprobeBinary())
	runner, err := workflow.NewRunner(workflow.Options{
		Config:    cfg,
		Prober:    prober,
		Encoder:   encoding.NewRunner(cfg.FFmpegBinary(), logger),
		Validator: validation.New(prober, cfg.Transcode.DurationToleranceSeconds, logger),
		Committer: commit.New(logger),
		Journal:   journal,
		Logger:    logger,
		Report: func(outcome commit.Outcome) {
			fmt.Fprintln(out, outcome.Line())
		},
	})
	if err != nil {
		return err
	}

	summary, err := runner.Run(signalCtx)
	if err != nil {
		return err
	}

	printRunSummary(out, summary)

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed", summary.Failed)
	}
	return nil
}

func printRunSummary(out io.Writer, summary *workflow.Summary) {
	headers := []string{"Result", "Count"}
	rows := [][]string{
		{"Transcoded", strconv.Itoa(summary.Transcoded)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Missing", strconv.Itoa(summary.Missing)},
	}
	aligns := []columnAlignment{alignLeft, alignRight}

	for _, line := range renderHeading("Run Summary", shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	fmt.Fprintf(out, "Space reclaimed: %s in %s\n", formatSavings(summary.TotalSavedMB), summary.Elapsed.Round(time.Second))
}

func formatSavings(deltaMB int64) string {
	if deltaMB == 0 {
		return "0 B"
	}
	bytes := uint64(deltaMB) * 1024 * 1024
	if deltaMB < 0 {
		return "-" + humanize.IBytes(uint64(-deltaMB)*1024*1024)
	}
	return humanize.IBytes(bytes)
}

package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"arkiv/internal/commit"
	"arkiv/internal/config"
	"arkiv/internal/encoding"
	"arkiv/internal/history"
	"arkiv/internal/logging"
	"arkiv/internal/media/probe"
	"arkiv/internal/plan"
	"arkiv/internal/scan"
	"arkiv/internal/services"
	"arkiv/internal/validation"
)

// Options bundles the collaborators a Runner needs. Prober and Encoder are
// interfaces so tests can drive the full state machine without external
// processes.
type Options struct {
	Config    *config.Config
	Prober    probe.Prober
	Encoder   encoding.Encoder
	Validator *validation.Validator
	Committer *commit.Committer
	Journal   *history.Store
	Logger    *slog.Logger
	Report    func(commit.Outcome)
}

// Runner carries each candidate file through its state machine, one file at a
// time. Files are independent: no error is fatal to the run.
type Runner struct {
	cfg       *config.Config
	prober    probe.Prober
	encoder   encoding.Encoder
	validator *validation.Validator
	committer *commit.Committer
	journal   *history.Store
	logger    *slog.Logger
	report    func(commit.Outcome)
}

// Summary aggregates a finished run.
type Summary struct {
	RunID        string
	Outcomes     []commit.Outcome
	Transcoded   int
	Skipped      int
	Failed       int
	Missing      int
	TotalSavedMB int64
	Elapsed      time.Duration
}

// HasFailures reports whether any file ended in a failed terminal state. The
// caller maps this to the process exit status.
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}

// NewRunner validates the option set and constructs a Runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Config == nil || opts.Prober == nil || opts.Encoder == nil || opts.Validator == nil || opts.Committer == nil {
		return nil, errors.New("workflow runner requires config, prober, encoder, validator, and committer")
	}
	report := opts.Report
	if report == nil {
		report = func(commit.Outcome) {}
	}
	return &Runner{
		cfg:       opts.Config,
		prober:    opts.Prober,
		encoder:   opts.Encoder,
		validator: opts.Validator,
		committer: opts.Committer,
		journal:   opts.Journal,
		logger:    logging.NewComponentLogger(opts.Logger, "workflow"),
		report:    report,
	}, nil
}

// Run scans the library once and processes the snapshot sequentially. The
// returned error covers run-level problems (unreadable library); per-file
// problems land in the summary's outcomes instead.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	candidates, err := scan.Candidates(r.cfg.Paths.LibraryDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "scan library", r.cfg.Paths.LibraryDir, err)
	}

	summary := &Summary{}
	summary.RunID = r.beginJournal(ctx)

	r.logger.Info("run started",
		logging.String("library", r.cfg.Paths.LibraryDir),
		logging.Int("candidates", len(candidates)),
		logging.Int("target_height", r.cfg.Transcode.TargetHeight),
	)

	for _, path := range candidates {
		if ctx.Err() != nil {
			break
		}
		outcome := r.processFile(ctx, path)
		summary.Outcomes = append(summary.Outcomes, outcome)
		r.tally(summary, outcome)
		r.recordJournal(ctx, summary.RunID, outcome)
		r.report(outcome)
	}

	summary.Elapsed = time.Since(started)
	r.finishJournal(ctx, summary)

	r.logger.Info("run finished",
		logging.Int("transcoded", summary.Transcoded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int("missing", summary.Missing),
		logging.Int64("saved_mb", summary.TotalSavedMB),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// processFile walks one file through probe, plan, encode, validate, and
// commit. Every return is a terminal state; there are no retries.
func (r *Runner) processFile(ctx context.Context, path string) commit.Outcome {
	logger := r.logger.With(logging.String("file", path))

	// The candidate list is a snapshot; the file may be gone by now.
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = services.Wrap(services.ErrMissingFile, "workflow", "recheck candidate", path, nil)
		}
		logger.Warn("candidate unavailable before processing", logging.Error(err))
		return outcomeForError(path, err)
	}

	pr, err := r.prober.Probe(ctx, path)
	if err != nil {
		if !errors.Is(err, services.ErrProbe) {
			err = services.Wrap(services.ErrProbe, "workflow", "probe candidate", path, err)
		}
		logger.Warn("probe failed", logging.Error(err))
		return outcomeForError(path, err)
	}

	p, err := plan.Build(path, pr, r.cfg.Transcode.TargetHeight)
	if err != nil {
		logger.Warn("no plan possible", logging.Error(err))
		return outcomeForError(path, err)
	}

	if !p.Encode {
		if pr.Archived {
			logger.Debug("already processed, nothing to do")
			return commit.Outcome{Path: path, Status: commit.StatusAlreadyProcessed}
		}
		return commit.Outcome{Path: path, Status: commit.StatusSkipped}
	}

	settings := encoding.Settings{
		Encoder: r.cfg.Transcode.Encoder,
		CRF:     r.cfg.Transcode.CRF,
		Preset:  r.cfg.Transcode.Preset,
	}
	encResult, err := r.encoder.Encode(ctx, p, settings)
	if err != nil {
		// The encoder binary itself failed to launch; treat like a
		// failed encode so the committer cleans up any artifact.
		err = services.Wrap(services.ErrEncode, "workflow", "invoke encoder", p.SourcePath, err)
		logger.Error("encoder invocation failed", logging.Error(err))
		encResult = encoding.Result{OutputPath: p.OutputPath, Detail: err.Error()}
	}

	var valResult validation.Result
	if encResult.Succeeded {
		valResult = r.validator.Validate(ctx, p, pr)
	}

	return r.committer.Apply(p, encResult, valResult, r.cfg.Transcode.RemoveOriginal)
}

// outcomeForError classifies a pre-encode error into a terminal outcome via
// its sentinel marker. Probe and planning errors skip the file, a vanished
// candidate is reported as missing, and anything unmarked fails the file.
func outcomeForError(path string, err error) commit.Outcome {
	switch {
	case errors.Is(err, services.ErrMissingFile):
		return commit.Outcome{Path: path, Status: commit.StatusFileMissing}
	case errors.Is(err, services.ErrProbe), errors.Is(err, services.ErrNoVideoStream):
		return commit.Outcome{Path: path, Status: commit.StatusSkipped, Reason: err.Error()}
	default:
		return commit.Outcome{Path: path, Status: commit.StatusFailed, Reason: err.Error()}
	}
}

func (r *Runner) tally(summary *Summary, outcome commit.Outcome) {
	switch outcome.Status {
	case commit.StatusTranscoded:
		summary.Transcoded++
		summary.TotalSavedMB += outcome.SizeDeltaMB
	case commit.StatusSkipped, commit.StatusAlreadyProcessed:
		summary.Skipped++
	case commit.StatusFailed:
		summary.Failed++
	case commit.StatusFileMissing:
		summary.Missing++
	}
}

// Journal writes are best-effort: a broken history database must never stop
// the pipeline.
func (r *Runner) beginJournal(ctx context.Context) string {
	if r.journal == nil {
		return ""
	}
	runID, err := r.journal.BeginRun(ctx, r.cfg.Paths.LibraryDir)
	if err != nil {
		r.logger.Warn("history journal unavailable", logging.Error(err))
		return ""
	}
	return runID
}

func (r *Runner) recordJournal(ctx context.Context, runID string, outcome commit.Outcome) {
	if r.journal == nil || runID == "" {
		return
	}
	if err := r.journal.RecordOutcome(ctx, runID, outcome); err != nil {
		r.logger.Warn("failed to record outcome", logging.Error(err))
	}
}

func (r *Runner) finishJournal(ctx context.Context, summary *Summary) {
	if r.journal == nil || summary.RunID == "" {
		return
	}
	if err := r.journal.FinishRun(ctx, summary.RunID, summary.Transcoded, summary.Skipped, summary.Failed, summary.Missing); err != nil {
		r.logger.Warn("failed to finish history run", logging.Error(err))
	}
}

package encoding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"arkiv/internal/logging"
	"arkiv/internal/media/probe"
	"arkiv/internal/plan"
	"arkiv/internal/services"
)

// Settings carries the fixed encoder parameters applied to every file.
type Settings struct {
	Encoder string
	CRF     int
	Preset  string
}

// Result reports one encode invocation.
type Result struct {
	Succeeded  bool
	Elapsed    time.Duration
	OutputPath string
	Detail     string
}

// Encoder runs the external encode operation for a plan. The invocation is
// blocking; the encoder process owns its own internal parallelism.
type Encoder interface {
	Encode(ctx context.Context, p plan.Plan, settings Settings) (Result, error)
}

// Runner is the ffmpeg-backed Encoder.
type Runner struct {
	binary string
	logger *slog.Logger
}

// NewRunner constructs a Runner for the given ffmpeg binary.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	return &Runner{
		binary: strings.TrimSpace(binary),
		logger: logging.NewComponentLogger(logger, "transcoder"),
	}
}

// BuildArgs assembles the ffmpeg argument set for a plan.
//
// The output is always stamped with the archival tag a later probe detects as
// "already processed". Audio streams are copied verbatim; subtitle streams
// are converted to srt so any source container survives remuxing into
// matroska. The scale filter appears only when the plan resizes.
func BuildArgs(p plan.Plan, settings Settings) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", p.SourcePath,
	}
	if p.Resize {
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", p.TargetHeight))
	}
	args = append(args,
		"-c:v", settings.Encoder,
		"-crf", strconv.Itoa(settings.CRF),
		"-preset", settings.Preset,
		"-c:a", "copy",
		"-c:s", "srt",
		"-metadata", probe.ArchivalTag+"="+probe.ArchivalValue,
		"-f", "matroska",
		p.OutputPath,
	)
	return args
}

// Encode runs ffmpeg to completion and reports the outcome. A non-zero exit
// yields Succeeded=false, not an error; the possibly partial output file is
// the caller's responsibility to delete. An error return means the binary
// could not be executed at all.
func (r *Runner) Encode(ctx context.Context, p plan.Plan, settings Settings) (Result, error) {
	binary := r.binary
	if binary == "" {
		binary = "ffmpeg"
	}

	args := BuildArgs(p, settings)
	r.logger.Info("launching encode",
		logging.String("input", p.SourcePath),
		logging.String("output", p.OutputPath),
		logging.Bool("resize", p.Resize),
		logging.Int("target_height", p.TargetHeight),
		logging.String("encoder", settings.Encoder),
	)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)

	result := Result{
		Elapsed:    elapsed,
		OutputPath: p.OutputPath,
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, services.Wrap(services.ErrExternalTool, "encoding", "run ffmpeg", binary, err)
		}
		result.Detail = strings.TrimSpace(stderr.String())
		if result.Detail == "" {
			result.Detail = exitErr.Error()
		}
		r.logger.Warn("encode failed",
			logging.String("input", p.SourcePath),
			logging.Duration("elapsed", elapsed),
			logging.String("detail", result.Detail),
		)
		return result, nil
	}

	result.Succeeded = true
	r.logger.Info("encode finished",
		logging.String("input", p.SourcePath),
		logging.Duration("elapsed", elapsed),
	)
	return result, nil
}

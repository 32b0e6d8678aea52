package commit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"arkiv/internal/encoding"
	"arkiv/internal/fileutil"
	"arkiv/internal/logging"
	"arkiv/internal/plan"
	"arkiv/internal/validation"
)

// Committer applies the commit-or-rollback decision for one encoded file.
type Committer struct {
	logger *slog.Logger
}

// New constructs a Committer.
func New(logger *slog.Logger) *Committer {
	return &Committer{logger: logging.NewComponentLogger(logger, "committer")}
}

// Apply finishes one file's state machine.
//
// The original is deleted only after the validated output has been renamed
// into place; a failed encode or health check discards the artifact and
// leaves the original exactly as found.
func (c *Committer) Apply(p plan.Plan, enc encoding.Result, val validation.Result, removeOriginal bool) Outcome {
	if !enc.Succeeded {
		c.discardArtifact(p.OutputPath)
		reason := "encode error"
		if enc.Detail != "" {
			reason = fmt.Sprintf("encode error: %s", enc.Detail)
		}
		return Outcome{Path: p.SourcePath, Status: StatusFailed, Reason: reason, Elapsed: enc.Elapsed}
	}

	if !val.Healthy {
		c.discardArtifact(p.OutputPath)
		reason := "validation: duration mismatch"
		if val.Reason != "" {
			reason = "validation: " + val.Reason
		}
		return Outcome{Path: p.SourcePath, Status: StatusFailed, Reason: reason, Elapsed: enc.Elapsed}
	}

	originalBytes, outputBytes, err := artifactSizes(p)
	if err != nil {
		c.discardArtifact(p.OutputPath)
		return Outcome{Path: p.SourcePath, Status: StatusFailed, Reason: err.Error(), Elapsed: enc.Elapsed}
	}

	outcome := Outcome{
		Path:         p.SourcePath,
		Status:       StatusTranscoded,
		SizeDeltaMB:  (originalBytes - outputBytes) / (1024 * 1024),
		PercentSaved: int(100 - (100*outputBytes)/originalBytes),
		Elapsed:      enc.Elapsed,
	}

	if !removeOriginal {
		c.logger.Info("keeping original alongside output",
			logging.String("original", p.SourcePath),
			logging.String("output", p.OutputPath),
		)
		return outcome
	}

	if err := c.replace(p); err != nil {
		c.discardArtifact(p.OutputPath)
		return Outcome{Path: p.SourcePath, Status: StatusFailed, Reason: err.Error(), Elapsed: enc.Elapsed}
	}

	c.logger.Info("original replaced",
		logging.String("final", p.FinalPath()),
		logging.Int64("saved_mb", outcome.SizeDeltaMB),
		logging.Int("percent_saved", outcome.PercentSaved),
	)
	return outcome
}

// replace renames the artifact to its final name before the original is
// touched. When source and final path coincide (.mkv sources) the rename is
// itself the atomic replacement; otherwise the original is removed only once
// the output sits at its final name.
func (c *Committer) replace(p plan.Plan) error {
	final := p.FinalPath()

	if err := moveInto(p.OutputPath, final, p.SourcePath); err != nil {
		return fmt.Errorf("rename output into place: %w", err)
	}

	if final != p.SourcePath {
		if err := os.Remove(p.SourcePath); err != nil {
			c.logger.Warn("failed to remove original after replacement",
				logging.String("original", p.SourcePath),
				logging.Error(err),
			)
		}
	}
	return nil
}

// moveInto renames src onto dst, falling back to a verified copy when the
// rename crosses filesystems. The fallback is refused when dst is the
// original file itself: the copy would truncate the original before any
// verification ran.
func moveInto(src, dst, original string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if !crossDeviceFallbackAllowed(renameErr, dst, original) {
		return renameErr
	}
	if copyErr := fileutil.CopyFileVerified(src, dst); copyErr != nil {
		return copyErr
	}
	return os.Remove(src)
}

func crossDeviceFallbackAllowed(renameErr error, dst, original string) bool {
	if dst == original {
		return false
	}
	var linkErr *os.LinkError
	return errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

func artifactSizes(p plan.Plan) (int64, int64, error) {
	srcInfo, err := os.Stat(p.SourcePath)
	if err != nil {
		return 0, 0, fmt.Errorf("stat original: %w", err)
	}
	outInfo, err := os.Stat(p.OutputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("stat output: %w", err)
	}
	if srcInfo.Size() == 0 {
		return 0, 0, errors.New("original is zero bytes")
	}
	return srcInfo.Size(), outInfo.Size(), nil
}

func (c *Committer) discardArtifact(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("failed to remove encode artifact",
			logging.String("artifact", path),
			logging.Error(err),
		)
	}
}

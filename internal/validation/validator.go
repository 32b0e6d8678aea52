package validation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"arkiv/internal/logging"
	"arkiv/internal/media/probe"
	"arkiv/internal/plan"
	"arkiv/internal/services"
)

// DefaultToleranceSeconds matches the reporting precision of one decimal
// minute. A larger drift between source and output durations signals a
// truncated or corrupted encode.
const DefaultToleranceSeconds = 6.0

// Result reports the post-encode health check for one output.
type Result struct {
	Healthy bool
	Probe   probe.Probe
	Reason  string
}

// Validator re-probes encoder output and gates the commit step. It never
// gates the encode invocation itself.
type Validator struct {
	prober    probe.Prober
	tolerance float64
	logger    *slog.Logger
}

// New constructs a Validator. A non-positive tolerance falls back to the
// default.
func New(prober probe.Prober, toleranceSeconds float64, logger *slog.Logger) *Validator {
	if toleranceSeconds <= 0 {
		toleranceSeconds = DefaultToleranceSeconds
	}
	return &Validator{
		prober:    prober,
		tolerance: toleranceSeconds,
		logger:    logging.NewComponentLogger(logger, "validator"),
	}
}

// Validate checks the encoded artifact against the original's probe. Healthy
// means: both files are non-empty, the output has a usable video stream, and
// the durations agree within the tolerance. Resolution and codec are not
// re-checked; duration is the trust signal.
func (v *Validator) Validate(ctx context.Context, p plan.Plan, original probe.Probe) Result {
	if reason := checkNonEmpty(p.SourcePath, "source"); reason != "" {
		return v.unhealthy(p, reason)
	}
	if reason := checkNonEmpty(p.OutputPath, "output"); reason != "" {
		return v.unhealthy(p, reason)
	}

	outProbe, err := v.prober.Probe(ctx, p.OutputPath)
	if err != nil {
		return v.unhealthy(p, fmt.Sprintf("output unreadable: %v", err))
	}
	if !outProbe.HasVideo {
		return v.unhealthy(p, "output has no usable video stream")
	}

	drift := math.Abs(outProbe.DurationSeconds - original.DurationSeconds)
	if drift > v.tolerance {
		reason := fmt.Sprintf("duration mismatch: source %.1fs output %.1fs (tolerance %.1fs)",
			original.DurationSeconds, outProbe.DurationSeconds, v.tolerance)
		return v.unhealthy(p, reason)
	}

	v.logger.Info("output validated",
		logging.String("output", p.OutputPath),
		logging.Float64("duration_drift_seconds", drift),
	)
	return Result{Healthy: true, Probe: outProbe}
}

func (v *Validator) unhealthy(p plan.Plan, reason string) Result {
	v.logger.Warn("output failed health check",
		logging.String("output", p.OutputPath),
		logging.Error(services.Wrap(services.ErrValidation, "validation", "health check", reason, nil)),
	)
	return Result{Reason: reason}
}

// checkNonEmpty rejects missing and zero-byte files. Zero bytes would make
// the size statistics at commit time meaningless.
func checkNonEmpty(path, label string) string {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("%s stat failed: %v", label, err)
	}
	if info.Size() == 0 {
		return fmt.Sprintf("%s is zero bytes", label)
	}
	return ""
}

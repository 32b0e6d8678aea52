package validation_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arkiv/internal/logging"
	"arkiv/internal/media/probe"
	"arkiv/internal/plan"
	"arkiv/internal/validation"
)

type fakeProber struct {
	probes map[string]probe.Probe
	err    error
}

func (f *fakeProber) Probe(_ context.Context, path string) (probe.Probe, error) {
	if f.err != nil {
		return probe.Probe{}, f.err
	}
	pr, ok := f.probes[path]
	if !ok {
		return probe.Probe{}, errors.New("unexpected probe path: " + path)
	}
	return pr, nil
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testPlan(t *testing.T) plan.Plan {
	t.Helper()
	dir := t.TempDir()
	p := plan.Plan{
		SourcePath:   filepath.Join(dir, "film.mkv"),
		OutputPath:   filepath.Join(dir, "film.arkiv.mkv"),
		TargetHeight: 720,
		Encode:       true,
	}
	writeFile(t, p.SourcePath, strings.Repeat("s", 2048))
	writeFile(t, p.OutputPath, strings.Repeat("o", 1024))
	return p
}

func outputProbe(duration float64) probe.Probe {
	return probe.Probe{
		DurationSeconds: duration,
		VideoWidth:      1280,
		VideoHeight:     720,
		VideoCodec:      "hevc",
		Archived:        true,
		HasVideo:        true,
	}
}

func TestValidateHealthyWithinTolerance(t *testing.T) {
	p := testPlan(t)
	original := probe.Probe{DurationSeconds: 3600, HasVideo: true}
	prober := &fakeProber{probes: map[string]probe.Probe{p.OutputPath: outputProbe(3604.5)}}

	result := validation.New(prober, 6.0, logging.NewNop()).Validate(t.Context(), p, original)
	if !result.Healthy {
		t.Fatalf("expected healthy, got reason %q", result.Reason)
	}
	if !result.Probe.Archived {
		t.Fatal("expected output probe carried through")
	}
}

func TestValidateRejectsDurationMismatch(t *testing.T) {
	p := testPlan(t)
	original := probe.Probe{DurationSeconds: 3600, HasVideo: true}
	prober := &fakeProber{probes: map[string]probe.Probe{p.OutputPath: outputProbe(3570)}}

	result := validation.New(prober, 6.0, logging.NewNop()).Validate(t.Context(), p, original)
	if result.Healthy {
		t.Fatal("expected 30s drift to fail a 6s tolerance")
	}
	if !strings.Contains(result.Reason, "duration mismatch") {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
}

func TestValidateRejectsMissingVideoStream(t *testing.T) {
	p := testPlan(t)
	original := probe.Probe{DurationSeconds: 3600, HasVideo: true}
	out := outputProbe(3600)
	out.HasVideo = false
	prober := &fakeProber{probes: map[string]probe.Probe{p.OutputPath: out}}

	result := validation.New(prober, 6.0, logging.NewNop()).Validate(t.Context(), p, original)
	if result.Healthy {
		t.Fatal("expected output without video stream to fail")
	}
}

func TestValidateRejectsUnreadableOutput(t *testing.T) {
	p := testPlan(t)
	original := probe.Probe{DurationSeconds: 3600, HasVideo: true}
	prober := &fakeProber{err: errors.New("moov atom not found")}

	result := validation.New(prober, 6.0, logging.NewNop()).Validate(t.Context(), p, original)
	if result.Healthy {
		t.Fatal("expected unreadable output to fail")
	}
}

func TestValidateRejectsZeroByteFiles(t *testing.T) {
	p := testPlan(t)
	writeFile(t, p.OutputPath, "")
	original := probe.Probe{DurationSeconds: 3600, HasVideo: true}
	prober := &fakeProber{probes: map[string]probe.Probe{p.OutputPath: outputProbe(3600)}}

	result := validation.New(prober, 6.0, logging.NewNop()).Validate(t.Context(), p, original)
	if result.Healthy {
		t.Fatal("expected zero-byte output to fail")
	}
	if !strings.Contains(result.Reason, "zero bytes") {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
}

func TestValidateDefaultsTolerance(t *testing.T) {
	p := testPlan(t)
	original := probe.Probe{DurationSeconds: 100, HasVideo: true}
	prober := &fakeProber{probes: map[string]probe.Probe{p.OutputPath: outputProbe(105)}}

	result := validation.New(prober, 0, logging.NewNop()).Validate(t.Context(), p, original)
	if !result.Healthy {
		t.Fatalf("expected 5s drift within default tolerance, got %q", result.Reason)
	}
}

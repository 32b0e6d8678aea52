package encoding_test

import (
	"slices"
	"strings"
	"testing"

	"arkiv/internal/encoding"
	"arkiv/internal/plan"
)

var testSettings = encoding.Settings{Encoder: "libx265", CRF: 25, Preset: "faster"}

func argsFor(t *testing.T, p plan.Plan) []string {
	t.Helper()
	return encoding.BuildArgs(p, testSettings)
}

func TestBuildArgsWithResize(t *testing.T) {
	p := plan.Plan{
		SourcePath:   "/lib/film.mp4",
		OutputPath:   "/lib/film.arkiv.mkv",
		TargetHeight: 720,
		Resize:       true,
		Encode:       true,
	}
	args := argsFor(t, p)

	joined := strings.Join(args, " ")
	for _, fragment := range []string{
		"-i /lib/film.mp4",
		"-vf scale=-2:720",
		"-c:v libx265",
		"-crf 25",
		"-preset faster",
		"-c:a copy",
		"-c:s srt",
		"-metadata ARCHIVAL=yes",
		"-f matroska",
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in args %q", fragment, joined)
		}
	}
	if args[len(args)-1] != "/lib/film.arkiv.mkv" {
		t.Fatalf("expected output path last, got %q", args[len(args)-1])
	}
}

func TestBuildArgsWithoutResizeOmitsScaleFilter(t *testing.T) {
	p := plan.Plan{
		SourcePath:   "/lib/film.mkv",
		OutputPath:   "/lib/film.arkiv.mkv",
		TargetHeight: 480,
		Resize:       false,
		Encode:       true,
	}
	args := argsFor(t, p)

	if slices.Contains(args, "-vf") {
		t.Fatalf("expected no scale filter without resize, got %v", args)
	}
	if !slices.Contains(args, "-metadata") {
		t.Fatalf("archival tag must be stamped even without resize, got %v", args)
	}
}

func TestBuildArgsInputPrecedesOutput(t *testing.T) {
	p := plan.Plan{SourcePath: "in.mkv", OutputPath: "out.mkv", TargetHeight: 720}
	args := argsFor(t, p)

	in := slices.Index(args, "in.mkv")
	out := slices.Index(args, "out.mkv")
	if in < 0 || out < 0 || in > out {
		t.Fatalf("expected input before output, got %v", args)
	}
}

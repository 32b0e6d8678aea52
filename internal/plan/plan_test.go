package plan_test

import (
	"errors"
	"testing"

	"arkiv/internal/media/probe"
	"arkiv/internal/plan"
	"arkiv/internal/services"
)

func videoProbe(height int, archived bool) probe.Probe {
	return probe.Probe{
		DurationSeconds: 3600,
		VideoWidth:      height * 16 / 9,
		VideoHeight:     height,
		VideoCodec:      "h264",
		Archived:        archived,
		HasVideo:        true,
	}
}

func TestBuildDecisionTable(t *testing.T) {
	cases := []struct {
		name       string
		height     int
		archived   bool
		target     int
		resize     bool
		encode     bool
		planHeight int
	}{
		{name: "fresh at target", height: 720, archived: false, target: 720, resize: false, encode: true, planHeight: 720},
		{name: "fresh under target", height: 480, archived: false, target: 720, resize: false, encode: true, planHeight: 480},
		{name: "fresh above target", height: 1080, archived: false, target: 720, resize: true, encode: true, planHeight: 720},
		{name: "archived at target", height: 720, archived: true, target: 720, resize: false, encode: false, planHeight: 720},
		{name: "archived under target", height: 576, archived: true, target: 720, resize: false, encode: false, planHeight: 576},
		{name: "archived above target", height: 2160, archived: true, target: 720, resize: true, encode: true, planHeight: 720},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := plan.Build("/lib/movie.mp4", videoProbe(tc.height, tc.archived), tc.target)
			if err != nil {
				t.Fatalf("Build returned error: %v", err)
			}
			if p.Resize != tc.resize {
				t.Fatalf("resize = %v, want %v", p.Resize, tc.resize)
			}
			if p.Encode != tc.encode {
				t.Fatalf("encode = %v, want %v", p.Encode, tc.encode)
			}
			if p.TargetHeight != tc.planHeight {
				t.Fatalf("target height = %d, want %d", p.TargetHeight, tc.planHeight)
			}
		})
	}
}

func TestBuildRejectsMissingVideoStream(t *testing.T) {
	pr := probe.Probe{DurationSeconds: 120, HasVideo: false}
	_, err := plan.Build("/lib/audio-only.mkv", pr, 720)
	if err == nil {
		t.Fatal("expected error for file without video stream")
	}
	if !errors.Is(err, services.ErrNoVideoStream) {
		t.Fatalf("expected ErrNoVideoStream marker, got %v", err)
	}
}

func TestOutputPathsDeriveFromSource(t *testing.T) {
	p, err := plan.Build("/lib/show.avi", videoProbe(1080, false), 720)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if p.OutputPath != "/lib/show.arkiv.mkv" {
		t.Fatalf("unexpected output path: %q", p.OutputPath)
	}
	if p.FinalPath() != "/lib/show.mkv" {
		t.Fatalf("unexpected final path: %q", p.FinalPath())
	}
	if p.OutputPath == p.SourcePath {
		t.Fatal("output path must differ from source")
	}
}

func TestFinalPathMatchesSourceForMKV(t *testing.T) {
	p, err := plan.Build("/lib/film.mkv", videoProbe(1080, false), 720)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if p.FinalPath() != "/lib/film.mkv" {
		t.Fatalf("unexpected final path: %q", p.FinalPath())
	}
}

func TestIsWorkArtifact(t *testing.T) {
	if !plan.IsWorkArtifact("/lib/film.arkiv.mkv") {
		t.Fatal("expected work artifact to be detected")
	}
	if plan.IsWorkArtifact("/lib/film.mkv") {
		t.Fatal("regular file flagged as work artifact")
	}
}

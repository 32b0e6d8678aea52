package probe_test

import (
	"errors"
	"testing"

	"arkiv/internal/media/ffprobe"
	"arkiv/internal/media/probe"
	"arkiv/internal/services"
)

func TestFromResultSelectsRealVideoStream(t *testing.T) {
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{
			{CodecType: "video", CodecName: "mjpeg", Width: 600, Height: 600},
			{CodecType: "video", CodecName: "h264", Width: 1920, Height: 1080},
			{CodecType: "audio", CodecName: "aac"},
		},
		Format: ffprobe.Format{Duration: "5400.5"},
	}

	pr, err := probe.FromResult(result)
	if err != nil {
		t.Fatalf("FromResult returned error: %v", err)
	}
	if !pr.HasVideo {
		t.Fatal("expected a usable video stream")
	}
	if pr.VideoCodec != "h264" {
		t.Fatalf("expected cover art skipped, got codec %q", pr.VideoCodec)
	}
	if pr.VideoWidth != 1920 || pr.VideoHeight != 1080 {
		t.Fatalf("unexpected geometry: %dx%d", pr.VideoWidth, pr.VideoHeight)
	}
	if pr.DurationSeconds != 5400.5 {
		t.Fatalf("unexpected duration: %v", pr.DurationSeconds)
	}
	if pr.Archived {
		t.Fatal("expected unarchived without tag")
	}
}

func TestFromResultSkipsAttachedPictures(t *testing.T) {
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{
			{CodecType: "video", CodecName: "h264", Width: 300, Height: 300, Disposition: map[string]int{"attached_pic": 1}},
		},
		Format: ffprobe.Format{Duration: "10"},
	}

	pr, err := probe.FromResult(result)
	if err != nil {
		t.Fatalf("FromResult returned error: %v", err)
	}
	if pr.HasVideo {
		t.Fatal("expected attached picture to be ignored")
	}
}

func TestFromResultArchivalTag(t *testing.T) {
	base := ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "hevc", Width: 1280, Height: 720}},
		Format:  ffprobe.Format{Duration: "60"},
	}

	cases := []struct {
		name     string
		tags     map[string]string
		archived bool
	}{
		{name: "absent", tags: nil, archived: false},
		{name: "yes", tags: map[string]string{"ARCHIVAL": "yes"}, archived: true},
		{name: "lowercase key", tags: map[string]string{"archival": "yes"}, archived: true},
		{name: "other value", tags: map[string]string{"ARCHIVAL": "true"}, archived: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := base
			result.Format.Tags = tc.tags
			pr, err := probe.FromResult(result)
			if err != nil {
				t.Fatalf("FromResult returned error: %v", err)
			}
			if pr.Archived != tc.archived {
				t.Fatalf("archived = %v, want %v", pr.Archived, tc.archived)
			}
		})
	}
}

func TestFromResultRejectsMissingDuration(t *testing.T) {
	for _, duration := range []string{"", "garbage", "0"} {
		result := ffprobe.Result{
			Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "h264", Width: 1280, Height: 720}},
			Format:  ffprobe.Format{Duration: duration},
		}
		_, err := probe.FromResult(result)
		if err == nil {
			t.Fatalf("expected probe error for duration %q", duration)
		}
		if !errors.Is(err, services.ErrProbe) {
			t.Fatalf("expected ErrProbe marker, got %v", err)
		}
	}
}

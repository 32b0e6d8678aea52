package probe

import (
	"context"
	"math"
	"strings"

	"arkiv/internal/media/ffprobe"
	"arkiv/internal/services"
)

// ArchivalTag is the container-level metadata key stamped on every transcoded
// output. Its presence with ArchivalValue marks a file as already processed.
const ArchivalTag = "ARCHIVAL"

// ArchivalValue is the exact tag value that marks prior processing. Any other
// value means the file has not been through the pipeline.
const ArchivalValue = "yes"

// coverArtCodecs are image codecs that appear as "video" streams when a
// container embeds thumbnail or cover art. They are not real video tracks.
var coverArtCodecs = map[string]struct{}{
	"mjpeg": {},
	"png":   {},
	"bmp":   {},
	"gif":   {},
}

// Probe holds the per-file metadata one decision cycle operates on. It is
// immutable once built.
type Probe struct {
	DurationSeconds float64
	VideoWidth      int
	VideoHeight     int
	VideoCodec      string
	Archived        bool
	HasVideo        bool
}

// Prober inspects a media file and returns its probe. Implementations must be
// read-only with respect to the file.
type Prober interface {
	Probe(ctx context.Context, path string) (Probe, error)
}

// FFProber probes files by invoking ffprobe.
type FFProber struct {
	binary string
}

// NewFFProber constructs a Prober backed by the given ffprobe binary.
func NewFFProber(binary string) *FFProber {
	return &FFProber{binary: strings.TrimSpace(binary)}
}

func (p *FFProber) Probe(ctx context.Context, path string) (Probe, error) {
	result, err := ffprobe.Inspect(ctx, p.binary, path)
	if err != nil {
		return Probe{}, services.Wrap(services.ErrProbe, "probing", "inspect", path, err)
	}
	return FromResult(result)
}

// FromResult builds a Probe from parsed ffprobe output. A missing or
// unparseable container duration is a probe error; a missing video track is
// not (the probe reports HasVideo=false and policy decides what to do).
func FromResult(result ffprobe.Result) (Probe, error) {
	duration := result.DurationSeconds()
	if duration <= 0 || math.IsNaN(duration) {
		return Probe{}, services.Wrap(services.ErrProbe, "probing", "parse duration", result.Format.Duration, nil)
	}

	pr := Probe{DurationSeconds: duration}

	if value, ok := result.FormatTag(ArchivalTag); ok && value == ArchivalValue {
		pr.Archived = true
	}

	for _, stream := range result.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		codec := strings.ToLower(strings.TrimSpace(stream.CodecName))
		if _, ok := coverArtCodecs[codec]; ok {
			continue
		}
		if stream.Disposition["attached_pic"] == 1 {
			continue
		}
		pr.HasVideo = true
		pr.VideoWidth = stream.Width
		pr.VideoHeight = stream.Height
		pr.VideoCodec = codec
		break
	}

	return pr, nil
}

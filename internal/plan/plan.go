package plan

import (
	"path/filepath"
	"strings"

	"arkiv/internal/media/probe"
	"arkiv/internal/services"
)

// workSuffix marks the in-progress transcode artifact written next to the
// source. The scanner must never pick these up as candidates.
const workSuffix = ".arkiv.mkv"

// finalExt is the canonical container extension after a successful commit.
const finalExt = ".mkv"

// Plan is the resize/encode decision computed for one file before any
// external work begins. It is immutable once built.
type Plan struct {
	SourcePath   string
	OutputPath   string
	TargetHeight int
	Resize       bool
	Encode       bool
}

// Build computes the transcode plan for a probed file.
//
// A file above the target height always gets a resize-and-encode pass, even
// when a previous run already archived it: resolution is the binding
// constraint. An archived file at or under the target needs no work. A file
// without a usable video stream cannot be planned at all.
func Build(sourcePath string, pr probe.Probe, targetHeight int) (Plan, error) {
	if !pr.HasVideo {
		return Plan{}, services.Wrap(services.ErrNoVideoStream, "planning", "decide", sourcePath, nil)
	}

	p := Plan{
		SourcePath:   sourcePath,
		OutputPath:   WorkPath(sourcePath),
		TargetHeight: pr.VideoHeight,
	}

	if pr.VideoHeight > targetHeight {
		p.Resize = true
		p.TargetHeight = targetHeight
	}
	p.Encode = p.Resize || !pr.Archived

	return p, nil
}

// FinalPath returns the committed location of the transcoded file: the source
// base name with the canonical matroska extension.
func (p Plan) FinalPath() string {
	return stem(p.SourcePath) + finalExt
}

// WorkPath returns the temp artifact path the encoder writes to. It is
// distinct from the source so the original stays intact until validated.
func WorkPath(sourcePath string) string {
	return stem(sourcePath) + workSuffix
}

// IsWorkArtifact reports whether path is a leftover or in-progress transcode
// artifact.
func IsWorkArtifact(path string) bool {
	return strings.HasSuffix(filepath.Base(path), workSuffix)
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

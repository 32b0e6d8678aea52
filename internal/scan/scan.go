package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"arkiv/internal/plan"
)

var candidateExtensions = map[string]struct{}{
	".mkv": {},
	".mp4": {},
	".avi": {},
}

// Candidates walks root once and returns the ordered snapshot of video files
// eligible for processing. In-progress transcode artifacts from this pipeline
// are excluded so a crashed run's leftovers are never treated as sources.
func Candidates(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := candidateExtensions[ext]; !ok {
			return nil
		}
		if plan.IsWorkArtifact(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

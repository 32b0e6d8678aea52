package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProbe marks failures to read or parse container metadata.
	ErrProbe = errors.New("probe error")
	// ErrNoVideoStream marks files without a usable video track.
	ErrNoVideoStream = errors.New("no video stream")
	// ErrEncode marks a non-zero exit from the external encoder.
	ErrEncode = errors.New("encode error")
	// ErrValidation marks an output that failed the post-encode health check.
	ErrValidation = errors.New("validation error")
	// ErrMissingFile marks a candidate that disappeared between scan and processing.
	ErrMissingFile = errors.New("file missing")
	// ErrConfiguration marks unusable configuration values.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks an unavailable or broken external binary.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later outcome classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

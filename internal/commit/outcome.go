package commit

import (
	"fmt"
	"time"
)

// Status is the terminal state of one file's trip through the pipeline.
type Status string

const (
	StatusSkipped          Status = "skipped"
	StatusAlreadyProcessed Status = "already_processed"
	StatusTranscoded       Status = "transcoded"
	StatusFailed           Status = "failed"
	StatusFileMissing      Status = "file_missing"
)

// Outcome is the per-file report consumed by the run summary and the history
// journal.
type Outcome struct {
	Path         string
	Status       Status
	Reason       string
	SizeDeltaMB  int64
	PercentSaved int
	Elapsed      time.Duration
}

// Failed reports whether the outcome ends the file in a failed terminal state.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Line renders the human-readable per-file report line.
func (o Outcome) Line() string {
	switch o.Status {
	case StatusTranscoded:
		return fmt.Sprintf("%s: transcoded, saved %d MB (%d%%) in %s", o.Path, o.SizeDeltaMB, o.PercentSaved, o.Elapsed.Round(time.Second))
	case StatusAlreadyProcessed:
		return fmt.Sprintf("%s: already processed", o.Path)
	case StatusSkipped:
		if o.Reason != "" {
			return fmt.Sprintf("%s: skipped (%s)", o.Path, o.Reason)
		}
		return fmt.Sprintf("%s: skipped", o.Path)
	case StatusFileMissing:
		return fmt.Sprintf("%s: file missing", o.Path)
	case StatusFailed:
		return fmt.Sprintf("%s: failed: %s", o.Path, o.Reason)
	default:
		return fmt.Sprintf("%s: %s", o.Path, o.Status)
	}
}

package history_test

import (
	"path/filepath"
	"testing"
	"time"

	"arkiv/internal/commit"
	"arkiv/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	runID, err := store.BeginRun(ctx, "/lib")
	if err != nil {
		t.Fatalf("BeginRun returned error: %v", err)
	}

	outcomes := []commit.Outcome{
		{Path: "/lib/a.mkv", Status: commit.StatusTranscoded, SizeDeltaMB: 420, PercentSaved: 55, Elapsed: 90 * time.Second},
		{Path: "/lib/b.mkv", Status: commit.StatusAlreadyProcessed},
		{Path: "/lib/c.mkv", Status: commit.StatusFailed, Reason: "encode error"},
	}
	for _, outcome := range outcomes {
		if err := store.RecordOutcome(ctx, runID, outcome); err != nil {
			t.Fatalf("RecordOutcome returned error: %v", err)
		}
	}

	if err := store.FinishRun(ctx, runID, 1, 1, 1, 0); err != nil {
		t.Fatalf("FinishRun returned error: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != runID || run.LibraryDir != "/lib" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Transcoded != 1 || run.Skipped != 1 || run.Failed != 1 {
		t.Fatalf("unexpected counters: %+v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Fatal("expected finished timestamp")
	}

	records, err := store.RunOutcomes(ctx, runID)
	if err != nil {
		t.Fatalf("RunOutcomes returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Status != commit.StatusTranscoded || records[0].SizeDeltaMB != 420 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[2].Reason != "encode error" {
		t.Fatalf("unexpected third record: %+v", records[2])
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	store := openStore(t)
	if err := store.FinishRun(t.Context(), "missing", 0, 0, 0, 0); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestRecentRunsOrdering(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	first, err := store.BeginRun(ctx, "/lib")
	if err != nil {
		t.Fatalf("BeginRun returned error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := store.BeginRun(ctx, "/lib")
	if err != nil {
		t.Fatalf("BeginRun returned error: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != second {
		t.Fatalf("expected newest run %s first, got %+v", second, runs)
	}
	_ = first
}

package journal_test

import (
	"context"
	"testing"

	"mediamend/internal/journal"
	"mediamend/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, journal.RunKindProcess, "takeout-001.zip", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("run ID not assigned")
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if fetched == nil || fetched.Archive != "takeout-001.zip" || fetched.Kind != journal.RunKindProcess {
		t.Fatalf("unexpected run: %#v", fetched)
	}
	if fetched.FinishedAt != "" {
		t.Errorf("run should not be finished yet: %q", fetched.FinishedAt)
	}
}

func TestFinishRunStoresCounters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, journal.RunKindProcess, "", true)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	counters := journal.Counters{Organized: 7, Review: 2, Skipped: 1}
	if err := store.FinishRun(ctx, run.ID, counters); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if fetched.FinishedAt == "" {
		t.Error("finished_at not set")
	}
	if fetched.Counters != counters {
		t.Errorf("counters = %+v, want %+v", fetched.Counters, counters)
	}
	if !fetched.DryRun {
		t.Error("dry_run flag lost")
	}
}

func TestArchiveProcessedRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, journal.RunKindProcess, "takeout-002.zip", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	done, err := store.IsArchiveProcessed(ctx, "takeout-002.zip")
	if err != nil {
		t.Fatalf("IsArchiveProcessed: %v", err)
	}
	if done {
		t.Fatal("archive should not be processed yet")
	}

	if err := store.MarkArchiveProcessed(ctx, "takeout-002.zip", run.ID); err != nil {
		t.Fatalf("MarkArchiveProcessed: %v", err)
	}
	done, err = store.IsArchiveProcessed(ctx, "takeout-002.zip")
	if err != nil {
		t.Fatalf("IsArchiveProcessed: %v", err)
	}
	if !done {
		t.Fatal("archive should be processed")
	}

	// Marking again must not error; re-runs refresh the timestamp.
	if err := store.MarkArchiveProcessed(ctx, "takeout-002.zip", run.ID); err != nil {
		t.Fatalf("MarkArchiveProcessed again: %v", err)
	}
}

func TestMediaProcessedAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, journal.RunKindProcess, "takeout-003.zip", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	records := []journal.MediaRecord{
		{Path: "/t/IMG_001.jpg", RunID: run.ID, Outcome: journal.OutcomeOrganized, BundleDir: "2021/08/IMG_001", TimestampSource: "primary", GPSSource: "geoDataExif"},
		{Path: "/t/IMG_002.jpg", RunID: run.ID, Outcome: journal.OutcomeOrganized, BundleDir: "2021/08/IMG_002", TimestampSource: "embedded"},
		{Path: "/t/IMG_003.jpg", RunID: run.ID, Outcome: journal.OutcomeReview},
	}
	for _, record := range records {
		if err := store.MarkMediaProcessed(ctx, record); err != nil {
			t.Fatalf("MarkMediaProcessed(%s): %v", record.Path, err)
		}
	}
	if err := store.RecordReview(ctx, "/t/IMG_003.jpg", "no-timestamp", run.ID); err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if err := store.RecordConflict(ctx, "img_004.jpg.json", "/t/a/IMG_004.jpg.json"); err != nil {
		t.Fatalf("RecordConflict: %v", err)
	}

	processed, err := store.IsMediaProcessed(ctx, "/t/IMG_001.jpg")
	if err != nil {
		t.Fatalf("IsMediaProcessed: %v", err)
	}
	if !processed {
		t.Error("IMG_001 should be processed")
	}
	processed, err = store.IsMediaProcessed(ctx, "/t/IMG_999.jpg")
	if err != nil {
		t.Fatalf("IsMediaProcessed: %v", err)
	}
	if processed {
		t.Error("IMG_999 should not be processed")
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.MediaTotal != 3 {
		t.Errorf("MediaTotal = %d", stats.MediaTotal)
	}
	if stats.ByOutcome[journal.OutcomeOrganized] != 2 || stats.ByOutcome[journal.OutcomeReview] != 1 {
		t.Errorf("ByOutcome = %v", stats.ByOutcome)
	}
	if stats.Conflicts != 1 || stats.ReviewPending != 1 {
		t.Errorf("Conflicts = %d, ReviewPending = %d", stats.Conflicts, stats.ReviewPending)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	first, err := store.BeginRun(ctx, journal.RunKindExtract, "takeout-001.zip", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	second, err := store.BeginRun(ctx, journal.RunKindProcess, "takeout-001.zip", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Errorf("run order = [%s %s]", runs[0].ID, runs[1].ID)
	}
}

func TestSchemaMismatchDetected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	store.Close()

	// Reopening the same database succeeds while versions agree.
	reopened, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened.Close()
}

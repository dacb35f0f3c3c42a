package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Run kinds.
const (
	RunKindProcess = "process"
	RunKindExtract = "extract"
)

// Run describes one pipeline invocation.
type Run struct {
	ID         string
	Kind       string
	Archive    string
	DryRun     bool
	StartedAt  string
	FinishedAt string
	Counters   Counters
}

// Counters summarizes per-run media outcomes.
type Counters struct {
	Organized int
	Review    int
	Skipped   int
	Failed    int
}

// BeginRun inserts a new run row and returns its generated identifier.
func (s *Store) BeginRun(ctx context.Context, kind, archive string, dryRun bool) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Archive:   archive,
		DryRun:    dryRun,
		StartedAt: timestampNow(),
	}

	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, kind, archive, dry_run, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Kind, nullableString(run.Archive), boolToInt(run.DryRun), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run's end time and stores its final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, counters Counters) error {
	err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, organized = ?, review = ?, skipped = ?, failed = ? WHERE id = ?`,
		timestampNow(), counters.Organized, counters.Review, counters.Skipped, counters.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, COALESCE(archive, ''), dry_run, started_at, COALESCE(finished_at, ''),
		        organized, review, skipped, failed
		   FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var dryRun int
		if err := rows.Scan(&run.ID, &run.Kind, &run.Archive, &dryRun, &run.StartedAt, &run.FinishedAt,
			&run.Counters.Organized, &run.Counters.Review, &run.Counters.Skipped, &run.Counters.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a single run by identifier. Returns nil when absent.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, COALESCE(archive, ''), dry_run, started_at, COALESCE(finished_at, ''),
		        organized, review, skipped, failed
		   FROM runs WHERE id = ?`, runID)

	var run Run
	var dryRun int
	err := row.Scan(&run.ID, &run.Kind, &run.Archive, &dryRun, &run.StartedAt, &run.FinishedAt,
		&run.Counters.Organized, &run.Counters.Review, &run.Counters.Skipped, &run.Counters.Failed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.DryRun = dryRun != 0
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

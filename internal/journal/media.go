package journal

import (
	"context"
	"fmt"
)

// Media outcomes.
const (
	OutcomeOrganized       = "organized"
	OutcomeReview          = "review"
	OutcomePathTooLong     = "path-too-long"
	OutcomeSkippedExisting = "skipped-existing"
)

// MediaRecord captures how one media file was handled.
type MediaRecord struct {
	Path            string
	RunID           string
	Outcome         string
	BundleDir       string
	TimestampSource string
	GPSSource       string
}

// IsArchiveProcessed reports whether the named takeout volume completed a
// prior run.
func (s *Store) IsArchiveProcessed(ctx context.Context, name string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM processed_archives WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query processed archive: %w", err)
	}
	return count > 0, nil
}

// MarkArchiveProcessed records the named volume as fully handled.
func (s *Store) MarkArchiveProcessed(ctx context.Context, name, runID string) error {
	err := s.execWithRetry(ctx,
		`INSERT INTO processed_archives (name, run_id, processed_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET run_id = excluded.run_id, processed_at = excluded.processed_at`,
		name, runID, timestampNow())
	if err != nil {
		return fmt.Errorf("mark archive processed: %w", err)
	}
	return nil
}

// IsMediaProcessed reports whether a media path was already handled.
func (s *Store) IsMediaProcessed(ctx context.Context, path string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM processed_media WHERE path = ?", path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query processed media: %w", err)
	}
	return count > 0, nil
}

// MarkMediaProcessed records the outcome for one media file.
func (s *Store) MarkMediaProcessed(ctx context.Context, record MediaRecord) error {
	err := s.execWithRetry(ctx,
		`INSERT INTO processed_media (path, run_id, outcome, bundle_dir, timestamp_source, gps_source, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		     run_id = excluded.run_id,
		     outcome = excluded.outcome,
		     bundle_dir = excluded.bundle_dir,
		     timestamp_source = excluded.timestamp_source,
		     gps_source = excluded.gps_source,
		     processed_at = excluded.processed_at`,
		record.Path, record.RunID, record.Outcome,
		nullableString(record.BundleDir), nullableString(record.TimestampSource),
		nullableString(record.GPSSource), timestampNow())
	if err != nil {
		return fmt.Errorf("mark media processed: %w", err)
	}
	return nil
}

// RecordConflict quarantines a sidecar name that resolved to multiple
// differing records.
func (s *Store) RecordConflict(ctx context.Context, name, path string) error {
	err := s.execWithRetry(ctx,
		`INSERT INTO sidecar_conflicts (name, path, recorded_at) VALUES (?, ?, ?)
		 ON CONFLICT(name, path) DO UPDATE SET recorded_at = excluded.recorded_at`,
		name, path, timestampNow())
	if err != nil {
		return fmt.Errorf("record conflict: %w", err)
	}
	return nil
}

// RecordReview files a media path for manual attention.
func (s *Store) RecordReview(ctx context.Context, mediaPath, reason, runID string) error {
	err := s.execWithRetry(ctx,
		`INSERT INTO review_items (media_path, reason, run_id, recorded_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(media_path) DO UPDATE SET
		     reason = excluded.reason, run_id = excluded.run_id, recorded_at = excluded.recorded_at`,
		mediaPath, reason, runID, timestampNow())
	if err != nil {
		return fmt.Errorf("record review: %w", err)
	}
	return nil
}

// Stats aggregates journal totals for the status command.
type Stats struct {
	Archives      int
	MediaTotal    int
	ByOutcome     map[string]int
	Conflicts     int
	ReviewPending int
}

// Stats computes totals across the whole journal.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{ByOutcome: make(map[string]int)}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM processed_archives").Scan(&stats.Archives); err != nil {
		return stats, fmt.Errorf("count archives: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM sidecar_conflicts").Scan(&stats.Conflicts); err != nil {
		return stats, fmt.Errorf("count conflicts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM review_items").Scan(&stats.ReviewPending); err != nil {
		return stats, fmt.Errorf("count review items: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT outcome, COUNT(1) FROM processed_media GROUP BY outcome")
	if err != nil {
		return stats, fmt.Errorf("count media: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return stats, fmt.Errorf("scan outcome count: %w", err)
		}
		stats.ByOutcome[outcome] = count
		stats.MediaTotal += count
	}
	return stats, rows.Err()
}

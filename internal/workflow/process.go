package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mediamend/internal/archive"
	"mediamend/internal/bundle"
	"mediamend/internal/exiftool"
	"mediamend/internal/fileutil"
	"mediamend/internal/journal"
	"mediamend/internal/logging"
	"mediamend/internal/match"
	"mediamend/internal/resolve"
	"mediamend/internal/sidecar"
	"mediamend/internal/takeout"
)

func (p *Pipeline) processVolume(ctx context.Context, runID, volume string, index *sidecar.Index, opts Options, counters *journal.Counters, logger *slog.Logger) error {
	name := filepath.Base(volume)
	logger = logger.With(logging.String(logging.FieldArchive, name))

	if opts.DryRun {
		logger.Info("dry-run: would extract and process volume")
		return nil
	}

	root := p.cfg.ExtractDir()
	if err := archive.ExtractVolume(ctx, volume, root, opts.Force); err != nil {
		return err
	}

	media, err := archive.ScanMedia(root)
	if err != nil {
		return err
	}
	logger.Info("volume extracted", logging.Int("media", len(media)))

	for _, path := range media {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.processFile(ctx, runID, path, index, counters, logger); err != nil {
			// One broken file must not sink the volume.
			counters.Failed++
			logger.Error("media processing failed",
				logging.String(logging.FieldMedia, filepath.Base(path)),
				logging.Error(err))
		}
	}

	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("clean workbench: %w", err)
	}
	if err := p.store.MarkArchiveProcessed(ctx, name, runID); err != nil {
		return err
	}
	logger.Info("volume complete")
	return nil
}

func (p *Pipeline) processFile(ctx context.Context, runID, path string, index *sidecar.Index, counters *journal.Counters, logger *slog.Logger) error {
	media := takeout.ParseMediaFile(path)
	logger = logger.With(logging.String(logging.FieldMedia, media.Name))

	done, err := p.store.IsMediaProcessed(ctx, media.Name)
	if err != nil {
		return err
	}
	if done {
		counters.Skipped++
		logger.Debug("media already journaled, skipping")
		return nil
	}

	result, matchWarnings := match.Match(media, takeout.Candidates(media), index)
	for _, warning := range matchWarnings {
		logger.Warn("sidecar rejected by suffix rule",
			logging.String("candidate", warning.Candidate),
			logging.String("detail", warning.Detail))
	}

	embedded := p.readEmbedded(ctx, path, logger)
	meta, resolveWarnings := resolve.Resolve(result, toEmbedded(embedded))
	for _, warning := range resolveWarnings {
		logger.Warn("metadata value rejected",
			logging.String("code", warning.Code),
			logging.String("source", string(warning.Source)),
			logging.String("detail", warning.Detail))
	}

	assignment := bundle.Assign(media, meta)
	if assignment.NeedsReview {
		return p.routeToReview(ctx, runID, media, result, assignment.ReviewReason, counters, logger)
	}
	return p.organize(ctx, runID, media, result, meta, embedded, assignment, counters, logger)
}

// readEmbedded tolerates exiftool failures: unreadable embedded metadata
// just shortens the priority chain.
func (p *Pipeline) readEmbedded(ctx context.Context, path string, logger *slog.Logger) exiftool.Result {
	readCtx := ctx
	if timeout := p.cfg.ExifTool.TimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}
	result, err := exiftool.Read(readCtx, p.cfg.ExifTool.Binary, path)
	if err != nil {
		logger.Debug("embedded metadata unreadable", logging.Error(err))
		return exiftool.Result{}
	}
	return result
}

func toEmbedded(result exiftool.Result) resolve.Embedded {
	return resolve.Embedded{
		Taken:     result.Taken,
		HasTaken:  result.HasTaken,
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
		Altitude:  result.Altitude,
		HasGPS:    result.HasGPS,
	}
}

func (p *Pipeline) routeToReview(ctx context.Context, runID string, media takeout.MediaFile, result match.Result, reason string, counters *journal.Counters, logger *slog.Logger) error {
	dest := filepath.Join(p.cfg.OrphanDir(), media.Name)
	if err := os.MkdirAll(p.cfg.OrphanDir(), 0o755); err != nil {
		return err
	}
	if err := fileutil.MoveFile(media.Path, dest); err != nil {
		return err
	}
	p.copySidecars(result, p.cfg.OrphanDir(), logger)

	if err := p.store.RecordReview(ctx, dest, reason, runID); err != nil {
		return err
	}
	if err := p.store.MarkMediaProcessed(ctx, journal.MediaRecord{
		Path:    media.Name,
		RunID:   runID,
		Outcome: journal.OutcomeReview,
	}); err != nil {
		return err
	}
	counters.Review++
	logger.Info("media routed to review", logging.String("reason", reason))
	return nil
}

func (p *Pipeline) organize(ctx context.Context, runID string, media takeout.MediaFile, result match.Result, meta resolve.Metadata, embedded exiftool.Result, assignment bundle.Assignment, counters *journal.Counters, logger *slog.Logger) error {
	ext := media.Ext
	if embedded.RealExt != "" && embedded.RealExt != ext {
		// Takeout exports occasionally mislabel content; trust the bytes.
		logger.Info("correcting extension",
			logging.String("from", ext), logging.String("to", embedded.RealExt))
		ext = embedded.RealExt
	}

	destDir := assignment.Key.Dir(p.cfg.Paths.LibraryDir)
	dest := filepath.Join(destDir, media.DirBase()+ext)

	if limit := p.cfg.Library.MaxPathLength; limit > 0 && len(dest) > limit {
		return p.routeTooLong(ctx, runID, media, result, dest, counters, logger)
	}

	if _, err := os.Stat(dest); err == nil {
		counters.Skipped++
		logger.Info("destination already exists, skipping", logging.String("dest", dest))
		return p.store.MarkMediaProcessed(ctx, journal.MediaRecord{
			Path:    media.Name,
			RunID:   runID,
			Outcome: journal.OutcomeSkippedExisting,
		})
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	if err := fileutil.MoveFile(media.Path, dest); err != nil {
		return err
	}
	p.copySidecars(result, destDir, logger)
	p.writeMetadata(ctx, dest, meta, logger)

	record := journal.MediaRecord{
		Path:      media.Name,
		RunID:     runID,
		Outcome:   journal.OutcomeOrganized,
		BundleDir: destDir,
	}
	if meta.Timestamp != nil {
		record.TimestampSource = string(meta.Timestamp.Source)
	}
	if meta.GPS != nil {
		record.GPSSource = string(meta.GPS.Source)
	}
	if err := p.store.MarkMediaProcessed(ctx, record); err != nil {
		return err
	}
	counters.Organized++
	logger.Info("media organized",
		logging.String("dest", dest),
		logging.String("timestamp_source", record.TimestampSource),
		logging.String("gps_source", record.GPSSource))
	return nil
}

func (p *Pipeline) routeTooLong(ctx context.Context, runID string, media takeout.MediaFile, result match.Result, wouldBe string, counters *journal.Counters, logger *slog.Logger) error {
	dest := filepath.Join(p.cfg.PathTooLongDir(), media.Name)
	if err := os.MkdirAll(p.cfg.PathTooLongDir(), 0o755); err != nil {
		return err
	}
	if err := fileutil.MoveFile(media.Path, dest); err != nil {
		return err
	}
	p.copySidecars(result, p.cfg.PathTooLongDir(), logger)

	if err := p.store.RecordReview(ctx, dest, journal.OutcomePathTooLong, runID); err != nil {
		return err
	}
	if err := p.store.MarkMediaProcessed(ctx, journal.MediaRecord{
		Path:    media.Name,
		RunID:   runID,
		Outcome: journal.OutcomePathTooLong,
	}); err != nil {
		return err
	}
	counters.Review++
	logger.Warn("destination path too long, routed to review",
		logging.String("would_be", wouldBe),
		logging.Int("length", len(wouldBe)))
	return nil
}

// copySidecars keeps each matched sidecar next to the media it describes so
// bundles stay self-contained. The central repository copy is left in place.
func (p *Pipeline) copySidecars(result match.Result, destDir string, logger *slog.Logger) {
	for _, record := range result.Records() {
		target := filepath.Join(destDir, record.Name)
		if err := fileutil.CopyFile(record.Path, target); err != nil {
			logger.Warn("sidecar copy failed",
				logging.String("sidecar", record.Name), logging.Error(err))
		}
	}
}

// writeMetadata pushes resolved values back into the file's embedded tags.
// Values that came from the embedded tags themselves are never rewritten.
func (p *Pipeline) writeMetadata(ctx context.Context, path string, meta resolve.Metadata, logger *slog.Logger) {
	if !p.cfg.Library.WriteMetadata {
		return
	}
	binary := p.cfg.ExifTool.Binary
	if meta.Timestamp != nil && meta.Timestamp.Source != resolve.SourceEmbedded {
		if err := exiftool.WriteTimestamp(ctx, binary, path, meta.Timestamp.Time); err != nil {
			logger.Warn("timestamp write-back failed", logging.Error(err))
		}
	}
	if meta.GPS != nil && meta.GPS.Source != resolve.SourceEmbedded {
		if err := exiftool.WriteGPS(ctx, binary, path, meta.GPS.Latitude, meta.GPS.Longitude, meta.GPS.Altitude); err != nil {
			logger.Warn("gps write-back failed", logging.Error(err))
		}
	}
}

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"mediamend/internal/archive"
	"mediamend/internal/config"
	"mediamend/internal/journal"
	"mediamend/internal/logging"
	"mediamend/internal/preflight"
	"mediamend/internal/sidecar"
)

// Pipeline reconciles takeout volumes against the sidecar repository.
type Pipeline struct {
	cfg    *config.Config
	store  *journal.Store
	logger *slog.Logger
	lock   *flock.Flock
}

// Options control one pipeline run.
type Options struct {
	// Archive restricts the run to a single volume by filename. Empty means
	// every unprocessed volume in the archives directory.
	Archive string
	// DryRun previews the run without touching the filesystem or journal.
	DryRun bool
	// Force reprocesses volumes the journal already marks done and allows
	// extraction into a non-empty workbench.
	Force bool
}

// Summary reports what one run did.
type Summary struct {
	RunID    string
	Volumes  int
	Sidecars archive.ConsolidateResult
	Counters journal.Counters
	// Conflicts counts sidecar names quarantined during index build.
	Conflicts int
}

// New constructs a pipeline. The journal store may be shared with other
// commands; the lock is only held while Run executes.
func New(cfg *config.Config, store *journal.Store, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("pipeline requires config and journal store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		lock:   flock.New(filepath.Join(cfg.Paths.LogDir, "mediamend.lock")),
	}, nil
}

// Run executes the pipeline over the selected volumes.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	held, err := p.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !held {
		return nil, errors.New("another mediamend run is already in progress")
	}
	defer func() {
		if unlockErr := p.lock.Unlock(); unlockErr != nil {
			p.logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	if err := p.checkPreflight(ctx); err != nil {
		return nil, err
	}

	volumes, err := p.selectVolumes(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(volumes) == 0 {
		p.logger.Info("no unprocessed volumes found",
			logging.String("archives_dir", p.cfg.Paths.ArchivesDir))
		return &Summary{}, nil
	}

	summary := &Summary{}
	runID := ""
	if !opts.DryRun {
		run, err := p.store.BeginRun(ctx, journal.RunKindProcess, opts.Archive, opts.DryRun)
		if err != nil {
			return nil, err
		}
		runID = run.ID
		ctx = logging.WithRunID(ctx, runID)
		summary.RunID = runID
	}
	logger := logging.WithContext(ctx, p.logger)

	// All sidecars consolidate before any media moves; a file in volume 1
	// may depend on a sidecar that shipped in volume 3. A corrupt volume is
	// dropped from the run, never fatal to the others.
	usable := volumes[:0]
	for _, volume := range volumes {
		result, err := p.consolidate(ctx, volume, opts.DryRun, logger)
		if err != nil {
			if ctx.Err() != nil {
				return summary, err
			}
			logger.Error("volume unreadable, skipping",
				logging.String(logging.FieldArchive, filepath.Base(volume)),
				logging.Error(err))
			summary.Counters.Failed++
			continue
		}
		usable = append(usable, volume)
		summary.Sidecars.Copied += result.Copied
		summary.Sidecars.Skipped += result.Skipped
		summary.Sidecars.Conflicts += result.Conflicts
	}
	volumes = usable

	index, conflicts, err := p.loadIndex(ctx, runID, opts.DryRun, logger)
	if err != nil {
		return summary, err
	}
	summary.Conflicts = conflicts

	for _, volume := range volumes {
		if err := p.processVolume(ctx, runID, volume, index, opts, &summary.Counters, logger); err != nil {
			return summary, err
		}
		summary.Volumes++
	}

	if !opts.DryRun {
		if err := p.store.FinishRun(ctx, runID, summary.Counters); err != nil {
			return summary, err
		}
	}
	logger.Info("run complete",
		logging.Int("volumes", summary.Volumes),
		logging.Int("organized", summary.Counters.Organized),
		logging.Int("review", summary.Counters.Review),
		logging.Int("skipped", summary.Counters.Skipped),
		logging.Int("failed", summary.Counters.Failed))
	return summary, nil
}

func (p *Pipeline) checkPreflight(ctx context.Context) error {
	results := preflight.RunAll(ctx, p.cfg)
	failed := false
	for _, result := range results {
		if result.Passed {
			p.logger.Debug("preflight check passed",
				logging.String("check", result.Name), logging.String("detail", result.Detail))
			continue
		}
		failed = true
		p.logger.Error("preflight check failed",
			logging.String("check", result.Name), logging.String("detail", result.Detail))
	}
	if failed {
		return errors.New("preflight checks failed")
	}
	return nil
}

func (p *Pipeline) selectVolumes(ctx context.Context, opts Options) ([]string, error) {
	volumes, err := archive.ListVolumes(p.cfg.Paths.ArchivesDir)
	if err != nil {
		return nil, err
	}

	var selected []string
	for _, volume := range volumes {
		name := filepath.Base(volume)
		if opts.Archive != "" && !strings.EqualFold(name, opts.Archive) {
			continue
		}
		if !opts.Force {
			done, err := p.store.IsArchiveProcessed(ctx, name)
			if err != nil {
				return nil, err
			}
			if done {
				p.logger.Debug("volume already processed",
					logging.String(logging.FieldArchive, name))
				continue
			}
		}
		selected = append(selected, volume)
	}
	if opts.Archive != "" && len(selected) == 0 {
		return nil, fmt.Errorf("archive %q not found or already processed", opts.Archive)
	}
	return selected, nil
}

func (p *Pipeline) consolidate(ctx context.Context, volume string, dryRun bool, logger *slog.Logger) (archive.ConsolidateResult, error) {
	if dryRun {
		logger.Info("dry-run: would consolidate sidecars",
			logging.String(logging.FieldArchive, filepath.Base(volume)))
		return archive.ConsolidateResult{}, nil
	}
	result, err := archive.ConsolidateVolume(ctx, volume, p.cfg.Paths.SidecarDir, p.cfg.Paths.ConflictDir, logger)
	if err != nil {
		return result, err
	}
	logger.Info("sidecars consolidated",
		logging.String(logging.FieldArchive, filepath.Base(volume)),
		logging.Int("copied", result.Copied),
		logging.Int("skipped", result.Skipped),
		logging.Int("conflicts", result.Conflicts))
	return result, nil
}

// loadIndex parses the whole sidecar repository and quarantines conflicting
// names so they never silently win a lookup.
func (p *Pipeline) loadIndex(ctx context.Context, runID string, dryRun bool, logger *slog.Logger) (*sidecar.Index, int, error) {
	records, err := p.readSidecars(ctx, logger)
	if err != nil {
		return nil, 0, err
	}

	index, conflicts := sidecar.BuildIndex(records)
	for _, conflict := range conflicts {
		for _, record := range conflict.Records {
			logger.Warn("conflicting sidecar quarantined",
				logging.String("sidecar", record.Name),
				logging.String("path", record.Path))
			if dryRun {
				continue
			}
			if err := p.quarantine(record.Path); err != nil {
				return nil, 0, err
			}
			if err := p.store.RecordConflict(ctx, conflict.Name, record.Path); err != nil {
				return nil, 0, err
			}
		}
	}

	logger.Info("sidecar index built",
		logging.Int("records", index.Len()),
		logging.Int("conflicts", len(conflicts)))
	return index, len(conflicts), nil
}

func (p *Pipeline) readSidecars(ctx context.Context, logger *slog.Logger) ([]sidecar.Record, error) {
	var records []sidecar.Record
	err := filepath.WalkDir(p.cfg.Paths.SidecarDir, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		record, err := sidecar.Parse(path, data)
		if err != nil {
			// Undecodable JSON is quarantine-worthy but must not stop the run.
			logger.Warn("unparsable sidecar skipped",
				logging.String("path", path), logging.Error(err))
			return nil
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan sidecar repository: %w", err)
	}
	return records, nil
}

func (p *Pipeline) quarantine(path string) error {
	target := filepath.Join(p.cfg.Paths.ConflictDir, filepath.Base(path))
	if err := os.MkdirAll(p.cfg.Paths.ConflictDir, 0o755); err != nil {
		return err
	}
	return os.Rename(path, target)
}

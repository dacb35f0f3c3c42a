package testsupport

import (
	"path/filepath"
	"testing"

	"mediamend/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArchivesDir = filepath.Join(base, "archives")
	cfg.Paths.SidecarDir = filepath.Join(base, "sidecars")
	cfg.Paths.ConflictDir = filepath.Join(base, "conflicts")
	cfg.Paths.WorkbenchDir = filepath.Join(base, "workbench")
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.ReviewDir = filepath.Join(base, "review")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithMaxPathLength overrides the library path length limit.
func WithMaxPathLength(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Library.MaxPathLength = limit
	}
}

// WithoutMetadataWrites disables exiftool write-back on the test config.
func WithoutMetadataWrites() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Library.WriteMetadata = false
	}
}

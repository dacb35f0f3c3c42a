package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediamend/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if cfg.ExifTool.Binary != "exiftool" || cfg.ExifTool.TimeoutSeconds != 60 {
		t.Errorf("exiftool defaults = %+v", cfg.ExifTool)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if !cfg.Library.WriteMetadata {
		t.Error("write_metadata should default on")
	}
	if !filepath.IsAbs(cfg.Paths.LibraryDir) {
		t.Errorf("library dir not expanded: %q", cfg.Paths.LibraryDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
archives_dir = "` + filepath.Join(dir, "zips") + `"
library_dir = "` + filepath.Join(dir, "library") + `"

[logging]
format = " JSON "
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q, exists = %v", resolved, exists)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Paths.ArchivesDir != filepath.Join(dir, "zips") {
		t.Errorf("archives dir = %q", cfg.Paths.ArchivesDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("err = %v", err)
	}

	cfg = config.Default()
	cfg.Logging.Level = "trace"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("err = %v", err)
	}

	cfg = config.Default()
	cfg.Paths.WorkbenchDir = cfg.Paths.ArchivesDir
	if err := cfg.Validate(); err == nil {
		t.Error("identical archive and workbench dirs must fail")
	}
}

func TestEnsureDirectoriesSkipsArchives(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArchivesDir = filepath.Join(base, "archives")
	cfg.Paths.SidecarDir = filepath.Join(base, "sidecars")
	cfg.Paths.ConflictDir = filepath.Join(base, "conflicts")
	cfg.Paths.WorkbenchDir = filepath.Join(base, "workbench")
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.ReviewDir = filepath.Join(base, "review")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.SidecarDir); err != nil {
		t.Errorf("sidecar dir missing: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.ArchivesDir); !os.IsNotExist(err) {
		t.Errorf("archives dir must not be created: %v", err)
	}
}

func TestSampleConfigMentionsEverySection(t *testing.T) {
	sample := config.SampleConfig()
	for _, section := range []string{"[paths]", "[exiftool]", "[library]", "[logging]"} {
		if !strings.Contains(sample, section) {
			t.Errorf("sample config missing %s", section)
		}
	}
}

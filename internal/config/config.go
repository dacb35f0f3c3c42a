package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration. Archive volumes are immutable
// inputs; everything else is owned by mediamend.
type Paths struct {
	// ArchivesDir holds the downloaded takeout zip volumes. Never written to.
	ArchivesDir string `toml:"archives_dir"`
	// SidecarDir is the consolidated JSON sidecar repository.
	SidecarDir string `toml:"sidecar_dir"`
	// ConflictDir quarantines sidecars whose names collide with differing content.
	ConflictDir string `toml:"conflict_dir"`
	// WorkbenchDir is the scratch area archives are extracted into.
	WorkbenchDir string `toml:"workbench_dir"`
	// LibraryDir is the final year/month organized library.
	LibraryDir string `toml:"library_dir"`
	// ReviewDir collects media that needs manual attention.
	ReviewDir string `toml:"review_dir"`
	LogDir    string `toml:"log_dir"`
}

// ExifTool contains configuration for the external metadata tool.
type ExifTool struct {
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Library contains configuration for the output library.
type Library struct {
	// MaxPathLength routes files whose destination path would exceed this
	// many characters to review instead. 0 disables the check.
	MaxPathLength int `toml:"max_path_length"`
	// WriteMetadata controls whether resolved timestamps and GPS are written
	// back into the media files.
	WriteMetadata bool `toml:"write_metadata"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediamend.
type Config struct {
	Paths    Paths    `toml:"paths"`
	ExifTool ExifTool `toml:"exiftool"`
	Library  Library  `toml:"library"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/mediamend/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediamend.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories mediamend owns. ArchivesDir is
// deliberately excluded: it is input-only and may live on removable storage.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		c.Paths.SidecarDir,
		c.Paths.ConflictDir,
		c.Paths.WorkbenchDir,
		c.Paths.LogDir,
		c.Paths.ReviewDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		// Best-effort so config load survives offline external storage.
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// OrphanDir is the review area for media with no trustworthy timestamp.
func (c *Config) OrphanDir() string {
	return filepath.Join(c.Paths.ReviewDir, "unmatched-media")
}

// PathTooLongDir is the review area for media whose destination path would
// exceed the configured limit.
func (c *Config) PathTooLongDir() string {
	return filepath.Join(c.Paths.ReviewDir, "path-too-long")
}

// ExtractDir is the workbench subdirectory a takeout volume extracts into.
func (c *Config) ExtractDir() string {
	return filepath.Join(c.Paths.WorkbenchDir, "Takeout")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a possibly tilde-prefixed path to an absolute one.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	required := []struct {
		name  string
		value string
	}{
		{"paths.archives_dir", c.Paths.ArchivesDir},
		{"paths.sidecar_dir", c.Paths.SidecarDir},
		{"paths.conflict_dir", c.Paths.ConflictDir},
		{"paths.workbench_dir", c.Paths.WorkbenchDir},
		{"paths.library_dir", c.Paths.LibraryDir},
		{"paths.review_dir", c.Paths.ReviewDir},
		{"paths.log_dir", c.Paths.LogDir},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s must be set", field.name)
		}
	}
	if c.Paths.ArchivesDir == c.Paths.WorkbenchDir {
		return errors.New("paths.archives_dir and paths.workbench_dir must differ; archives are never extracted in place")
	}
	if c.Paths.LibraryDir == c.Paths.WorkbenchDir {
		return errors.New("paths.library_dir and paths.workbench_dir must differ")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MaxPathLength < 0 {
		return errors.New("library.max_path_length must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

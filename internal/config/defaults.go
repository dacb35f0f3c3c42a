package config

const (
	defaultArchivesDir    = "~/takeout-archives"
	defaultSidecarDir     = "~/.local/share/mediamend/sidecars"
	defaultConflictDir    = "~/.local/share/mediamend/sidecar-conflicts"
	defaultWorkbenchDir   = "~/.local/share/mediamend/workbench"
	defaultLibraryDir     = "~/library"
	defaultReviewDir      = "~/library-review"
	defaultLogDir         = "~/.local/share/mediamend/logs"
	defaultExiftoolBinary = "exiftool"
	defaultExiftoolWait   = 60
	defaultMaxPathLength  = 260
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ArchivesDir:  defaultArchivesDir,
			SidecarDir:   defaultSidecarDir,
			ConflictDir:  defaultConflictDir,
			WorkbenchDir: defaultWorkbenchDir,
			LibraryDir:   defaultLibraryDir,
			ReviewDir:    defaultReviewDir,
			LogDir:       defaultLogDir,
		},
		ExifTool: ExifTool{
			Binary:         defaultExiftoolBinary,
			TimeoutSeconds: defaultExiftoolWait,
		},
		Library: Library{
			MaxPathLength: defaultMaxPathLength,
			WriteMetadata: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

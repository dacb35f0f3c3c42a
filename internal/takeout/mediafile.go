package takeout

import (
	"path/filepath"
	"strings"
)

// MediaFile identifies one exported media file by its parsed name components.
// Values are immutable once parsed.
type MediaFile struct {
	// Path is the on-disk location the file was discovered at.
	Path string
	// Name is the bare filename, duplicate suffix and extension intact.
	Name string
	// Stem is the filename without extension and without duplicate suffix.
	Stem string
	// Ext is the extension including the leading dot, as spelled on disk.
	Ext string
	// Suffix is the duplicate suffix value; meaningful only when HasSuffix.
	Suffix    int
	HasSuffix bool
}

// ParseMediaFile decomposes a media path into its name components.
func ParseMediaFile(path string) MediaFile {
	name := filepath.Base(path)
	stripped, n, ok := SplitSuffix(name)
	ext := filepath.Ext(stripped)
	return MediaFile{
		Path:      path,
		Name:      name,
		Stem:      strings.TrimSuffix(stripped, ext),
		Ext:       ext,
		Suffix:    n,
		HasSuffix: ok,
	}
}

// DirBase returns the name used for the media file's bundle directory: the
// filename without its extension, duplicate suffix intact so sibling
// duplicates land in distinct bundles.
func (m MediaFile) DirBase() string {
	if m.HasSuffix {
		return m.Stem + FormatSuffix(m.Suffix)
	}
	return m.Stem
}

package sidecar

import (
	"regexp"
	"strings"
)

// Kind distinguishes the per-file sidecar from recovery-oriented
// supplemental sidecars.
type Kind string

const (
	KindPrimary      Kind = "primary"
	KindSupplemental Kind = "supplemental"
)

// GeoPoint is one latitude/longitude/altitude triple as declared by a
// sidecar. Validity screening happens at resolution time, not here.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Record is one parsed metadata sidecar. Immutable once parsed.
type Record struct {
	// Path is the sidecar's location in the sidecar repository.
	Path string
	// Name is the on-disk filename.
	Name string
	// Title is the declared original media filename. It may differ from the
	// on-disk name due to truncation or character substitution.
	Title string
	// Timestamp is the source-declared capture time in epoch seconds,
	// meaningful only when HasTimestamp.
	Timestamp    int64
	HasTimestamp bool
	// GeoData and GeoDataExif are nil when the sidecar omits them or their
	// coordinates are unparsable.
	GeoData     *GeoPoint
	GeoDataExif *GeoPoint
	Kind        Kind
	// Suffix is the duplicate suffix parsed from the sidecar filename,
	// meaningful only when HasSuffix.
	Suffix    int
	HasSuffix bool
}

var supplementalShortRE = regexp.MustCompile(`(?i)\.sup(\(\d+\))?\.json$`)

// KindOf classifies a sidecar filename by its marker family.
func KindOf(name string) Kind {
	if strings.Contains(strings.ToLower(name), ".supplemental-metadata") || supplementalShortRE.MatchString(name) {
		return KindSupplemental
	}
	return KindPrimary
}

// contentEqual reports whether two records carry the same metadata,
// ignoring where on disk they came from.
func (r Record) contentEqual(other Record) bool {
	if r.Title != other.Title || r.Kind != other.Kind {
		return false
	}
	if r.HasTimestamp != other.HasTimestamp || r.Timestamp != other.Timestamp {
		return false
	}
	if r.HasSuffix != other.HasSuffix || r.Suffix != other.Suffix {
		return false
	}
	return geoEqual(r.GeoData, other.GeoData) && geoEqual(r.GeoDataExif, other.GeoDataExif)
}

func geoEqual(a, b *GeoPoint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

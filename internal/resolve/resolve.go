// Package resolve turns a match result plus externally supplied embedded
// metadata into the final timestamp and GPS decision for one media file.
//
// Both values follow fixed priority chains. Every resolved value carries an
// explicit source tag; rejections that affect data quality (out-of-window
// timestamps, Null Island coordinates) come back as structured warnings so
// the caller can audit them, distinct from silent expected absences.
package resolve

import (
	"fmt"
	"math"
	"time"

	"mediamend/internal/match"
	"mediamend/internal/sidecar"
)

// Capture times outside this window are distrusted and skipped.
// 1893456000 is 2030-01-01T00:00:00Z.
const (
	minTimestamp int64 = 0
	maxTimestamp int64 = 1893456000
)

// nullIslandEpsilon bounds how close both coordinates must be to zero before
// the pair means "no location" rather than a real place. A point with only
// one zero axis (equator or prime meridian) is a real place.
const nullIslandEpsilon = 1e-4

// Source tags the origin of a resolved value. Callers must branch on the
// tag and never treat "present" as "embedded".
type Source string

const (
	SourceEmbedded     Source = "embedded"
	SourcePrimary      Source = "primary"
	SourceSupplemental Source = "supplemental"
	SourceGeoDataExif  Source = "geoDataExif"
	SourceGeoData      Source = "geoData"
)

// Timestamp is a resolved capture time with its provenance.
type Timestamp struct {
	Time   time.Time
	Source Source
}

// GPS is a resolved coordinate with its provenance. Altitude carries through
// unchanged from whichever source supplied the latitude/longitude pair.
type GPS struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
	Source    Source
}

// Metadata is the final decision for one media file. Nil fields mean the
// chain produced nothing trustworthy; a nil Timestamp routes the file to
// manual review and a nil GPS is omitted entirely, never defaulted to (0,0).
type Metadata struct {
	Timestamp *Timestamp
	GPS       *GPS
}

// Embedded is the metadata read from inside the media file by the external
// supplier. A failed read is represented as the zero value (everything
// absent), not an error.
type Embedded struct {
	Taken     time.Time
	HasTaken  bool
	Latitude  float64
	Longitude float64
	Altitude  float64
	HasGPS    bool
}

// Warning codes for audit-relevant rejections.
const (
	WarnTimestampOutOfRange = "timestamp-out-of-range"
	WarnNullIsland          = "null-island"
)

// Warning records one rejected value in a priority chain.
type Warning struct {
	Media  string
	Code   string
	Source Source
	Detail string
}

// Resolve applies the timestamp and GPS priority chains to a match result.
func Resolve(result match.Result, embedded Embedded) (Metadata, []Warning) {
	var warnings []Warning
	meta := Metadata{}
	meta.Timestamp = resolveTimestamp(result, embedded, &warnings)
	meta.GPS = resolveGPS(result, embedded, &warnings)
	return meta, warnings
}

// resolveTimestamp walks embedded -> primary -> supplemental, skipping
// out-of-window values with a warning and continuing down the chain.
func resolveTimestamp(result match.Result, embedded Embedded, warnings *[]Warning) *Timestamp {
	media := result.Media.Name

	if embedded.HasTaken {
		if inWindow(embedded.Taken.Unix()) {
			return &Timestamp{Time: embedded.Taken.UTC(), Source: SourceEmbedded}
		}
		*warnings = append(*warnings, outOfRange(media, SourceEmbedded, embedded.Taken.Unix()))
	}

	if result.Primary != nil && result.Primary.HasTimestamp {
		if inWindow(result.Primary.Timestamp) {
			return &Timestamp{Time: time.Unix(result.Primary.Timestamp, 0).UTC(), Source: SourcePrimary}
		}
		*warnings = append(*warnings, outOfRange(media, SourcePrimary, result.Primary.Timestamp))
	}

	for _, rec := range result.Supplemental {
		if !rec.HasTimestamp {
			continue
		}
		if inWindow(rec.Timestamp) {
			return &Timestamp{Time: time.Unix(rec.Timestamp, 0).UTC(), Source: SourceSupplemental}
		}
		*warnings = append(*warnings, outOfRange(media, SourceSupplemental, rec.Timestamp))
	}

	return nil
}

// resolveGPS walks embedded -> geoDataExif -> geoData. geoDataExif wins over
// geoData whenever both are present and valid, regardless of which record
// carries them, hence the two passes over the record list.
func resolveGPS(result match.Result, embedded Embedded, warnings *[]Warning) *GPS {
	media := result.Media.Name

	if embedded.HasGPS {
		if ValidCoordinate(embedded.Latitude, embedded.Longitude) {
			return &GPS{Latitude: embedded.Latitude, Longitude: embedded.Longitude, Altitude: embedded.Altitude, Source: SourceEmbedded}
		}
		*warnings = append(*warnings, nullIsland(media, SourceEmbedded))
	}

	records := result.Records()
	for _, rec := range records {
		if gps := fromGeoPoint(rec.GeoDataExif, SourceGeoDataExif, media, warnings); gps != nil {
			return gps
		}
	}
	for _, rec := range records {
		if gps := fromGeoPoint(rec.GeoData, SourceGeoData, media, warnings); gps != nil {
			return gps
		}
	}
	return nil
}

func fromGeoPoint(point *sidecar.GeoPoint, source Source, media string, warnings *[]Warning) *GPS {
	if point == nil {
		return nil
	}
	if !ValidCoordinate(point.Latitude, point.Longitude) {
		*warnings = append(*warnings, nullIsland(media, source))
		return nil
	}
	return &GPS{Latitude: point.Latitude, Longitude: point.Longitude, Altitude: point.Altitude, Source: source}
}

// ValidCoordinate reports whether a latitude/longitude pair names a real
// place. Only the (0,0) pair, within epsilon, is treated as absent.
func ValidCoordinate(lat, lon float64) bool {
	return !(math.Abs(lat) < nullIslandEpsilon && math.Abs(lon) < nullIslandEpsilon)
}

func inWindow(ts int64) bool {
	return ts >= minTimestamp && ts <= maxTimestamp
}

func outOfRange(media string, source Source, ts int64) Warning {
	return Warning{
		Media:  media,
		Code:   WarnTimestampOutOfRange,
		Source: source,
		Detail: fmt.Sprintf("timestamp %d (%s) outside 1970-2030 window", ts, time.Unix(ts, 0).UTC().Format(time.RFC3339)),
	}
}

func nullIsland(media string, source Source) Warning {
	return Warning{Media: media, Code: WarnNullIsland, Source: source, Detail: "coordinates at (0,0)"}
}

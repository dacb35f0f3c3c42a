package sidecar

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"mediamend/internal/takeout"
)

// rawSidecar mirrors the Takeout JSON shape for the fields this system
// trusts. Everything else in the document is ignored.
type rawSidecar struct {
	Title          string   `json:"title"`
	PhotoTakenTime *rawTime `json:"photoTakenTime"`
	CreationTime   *rawTime `json:"creationTime"`
	GeoData        *rawGeo  `json:"geoData"`
	GeoDataExif    *rawGeo  `json:"geoDataExif"`
}

type rawTime struct {
	Timestamp string `json:"timestamp"`
}

type rawGeo struct {
	Latitude  coordinate `json:"latitude"`
	Longitude coordinate `json:"longitude"`
	Altitude  coordinate `json:"altitude"`
}

// coordinate decodes Takeout coordinate values, which appear as JSON numbers
// in most exports and as quoted strings in some older ones. An unparsable
// value decodes to NaN so a single bad coordinate degrades to "field absent"
// instead of failing the whole record.
type coordinate float64

func (c *coordinate) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			*c = coordinate(math.NaN())
			return nil
		}
		s = strings.TrimSpace(quoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*c = coordinate(math.NaN())
		return nil
	}
	*c = coordinate(v)
	return nil
}

// Parse decodes one sidecar's JSON content into a Record. Missing or
// malformed fields become absent fields; only an undecodable document fails.
func Parse(path string, data []byte) (Record, error) {
	name := filepath.Base(path)

	var raw rawSidecar
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("parse sidecar %s: %w", name, err)
	}

	rec := Record{
		Path:  path,
		Name:  name,
		Title: raw.Title,
		Kind:  KindOf(name),
	}
	rec.Suffix, rec.HasSuffix = parseNameSuffix(name)
	rec.Timestamp, rec.HasTimestamp = pickTimestamp(raw.PhotoTakenTime, raw.CreationTime)
	rec.GeoData = geoPoint(raw.GeoData)
	rec.GeoDataExif = geoPoint(raw.GeoDataExif)
	return rec, nil
}

var trailingMarkerRE = regexp.MustCompile(`(?i)\.(?:supplemental-metadata|sup)$`)

// parseNameSuffix extracts the duplicate suffix from a sidecar filename. After
// trimming the trailing .json, most names are one of the two placements the
// media-name parser already understands ("IMG_0042(1).jpg", "IMG_0042.jpg(15)",
// "IMG.MOV.supplemental-metadata(1)"). Supplemental names may instead carry the
// suffix inside the media-name portion, as in
// "IMG_3136(1).MOV.supplemental-metadata.json", so when the direct parse finds
// nothing the marker segment is stripped and the remainder parsed again.
func parseNameSuffix(name string) (int, bool) {
	trimmed := name
	if strings.EqualFold(filepath.Ext(name), ".json") {
		trimmed = name[:len(name)-len(".json")]
	}
	if n, ok := takeout.ParseSuffix(trimmed); ok {
		return n, ok
	}
	if stripped := trailingMarkerRE.ReplaceAllString(trimmed, ""); stripped != trimmed {
		return takeout.ParseSuffix(stripped)
	}
	return 0, false
}

// pickTimestamp prefers photoTakenTime and falls back to creationTime. The
// sanity window is the resolver's concern; parsing only rejects values that
// are not integers at all.
func pickTimestamp(taken, created *rawTime) (int64, bool) {
	for _, field := range []*rawTime{taken, created} {
		if field == nil {
			continue
		}
		raw := strings.TrimSpace(field.Timestamp)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

func geoPoint(raw *rawGeo) *GeoPoint {
	if raw == nil {
		return nil
	}
	lat := float64(raw.Latitude)
	lon := float64(raw.Longitude)
	alt := float64(raw.Altitude)
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return nil
	}
	if math.IsNaN(alt) {
		alt = 0
	}
	return &GeoPoint{Latitude: lat, Longitude: lon, Altitude: alt}
}

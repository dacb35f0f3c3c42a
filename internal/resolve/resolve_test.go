package resolve_test

import (
	"testing"
	"time"

	"mediamend/internal/match"
	"mediamend/internal/resolve"
	"mediamend/internal/sidecar"
	"mediamend/internal/takeout"
)

func supplementalRecord(payload string) func(*testing.T) sidecar.Record {
	return func(t *testing.T) sidecar.Record {
		t.Helper()
		rec, err := sidecar.Parse("/repo/IMG_1.jpg.supplemental-metadata.json", []byte(payload))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		return rec
	}
}

func primaryRecord(t *testing.T, payload string) *sidecar.Record {
	t.Helper()
	rec, err := sidecar.Parse("/repo/IMG_1.jpg.json", []byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return &rec
}

func mediaResult(primary *sidecar.Record, supplemental ...sidecar.Record) match.Result {
	return match.Result{
		Media:        takeout.ParseMediaFile("IMG_1.jpg"),
		Primary:      primary,
		Supplemental: supplemental,
	}
}

func TestValidCoordinate(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{0.0, 0.0, false},
		{0.00005, -0.00005, false},
		{0.0, 78.4677, true},
		{51.4769, 0.0, true},
		{45.569666, -122.674138, true},
	}
	for _, tc := range cases {
		if got := resolve.ValidCoordinate(tc.lat, tc.lon); got != tc.want {
			t.Errorf("ValidCoordinate(%v, %v) = %v; want %v", tc.lat, tc.lon, got, tc.want)
		}
	}
}

func TestResolveTimestampPrefersEmbedded(t *testing.T) {
	taken := time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC)
	meta, warnings := resolve.Resolve(
		mediaResult(primaryRecord(t, `{"photoTakenTime": {"timestamp": "1629289799"}}`)),
		resolve.Embedded{Taken: taken, HasTaken: true},
	)
	if len(warnings) != 0 {
		t.Fatalf("warnings: %+v", warnings)
	}
	if meta.Timestamp == nil || meta.Timestamp.Source != resolve.SourceEmbedded || !meta.Timestamp.Time.Equal(taken) {
		t.Fatalf("timestamp = %+v", meta.Timestamp)
	}
}

func TestResolveTimestampSupplementalFallback(t *testing.T) {
	// No embedded, no primary; supplemental carries 2021-08-18T12:29:59Z.
	rec := supplementalRecord(`{"photoTakenTime": {"timestamp": "1629289799"}}`)(t)
	meta, warnings := resolve.Resolve(mediaResult(nil, rec), resolve.Embedded{})
	if len(warnings) != 0 {
		t.Fatalf("warnings: %+v", warnings)
	}
	if meta.Timestamp == nil || meta.Timestamp.Source != resolve.SourceSupplemental {
		t.Fatalf("timestamp = %+v", meta.Timestamp)
	}
	want := time.Date(2021, 8, 18, 12, 29, 59, 0, time.UTC)
	if !meta.Timestamp.Time.Equal(want) {
		t.Errorf("time = %v; want %v", meta.Timestamp.Time, want)
	}
}

func TestResolveTimestampOutOfWindowContinuesChain(t *testing.T) {
	// Primary declares a year-2150 capture time; the chain must skip it with
	// a warning and settle on the supplemental value.
	primary := primaryRecord(t, `{"photoTakenTime": {"timestamp": "5680281600"}}`)
	supp := supplementalRecord(`{"photoTakenTime": {"timestamp": "1629289799"}}`)(t)
	meta, warnings := resolve.Resolve(mediaResult(primary, supp), resolve.Embedded{})
	if meta.Timestamp == nil || meta.Timestamp.Source != resolve.SourceSupplemental {
		t.Fatalf("timestamp = %+v", meta.Timestamp)
	}
	if len(warnings) != 1 || warnings[0].Code != resolve.WarnTimestampOutOfRange {
		t.Fatalf("warnings = %+v", warnings)
	}
}

func TestResolveNoTimestampAnywhere(t *testing.T) {
	meta, _ := resolve.Resolve(mediaResult(nil), resolve.Embedded{})
	if meta.Timestamp != nil {
		t.Fatalf("timestamp = %+v; want absent", meta.Timestamp)
	}
}

func TestResolveGPSPrefersGeoDataExifOverGeoData(t *testing.T) {
	rec := supplementalRecord(`{
		"geoDataExif": {"latitude": 45.5231, "longitude": -122.6765, "altitude": 15.0},
		"geoData": {"latitude": 10.0, "longitude": 20.0, "altitude": 0.0}
	}`)(t)
	meta, _ := resolve.Resolve(mediaResult(nil, rec), resolve.Embedded{})
	gps := meta.GPS
	if gps == nil || gps.Source != resolve.SourceGeoDataExif {
		t.Fatalf("gps = %+v", gps)
	}
	if gps.Latitude != 45.5231 || gps.Longitude != -122.6765 || gps.Altitude != 15.0 {
		t.Errorf("gps triple = %+v", gps)
	}
}

func TestResolveGPSGeoDataExifWinsAcrossRecords(t *testing.T) {
	// geoDataExif on a later record still beats geoData on an earlier one.
	first := supplementalRecord(`{"geoData": {"latitude": 10.0, "longitude": 20.0}}`)(t)
	second := supplementalRecord(`{"geoDataExif": {"latitude": 45.5231, "longitude": -122.6765}}`)(t)
	meta, _ := resolve.Resolve(mediaResult(nil, first, second), resolve.Embedded{})
	if meta.GPS == nil || meta.GPS.Source != resolve.SourceGeoDataExif {
		t.Fatalf("gps = %+v", meta.GPS)
	}
}

func TestResolveGPSNullIslandFallsThrough(t *testing.T) {
	rec := supplementalRecord(`{
		"geoDataExif": {"latitude": 0.0, "longitude": 0.0},
		"geoData": {"latitude": 51.4769, "longitude": 0.0, "altitude": 2.0}
	}`)(t)
	meta, warnings := resolve.Resolve(mediaResult(nil, rec), resolve.Embedded{})
	if meta.GPS == nil || meta.GPS.Source != resolve.SourceGeoData {
		t.Fatalf("gps = %+v", meta.GPS)
	}
	if meta.GPS.Latitude != 51.4769 || meta.GPS.Longitude != 0.0 {
		t.Errorf("prime-meridian point must be valid: %+v", meta.GPS)
	}
	found := false
	for _, w := range warnings {
		if w.Code == resolve.WarnNullIsland && w.Source == resolve.SourceGeoDataExif {
			found = true
		}
	}
	if !found {
		t.Errorf("missing null-island warning: %+v", warnings)
	}
}

func TestResolveGPSOmittedEntirely(t *testing.T) {
	rec := supplementalRecord(`{"geoData": {"latitude": 0.0, "longitude": 0.0}}`)(t)
	meta, _ := resolve.Resolve(mediaResult(nil, rec), resolve.Embedded{})
	if meta.GPS != nil {
		t.Fatalf("gps = %+v; must be omitted, never defaulted to (0,0)", meta.GPS)
	}
}

func TestResolveEmbeddedGPSWins(t *testing.T) {
	rec := supplementalRecord(`{"geoDataExif": {"latitude": 45.5231, "longitude": -122.6765}}`)(t)
	meta, _ := resolve.Resolve(mediaResult(nil, rec), resolve.Embedded{
		Latitude: 60.17, Longitude: 24.94, Altitude: 7, HasGPS: true,
	})
	if meta.GPS == nil || meta.GPS.Source != resolve.SourceEmbedded || meta.GPS.Latitude != 60.17 {
		t.Fatalf("gps = %+v", meta.GPS)
	}
}

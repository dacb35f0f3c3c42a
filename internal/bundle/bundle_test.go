package bundle_test

import (
	"path/filepath"
	"testing"
	"time"

	"mediamend/internal/bundle"
	"mediamend/internal/resolve"
	"mediamend/internal/takeout"
)

func TestAssignDerivesUTCCalendarFields(t *testing.T) {
	media := takeout.ParseMediaFile("/workbench/IMG_3136(1).MOV")
	// 2021-08-18T23:30:00-08:00 is already the 19th in UTC.
	local := time.Date(2021, 8, 18, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))
	meta := resolve.Metadata{Timestamp: &resolve.Timestamp{Time: local, Source: resolve.SourcePrimary}}

	got := bundle.Assign(media, meta)
	if got.NeedsReview {
		t.Fatalf("unexpected review: %+v", got)
	}
	if got.Key.Year != 2021 || got.Key.Month != time.August {
		t.Errorf("key = %+v", got.Key)
	}
	if got.Key.Base != "IMG_3136(1)" {
		t.Errorf("base = %q", got.Key.Base)
	}
	want := filepath.Join("/library", "2021", "08", "IMG_3136(1)")
	if dir := got.Key.Dir("/library"); dir != want {
		t.Errorf("Dir = %q; want %q", dir, want)
	}
}

func TestAssignWithoutTimestampRoutesToReview(t *testing.T) {
	media := takeout.ParseMediaFile("IMG_0001.jpg")
	got := bundle.Assign(media, resolve.Metadata{})
	if !got.NeedsReview || got.ReviewReason != bundle.ReasonNoTimestamp {
		t.Fatalf("assignment = %+v; want manual review with reason %q", got, bundle.ReasonNoTimestamp)
	}
	if got.Key != (bundle.Key{}) {
		t.Errorf("no fallback key may be produced: %+v", got.Key)
	}
}

package exiftool

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const writeTimeLayout = "2006:01:02 15:04:05"

// WriteTimestamp stamps the resolved capture time into the file's date tags,
// including FileModifyDate so downstream tools that sort on it agree with
// the embedded value.
func WriteTimestamp(ctx context.Context, binary, path string, t time.Time) error {
	stamp := t.UTC().Format(writeTimeLayout)
	args := []string{
		"-DateTimeOriginal=" + stamp,
		"-CreateDate=" + stamp,
		"-FileModifyDate=" + stamp,
		"-overwrite_original",
		"-P",
		path,
	}
	if _, err := run(ctx, normalizeBinary(binary), args...); err != nil {
		return fmt.Errorf("write timestamp: %w", err)
	}
	return nil
}

// WriteGPS stamps a coordinate triple into the file.
func WriteGPS(ctx context.Context, binary, path string, lat, lon, alt float64) error {
	args := []string{
		"-GPSLatitude=" + formatCoord(lat),
		"-GPSLongitude=" + formatCoord(lon),
		"-GPSAltitude=" + formatCoord(alt),
		"-overwrite_original",
		"-P",
		path,
	}
	if _, err := run(ctx, normalizeBinary(binary), args...); err != nil {
		return fmt.Errorf("write gps: %w", err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func normalizeBinary(binary string) string {
	if binary == "" {
		return "exiftool"
	}
	return binary
}

// Package exiftool shells out to ExifTool to read and write embedded media
// metadata.
//
// Reads are best-effort: ExifTool exits non-zero for many recoverable
// warnings, so output is accepted whenever it parses. Callers treat a read
// failure as "embedded metadata absent", never as fatal. Writes are strict.
package exiftool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// readTags are the fields requested when inspecting a media file. The
// QuickTime-family dates cover video containers that omit DateTimeOriginal.
var readTags = []string{
	"-DateTimeOriginal",
	"-CreateDate",
	"-MediaCreateDate",
	"-TrackCreateDate",
	"-GPSLatitude",
	"-GPSLongitude",
	"-GPSAltitude",
	"-FileTypeExtension",
}

// exifTimeLayouts are the date spellings ExifTool emits, tried in order.
var exifTimeLayouts = []string{
	"2006:01:02 15:04:05-07:00",
	"2006:01:02 15:04:05Z",
	"2006:01:02 15:04:05",
}

// Result holds the embedded metadata read from one media file.
type Result struct {
	Taken     time.Time
	HasTaken  bool
	Latitude  float64
	Longitude float64
	Altitude  float64
	HasGPS    bool
	// RealExt is the extension implied by the file's actual content
	// (".jpg" style, lower case), or empty when undetected.
	RealExt string
}

type runnerFunc func(ctx context.Context, binary string, args ...string) ([]byte, error)

var run runnerFunc = runCommand

// SetRunnerForTests replaces the ExifTool process runner and returns a
// restore func.
func SetRunnerForTests(fn runnerFunc) func() {
	previous := run
	run = fn
	return func() { run = previous }
}

func runCommand(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Keep stdout: ExifTool reports warnings via the exit code while
			// still emitting usable output.
			return output, fmt.Errorf("exiftool: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return output, nil
}

// rawTags mirrors the -j output for the requested fields. Numeric GPS values
// (-n) occasionally surface as strings in damaged files, hence json.Number.
type rawTags struct {
	DateTimeOriginal string       `json:"DateTimeOriginal"`
	CreateDate       string       `json:"CreateDate"`
	MediaCreateDate  string       `json:"MediaCreateDate"`
	TrackCreateDate  string       `json:"TrackCreateDate"`
	GPSLatitude      *json.Number `json:"GPSLatitude"`
	GPSLongitude     *json.Number `json:"GPSLongitude"`
	GPSAltitude      *json.Number `json:"GPSAltitude"`
	FileTypeExt      string       `json:"FileTypeExtension"`
}

// Read inspects one media file. The error covers process and decode
// failures only; absent tags simply leave the corresponding Result fields
// unset.
func Read(ctx context.Context, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "exiftool"
	}
	args := append([]string{"-j", "-n"}, readTags...)
	args = append(args, path)

	output, runErr := run(ctx, binary, args...)
	if len(output) == 0 && runErr != nil {
		return Result{}, runErr
	}

	var payload []rawTags
	if err := json.Unmarshal(output, &payload); err != nil {
		if runErr != nil {
			// The run error usually names the real cause when stdout is junk.
			return Result{}, fmt.Errorf("exiftool parse: %w (%v)", err, runErr)
		}
		return Result{}, fmt.Errorf("exiftool parse: %w", err)
	}
	if len(payload) == 0 {
		return Result{}, errors.New("exiftool: empty payload")
	}
	return fromTags(payload[0]), nil
}

func fromTags(tags rawTags) Result {
	var result Result

	for _, value := range []string{tags.DateTimeOriginal, tags.CreateDate, tags.MediaCreateDate, tags.TrackCreateDate} {
		if t, ok := parseExifTime(value); ok {
			result.Taken = t
			result.HasTaken = true
			break
		}
	}

	lat, latOK := numberValue(tags.GPSLatitude)
	lon, lonOK := numberValue(tags.GPSLongitude)
	if latOK && lonOK {
		result.Latitude = lat
		result.Longitude = lon
		result.HasGPS = true
		if alt, ok := numberValue(tags.GPSAltitude); ok {
			result.Altitude = alt
		}
	}

	ext := strings.ToLower(strings.TrimSpace(tags.FileTypeExt))
	if ext != "" && ext != "none" {
		result.RealExt = "." + ext
	}
	return result
}

func parseExifTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "0000") {
		return time.Time{}, false
	}
	for _, layout := range exifTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func numberValue(n *json.Number) (float64, bool) {
	if n == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger = NewComponentLogger(logger, "pipeline")
	logger.Info("archive processed", String(FieldArchive, "takeout-001.zip"), Int("media", 42))

	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Errorf("missing level: %q", line)
	}
	if !strings.Contains(line, "pipeline: archive processed") {
		t.Errorf("component prefix missing: %q", line)
	}
	if !strings.Contains(line, "archive=takeout-001.zip") || !strings.Contains(line, "media=42") {
		t.Errorf("attrs missing: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Warn("note", String("detail", "needs review"))

	if !strings.Contains(buf.String(), `detail="needs review"`) {
		t.Errorf("value not quoted: %q", buf.String())
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("msg", slog.Group("gps", slog.Float64("lat", 40.7), slog.Float64("lon", -74.0)))

	line := buf.String()
	if !strings.Contains(line, "gps.lat=40.7") || !strings.Contains(line, "gps.lon=-74") {
		t.Errorf("group not flattened: %q", line)
	}
}

func TestJSONHandlerRenamesStandardKeys(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))

	logger.Error("boom", String("path", "/tmp/x"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["level"] != "error" || decoded["msg"] != "boom" {
		t.Errorf("decoded = %v", decoded)
	}
	if _, ok := decoded["ts"]; !ok {
		t.Error("ts key missing")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestWithContextAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	ctx := WithRunID(context.Background(), "run-abc")
	WithContext(ctx, logger).Info("started")

	if !strings.Contains(buf.String(), "run_id=run-abc") {
		t.Errorf("run_id missing: %q", buf.String())
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("ignored")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should not be enabled")
	}
}

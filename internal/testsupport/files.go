package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMedia creates a placeholder media file with a small payload so size
// comparisons and moves have real bytes to work with.
func WriteMedia(t testing.TB, path string) {
	t.Helper()
	WriteFile(t, path, []byte("media-bytes"))
}

// WriteSidecar writes a Takeout-style JSON sidecar next to nothing in
// particular; callers choose the directory.
func WriteSidecar(t testing.TB, path string, json string) {
	t.Helper()
	WriteFile(t, path, []byte(json))
}

package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediamend/internal/logging"
)

// ConsolidateResult summarizes one volume's sidecar consolidation.
type ConsolidateResult struct {
	Copied    int
	Skipped   int
	Conflicts int
}

// ConsolidateVolume streams every JSON sidecar out of the volume into
// sidecarDir without extracting media. A sidecar whose name already exists
// with identical bytes is skipped; a differing duplicate lands in conflictDir
// under a name tagged with the volume it came from.
func ConsolidateVolume(ctx context.Context, volumePath, sidecarDir, conflictDir string, logger *slog.Logger) (ConsolidateResult, error) {
	var result ConsolidateResult
	if logger == nil {
		logger = logging.NewNop()
	}

	reader, err := zip.OpenReader(volumePath)
	if err != nil {
		return result, fmt.Errorf("open volume %s: %w", filepath.Base(volumePath), err)
	}
	defer reader.Close()

	if err := os.MkdirAll(sidecarDir, 0o755); err != nil {
		return result, fmt.Errorf("create sidecar dir: %w", err)
	}

	volume := VolumeName(volumePath)
	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if file.FileInfo().IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(file.Name), ".json") {
			continue
		}

		data, err := readZipEntry(file)
		if err != nil {
			return result, fmt.Errorf("read %s from %s: %w", file.Name, volume, err)
		}

		name := filepath.Base(file.Name)
		target := filepath.Join(sidecarDir, name)

		existing, err := os.ReadFile(target)
		switch {
		case err == nil && bytes.Equal(existing, data):
			result.Skipped++
			continue
		case err == nil:
			conflictPath := filepath.Join(conflictDir, conflictName(name, volume))
			if err := writeSidecar(conflictPath, data); err != nil {
				return result, err
			}
			logger.Warn("sidecar differs across volumes",
				logging.String("sidecar", name),
				logging.String(logging.FieldArchive, volume),
				logging.String("quarantined", conflictPath))
			result.Conflicts++
			continue
		case !os.IsNotExist(err):
			return result, fmt.Errorf("read existing sidecar %s: %w", target, err)
		}

		if err := writeSidecar(target, data); err != nil {
			return result, err
		}
		result.Copied++
	}

	return result, nil
}

func readZipEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func writeSidecar(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sidecar %s: %w", path, err)
	}
	return nil
}

// conflictName tags a duplicate sidecar with its source volume so differing
// copies never overwrite each other.
func conflictName(name, volume string) string {
	stem := strings.TrimSuffix(name, ".json")
	return stem + "_" + volume + ".json"
}

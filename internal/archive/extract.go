package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mediamend/internal/fileutil"
)

// ExtractVolume unpacks the volume's media entries into destDir. JSON
// sidecars are never extracted here; ConsolidateVolume owns those. A
// non-empty destination is refused unless force is set, so a crashed run
// cannot silently mix two volumes.
func ExtractVolume(ctx context.Context, volumePath, destDir string, force bool) error {
	hasFiles, err := fileutil.DirHasFiles(destDir)
	if err != nil {
		return fmt.Errorf("inspect destination: %w", err)
	}
	if hasFiles && !force {
		return fmt.Errorf("destination %s is not empty; re-run with force to extract anyway", destDir)
	}

	reader, err := zip.OpenReader(volumePath)
	if err != nil {
		return fmt.Errorf("open volume %s: %w", filepath.Base(volumePath), err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(file.Name), ".json") {
			continue
		}

		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return err
		}
		if err := extractEntry(file, target); err != nil {
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
	}
	return nil
}

// safeJoin rejects entry names that would escape the destination root.
func safeJoin(root, name string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(root, filepath.FromSlash(name)))
	if cleaned != root && !strings.HasPrefix(cleaned, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes extraction root", name)
	}
	return cleaned, nil
}

func extractEntry(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

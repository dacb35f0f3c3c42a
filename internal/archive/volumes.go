package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListVolumes returns the zip volumes under dir, sorted by name so multi-part
// exports process in a stable order.
func ListVolumes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read archives dir: %w", err)
	}

	var volumes []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			continue
		}
		volumes = append(volumes, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(volumes)
	return volumes, nil
}

// VolumeName reports the volume's base name without the zip extension.
func VolumeName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

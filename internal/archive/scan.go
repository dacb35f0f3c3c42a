package archive

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ScanMedia walks root and returns every non-JSON file, sorted so processing
// order is deterministic.
func ScanMedia(root string) ([]string, error) {
	var media []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		media = append(media, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(media)
	return media, nil
}

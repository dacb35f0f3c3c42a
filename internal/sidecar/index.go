package sidecar

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Index is the read-only sidecar lookup shared by a processing run. Keys are
// exact filenames folded to lower case and Unicode NFC; there is no globbing
// and no fuzzy distance.
type Index struct {
	records map[string]Record
}

// Conflict groups same-named records whose content disagrees. They are kept
// out of the index so a filename maps to at most one trusted record; the
// caller routes them to quarantine.
type Conflict struct {
	// Name is the folded filename the records collided on.
	Name    string
	Records []Record
}

// BuildIndex folds records into an index, excluding conflicting groups.
// Records that collide with identical content are deduplicated silently.
// Conflicts come back in first-seen order.
func BuildIndex(records []Record) (*Index, []Conflict) {
	index := &Index{records: make(map[string]Record, len(records))}

	grouped := make(map[string][]Record, len(records))
	var order []string
	for _, rec := range records {
		key := FoldName(rec.Name)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], rec)
	}

	var conflicts []Conflict
	for _, key := range order {
		group := grouped[key]
		if conflicting(group) {
			conflicts = append(conflicts, Conflict{Name: key, Records: group})
			continue
		}
		index.records[key] = group[0]
	}
	return index, conflicts
}

func conflicting(group []Record) bool {
	for _, rec := range group[1:] {
		if !group[0].contentEqual(rec) {
			return true
		}
	}
	return false
}

// Lookup returns the trusted record for an exact filename, if any.
func (x *Index) Lookup(name string) (Record, bool) {
	rec, ok := x.records[FoldName(name)]
	return rec, ok
}

// Len reports how many trusted records the index holds.
func (x *Index) Len() int {
	return len(x.records)
}

// FoldName canonicalizes a filename for index keying: lower case, NFC.
// macOS-authored archives carry NFD names for the same logical file.
func FoldName(name string) string {
	return norm.NFC.String(strings.ToLower(name))
}

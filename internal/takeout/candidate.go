package takeout

import (
	"path/filepath"
	"strings"
)

const sidecarExt = ".json"

// supplementalMarkers are the marker families Google inserts into
// supplemental sidecar filenames, in generation order.
var supplementalMarkers = []string{"supplemental-metadata", "sup"}

// extensionAliases maps extensions that Takeout spells inconsistently between
// media files and sidecar titles.
var extensionAliases = map[string]string{
	".jpg":  ".jpeg",
	".jpeg": ".jpg",
}

// CandidateSet is the bounded list of sidecar filenames that could describe
// one media file. Primary candidates name the per-file sidecar; supplemental
// candidates name the recovery-oriented sidecars. Both lists are exact
// spellings in deterministic order, generated before any existence check.
type CandidateSet struct {
	Primary      []string
	Supplemental []string
}

// Candidates generates the sidecar filenames for m. Every candidate carries
// the media file's own duplicate suffix (or none when the media file has
// none); the set never expands across suffix values.
func Candidates(m MediaFile) CandidateSet {
	variants := nameVariants(m)

	var set CandidateSet
	primary := newNameList()
	for _, variant := range variants {
		for _, spelling := range aliasVariants(variant) {
			primary.add(spelling + sidecarExt)
		}
	}
	set.Primary = primary.names

	supplemental := newNameList()
	if m.HasSuffix {
		base, _, _ := SplitSuffix(m.Name)
		tag := FormatSuffix(m.Suffix)
		for _, spelling := range aliasVariants(base) {
			for _, marker := range supplementalMarkers {
				supplemental.add(spelling + "." + marker + tag + sidecarExt)
			}
		}
		for _, variant := range variants {
			for _, spelling := range aliasVariants(variant) {
				for _, marker := range supplementalMarkers {
					supplemental.add(spelling + "." + marker + sidecarExt)
					supplemental.add(spelling + "." + marker + tag + sidecarExt)
				}
			}
		}
	} else {
		for _, spelling := range aliasVariants(m.Name) {
			for _, marker := range supplementalMarkers {
				supplemental.add(spelling + "." + marker + sidecarExt)
			}
		}
	}
	set.Supplemental = supplemental.names

	return set
}

// nameVariants returns the media filename in both suffix placements the
// exporter produces, canonical placement first. An unsuffixed name has a
// single variant.
func nameVariants(m MediaFile) []string {
	if !m.HasSuffix {
		return []string{m.Name}
	}
	base, n, _ := SplitSuffix(m.Name)
	variants := newNameList()
	variants.add(InsertSuffix(base, n))
	variants.add(AppendSuffix(base, n))
	return variants.names
}

// aliasVariants returns the name plus its extension-alias spelling when the
// extension belongs to a known alias pair (.jpg/.jpeg).
func aliasVariants(name string) []string {
	ext := filepath.Ext(name)
	alias, ok := extensionAliases[strings.ToLower(ext)]
	if !ok {
		return []string{name}
	}
	return []string{name, strings.TrimSuffix(name, ext) + alias}
}

// nameList accumulates names preserving first-insertion order.
type nameList struct {
	seen  map[string]struct{}
	names []string
}

func newNameList() *nameList {
	return &nameList{seen: make(map[string]struct{})}
}

func (l *nameList) add(name string) {
	if _, ok := l.seen[name]; ok {
		return
	}
	l.seen[name] = struct{}{}
	l.names = append(l.names, name)
}

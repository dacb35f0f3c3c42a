// Package match selects the sidecar records that actually describe a media
// file from its generated candidate set.
//
// Matching is strict: a record is only ever considered when its parsed
// duplicate suffix equals the media file's, and absence of a match is an
// expected outcome, never an error. There is no range expansion and no
// fallback to a differently-suffixed record.
package match

import (
	"fmt"

	"mediamend/internal/sidecar"
	"mediamend/internal/takeout"
)

// Result pairs a media file with the sidecar records that describe it.
// Immutable once produced; running the engine twice on the same inputs
// yields the same result.
type Result struct {
	Media takeout.MediaFile
	// Primary is the first primary-candidate hit, if any.
	Primary *sidecar.Record
	// Supplemental holds every supplemental-candidate hit in generation
	// order; Google legitimately emits several for distinct duplicates.
	Supplemental []sidecar.Record
}

// Matched reports whether any record was found.
func (r Result) Matched() bool {
	return r.Primary != nil || len(r.Supplemental) > 0
}

// Records returns the matched records, primary first.
func (r Result) Records() []sidecar.Record {
	records := make([]sidecar.Record, 0, len(r.Supplemental)+1)
	if r.Primary != nil {
		records = append(records, *r.Primary)
	}
	return append(records, r.Supplemental...)
}

// Warning flags an index hit rejected by the suffix discipline rule. The
// candidate generator should never produce one; the lookup-time check guards
// against regressions there.
type Warning struct {
	Media     string
	Candidate string
	Detail    string
}

// Match looks the candidate set up in the index. Suffix equality between
// media file and record is enforced again here, so a mismatched record is
// rejected with a warning even if a candidate name somehow reached it.
func Match(media takeout.MediaFile, candidates takeout.CandidateSet, index *sidecar.Index) (Result, []Warning) {
	result := Result{Media: media}
	var warnings []Warning

	for _, name := range candidates.Primary {
		rec, ok := index.Lookup(name)
		if !ok {
			continue
		}
		if !suffixEqual(media, rec) {
			warnings = append(warnings, suffixWarning(media, rec))
			continue
		}
		if result.Primary == nil {
			primary := rec
			result.Primary = &primary
		}
	}

	for _, name := range candidates.Supplemental {
		rec, ok := index.Lookup(name)
		if !ok {
			continue
		}
		if !suffixEqual(media, rec) {
			warnings = append(warnings, suffixWarning(media, rec))
			continue
		}
		result.Supplemental = append(result.Supplemental, rec)
	}

	return result, warnings
}

func suffixEqual(media takeout.MediaFile, rec sidecar.Record) bool {
	if media.HasSuffix != rec.HasSuffix {
		return false
	}
	return !media.HasSuffix || media.Suffix == rec.Suffix
}

func suffixWarning(media takeout.MediaFile, rec sidecar.Record) Warning {
	return Warning{
		Media:     media.Name,
		Candidate: rec.Name,
		Detail: fmt.Sprintf("suffix mismatch: media %s, sidecar %s",
			describeSuffix(media.Suffix, media.HasSuffix), describeSuffix(rec.Suffix, rec.HasSuffix)),
	}
}

func describeSuffix(n int, ok bool) string {
	if !ok {
		return "none"
	}
	return takeout.FormatSuffix(n)
}

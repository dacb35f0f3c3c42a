package takeout

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Google appends "(N)" to disambiguate exported files sharing a base name.
// Only 1-3 digit numerals count: a 4+ digit parenthesized number is
// indistinguishable from a literal year and is never treated as a suffix.
var (
	suffixBeforeExt = regexp.MustCompile(`^(.+)\((\d{1,3})\)(\.[^.]+)$`)
	suffixAfterExt  = regexp.MustCompile(`^(.+\.[^.]+)\((\d{1,3})\)$`)
)

// ParseSuffix extracts the duplicate suffix from a filename. Both placements
// the exporter produces are accepted: "IMG_0123(2).JPG" and
// "IMG_0123.JPG(2)". Absence is a common, valid result, not an error.
func ParseSuffix(name string) (int, bool) {
	_, n, ok := SplitSuffix(name)
	return n, ok
}

// SplitSuffix returns the filename with its duplicate suffix removed
// (extension intact) together with the suffix value. When no suffix is
// present the name comes back unchanged and ok is false.
func SplitSuffix(name string) (base string, n int, ok bool) {
	if m := suffixBeforeExt.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return m[1] + m[3], n, true
		}
	}
	if m := suffixAfterExt.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return m[1], n, true
		}
	}
	return name, 0, false
}

// FormatSuffix renders a suffix value in Google's parenthesized spelling.
func FormatSuffix(n int) string {
	return fmt.Sprintf("(%d)", n)
}

// InsertSuffix places the suffix before the extension: "IMG.MOV" becomes
// "IMG(2).MOV". A name without an extension gets the suffix appended.
func InsertSuffix(name string, n int) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + FormatSuffix(n) + ext
}

// AppendSuffix places the suffix after the extension: "IMG.MOV" becomes
// "IMG.MOV(2)".
func AppendSuffix(name string, n int) string {
	return name + FormatSuffix(n)
}

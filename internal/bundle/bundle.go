// Package bundle derives the destination grouping for a media file from its
// resolved metadata. Year/month grouping is computed here and nowhere else.
package bundle

import (
	"fmt"
	"path/filepath"
	"time"

	"mediamend/internal/resolve"
	"mediamend/internal/takeout"
)

// Key is the destination grouping for one media file: UTC calendar fields of
// the resolved capture time plus the media file's directory base name.
type Key struct {
	Year  int
	Month time.Month
	Base  string
}

// Dir returns the bundle directory under root: root/YYYY/MM/Base.
func (k Key) Dir(root string) string {
	return filepath.Join(root, fmt.Sprintf("%04d", k.Year), fmt.Sprintf("%02d", int(k.Month)), k.Base)
}

// ReasonNoTimestamp is the manual-review reason for files with no
// trustworthy capture time.
const ReasonNoTimestamp = "no-timestamp"

// Assignment is the outcome for one media file: a bundle key, or a
// manual-review routing with a reason code.
type Assignment struct {
	Key          Key
	NeedsReview  bool
	ReviewReason string
}

// Assign derives the bundle key from the resolved timestamp. A missing
// timestamp routes to manual review; no default or fallback key is ever
// produced.
func Assign(media takeout.MediaFile, meta resolve.Metadata) Assignment {
	if meta.Timestamp == nil {
		return Assignment{NeedsReview: true, ReviewReason: ReasonNoTimestamp}
	}
	t := meta.Timestamp.Time.UTC()
	return Assignment{Key: Key{Year: t.Year(), Month: t.Month(), Base: media.DirBase()}}
}

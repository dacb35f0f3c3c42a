// Package takeout models the naming conventions Google Takeout uses for
// exported media and their JSON sidecars.
//
// It parses the parenthesized duplicate-filename suffix (both placements the
// exporter produces), represents a media file as its immutable parsed name
// components, and generates the exact, bounded set of sidecar filenames that
// could legitimately describe a media file. Candidate generation is pure: it
// never consults the filesystem, and it never emits a candidate whose
// duplicate suffix differs from the media file's own.
package takeout

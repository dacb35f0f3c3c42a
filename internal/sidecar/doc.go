// Package sidecar parses Takeout JSON metadata sidecars and indexes them for
// exact-match lookup.
//
// A Record is an immutable snapshot of one sidecar with explicit
// present/absent semantics per field; malformed or missing fields become
// absent fields, never errors. The Index folds filenames to lower case and
// Unicode NFC and guarantees a filename maps to at most one trusted record:
// same-named records with differing content are excluded and handed back as
// conflicts for quarantine.
package sidecar

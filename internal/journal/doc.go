// Package journal persists pipeline history in SQLite.
//
// The journal records which takeout volumes and media files have already been
// handled so re-running the pipeline never reprocesses or double-moves a
// file. It also keeps sidecar conflict quarantines, manual review items, and
// per-run counters for the status command.
package journal

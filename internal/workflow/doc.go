// Package workflow orchestrates the full reconciliation pipeline: sidecar
// consolidation, index building, volume extraction, per-file matching and
// metadata resolution, and the final move into the dated library layout.
//
// The pipeline holds an advisory file lock for its whole run so two
// invocations can never race over the workbench, and records every decision
// in the journal so interrupted runs resume without double-processing.
package workflow

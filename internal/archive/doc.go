// Package archive handles Google Takeout zip volumes.
//
// A takeout export usually ships as several numbered volumes. The package
// lists them, consolidates every JSON sidecar into a single directory before
// any media is touched, and extracts the media payload into the workbench.
package archive

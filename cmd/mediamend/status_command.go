package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mediamend/internal/archive"
	"mediamend/internal/config"
	"mediamend/internal/journal"
	"mediamend/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show preflight results, pending volumes, and journal totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(cfg *config.Config, store *journal.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Preflight", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
				fmt.Fprintln(out)

				if err := renderVolumes(cmd, cfg, store); err != nil {
					return err
				}
				return renderJournal(cmd, store)
			})
		},
	}
}

func renderVolumes(cmd *cobra.Command, cfg *config.Config, store *journal.Store) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	volumes, err := archive.ListVolumes(cfg.Paths.ArchivesDir)
	if err != nil {
		// A missing archives dir already failed preflight; keep status usable.
		fmt.Fprintf(out, "Volumes unavailable: %v\n\n", err)
		return nil
	}

	for _, line := range renderSectionHeader("Volumes", colorize) {
		fmt.Fprintln(out, line)
	}
	if len(volumes) == 0 {
		fmt.Fprintln(out, statusIndent+"none found")
		fmt.Fprintln(out)
		return nil
	}

	rows := make([][]string, 0, len(volumes))
	for _, volume := range volumes {
		name := filepath.Base(volume)
		size := "?"
		if info, err := os.Stat(volume); err == nil {
			size = humanize.IBytes(uint64(info.Size()))
		}
		processed, err := store.IsArchiveProcessed(cmd.Context(), name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{name, size, yesNo(processed)})
	}
	fmt.Fprintln(out, renderTable([]string{"Volume", "Size", "Processed"}, rows, 1))
	fmt.Fprintln(out)
	return nil
}

func renderJournal(cmd *cobra.Command, store *journal.Store) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	for _, line := range renderSectionHeader("Journal", colorize) {
		fmt.Fprintln(out, line)
	}
	rows := [][]string{
		{"Archives processed", strconv.Itoa(stats.Archives)},
		{"Media organized", strconv.Itoa(stats.ByOutcome[journal.OutcomeOrganized])},
		{"Media in review", strconv.Itoa(stats.ByOutcome[journal.OutcomeReview] + stats.ByOutcome[journal.OutcomePathTooLong])},
		{"Media skipped", strconv.Itoa(stats.ByOutcome[journal.OutcomeSkippedExisting])},
		{"Sidecar conflicts", strconv.Itoa(stats.Conflicts)},
		{"Review pending", strconv.Itoa(stats.ReviewPending)},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Count"}, rows, 1))
	fmt.Fprintln(out)

	runs, err := store.RecentRuns(cmd.Context(), 5)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	for _, line := range renderSectionHeader("Recent runs", colorize) {
		fmt.Fprintln(out, line)
	}
	runRows := make([][]string, 0, len(runs))
	for _, run := range runs {
		runRows = append(runRows, []string{
			run.ID[:8],
			run.Kind,
			run.Archive,
			run.StartedAt,
			strconv.Itoa(run.Counters.Organized),
			strconv.Itoa(run.Counters.Review),
			strconv.Itoa(run.Counters.Failed),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Kind", "Archive", "Started", "Organized", "Review", "Failed"},
		runRows, 4, 5, 6))
	return nil
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediamend/internal/archive"
	"mediamend/internal/config"
	"mediamend/internal/journal"
	"mediamend/internal/logging"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Consolidate a volume's sidecars and unpack its media into the workbench",
		Long: `Extract performs the first half of a process run on one volume: JSON
sidecars stream into the sidecar repository and media unpacks into the
workbench, but nothing is matched or moved into the library. Useful when
inspecting an export by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withJournal(func(cfg *config.Config, store *journal.Store) error {
				volume := filepath.Join(cfg.Paths.ArchivesDir, filepath.Base(args[0]))

				run, err := store.BeginRun(cmd.Context(), journal.RunKindExtract, filepath.Base(volume), false)
				if err != nil {
					return err
				}
				runCtx := logging.WithRunID(cmd.Context(), run.ID)

				result, err := archive.ConsolidateVolume(runCtx, volume, cfg.Paths.SidecarDir, cfg.Paths.ConflictDir, logger)
				if err != nil {
					return err
				}
				if err := archive.ExtractVolume(runCtx, volume, cfg.ExtractDir(), forceFlag); err != nil {
					return err
				}
				if err := store.FinishRun(runCtx, run.ID, journal.Counters{}); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Sidecars: %d copied, %d identical, %d conflicts\n",
					result.Copied, result.Skipped, result.Conflicts)
				fmt.Fprintf(out, "Media extracted to %s\n", cfg.ExtractDir())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Extract even when the workbench is not empty")
	return cmd
}

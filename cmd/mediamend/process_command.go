package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediamend/internal/config"
	"mediamend/internal/journal"
	"mediamend/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var archiveFlag string
	var dryRunFlag bool
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Reconcile takeout volumes into the dated library",
		Long: `Process consolidates JSON sidecars out of every unprocessed takeout
volume, builds the sidecar index, then extracts each volume and moves its
media into year/month bundle directories with resolved timestamps and GPS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withJournal(func(cfg *config.Config, store *journal.Store) error {
				pipeline, err := workflow.New(cfg, store, logger)
				if err != nil {
					return err
				}
				summary, err := pipeline.Run(cmd.Context(), workflow.Options{
					Archive: archiveFlag,
					DryRun:  dryRunFlag,
					Force:   forceFlag,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if dryRunFlag {
					fmt.Fprintf(out, "Dry run: %d volume(s) would be processed\n", summary.Volumes)
					return nil
				}
				fmt.Fprintf(out, "Processed %d volume(s): %d organized, %d review, %d skipped, %d failed\n",
					summary.Volumes,
					summary.Counters.Organized,
					summary.Counters.Review,
					summary.Counters.Skipped,
					summary.Counters.Failed)
				if summary.Conflicts > 0 {
					fmt.Fprintf(out, "%d sidecar name(s) quarantined as conflicts\n", summary.Conflicts)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&archiveFlag, "archive", "", "Process a single volume by filename")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Preview the run without moving anything")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Reprocess volumes the journal already marks done")
	return cmd
}

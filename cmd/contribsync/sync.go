package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/services"
	"github.com/alimgiray/contribsync/pkg/logger"
)

func newSyncCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one synchronization",
		Long: `Fetch contributors (and collaborators when INCLUDE_COLLABORATORS is set),
resolve identities and update the manifest if it changed. With --dry-run the
updated manifest is printed instead of committed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			target, err := a.target()
			if err != nil {
				return err
			}

			// history is optional for a one-shot sync
			var recorder services.RunRecorder
			if db, err := a.openDatabase(); err != nil {
				logger.WithError(err).Warn("Run history unavailable, sync will not be recorded")
			} else {
				defer db.Close()
				recorder = newRunService(db)
			}

			syncService, err := a.newSyncService(ctx, recorder)
			if err != nil {
				return err
			}

			opts := a.options(dryRun)
			if dryRun {
				opts.Preview = a.out
			}

			run, err := syncService.Run(ctx, target, a.cfg.Policy(), opts)
			if err != nil {
				return err
			}

			if recorder != nil {
				logger.WithField("run_id", run.ID).Debug("Run recorded")
			}

			// keep stdout for the manifest preview
			out := a.out
			if dryRun {
				out = cmd.ErrOrStderr()
			}
			printOutcome(out, run)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the updated manifest instead of committing it")

	return cmd
}

func printOutcome(out io.Writer, run *models.Run) {
	summary := fmt.Sprintf("%s/%s: %s (%d identities, %d added, %d updated)",
		run.Owner, run.Repo, run.GetOutcome(), run.IdentityCount, run.AddedCount, run.UpdatedCount)

	switch run.GetOutcome() {
	case models.RunOutcomeUpdated:
		color.New(color.FgGreen).Fprintln(out, summary)
	case models.RunOutcomeNoManifest:
		color.New(color.FgYellow).Fprintln(out, summary)
	default:
		fmt.Fprintln(out, summary)
	}
}

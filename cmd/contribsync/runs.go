package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/services"
)

func newRunsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRunsListCommand(a))
	cmd.AddCommand(newRunsExportCommand(a))

	return cmd
}

func newRunsListCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := newRunService(db).ListRuns(limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREPOSITORY\tSTATUS\tOUTCOME\tIDENTITIES\tADDED\tUPDATED\tCREATED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s/%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					run.ID, run.Owner, run.Repo, statusLabel(run), run.GetOutcome(),
					run.IdentityCount, run.AddedCount, run.UpdatedCount,
					run.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")

	return cmd
}

func newRunsExportCommand(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a run as an xlsx report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if out == "" {
				out = fmt.Sprintf("run-%s.xlsx", args[0])
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}

			if err := services.NewReportService(newRunService(db)).ExportRun(args[0], f); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Report written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default run-<id>.xlsx)")

	return cmd
}

func statusLabel(run *models.Run) string {
	switch run.Status {
	case models.RunStatusCompleted:
		return color.GreenString(string(run.Status))
	case models.RunStatusFailed:
		return color.RedString(string(run.Status))
	default:
		return string(run.Status)
	}
}

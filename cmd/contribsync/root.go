package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/alimgiray/contribsync/pkg/config"
	"github.com/alimgiray/contribsync/pkg/logger"
)

// app carries the state shared by all commands
type app struct {
	cfg      *config.Config
	out      io.Writer
	logLevel string
	repo     string
	manifest string
}

func newRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "contribsync",
		Short: "Sync package.json contributors with GitHub",
		Long: `contribsync collects contributors and collaborators of a GitHub
repository, enriches them with emails from the local commit history and
merges them into the contributors field of package.json. The manifest is
only committed when something changed.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&a.repo, "repo", "", "repository as owner/name (overrides GITHUB_REPOSITORY)")
	rootCmd.PersistentFlags().StringVar(&a.manifest, "manifest", "", "manifest path in the repository (overrides MANIFEST_PATH)")

	rootCmd.AddCommand(newSyncCommand(a))
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newRunsCommand(a))

	return rootCmd
}

// setup loads configuration and logging before any command runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.repo != "" {
		cfg.GitHub.Repository = a.repo
	}
	if a.manifest != "" {
		cfg.Sync.ManifestPath = a.manifest
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

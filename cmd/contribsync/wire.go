package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alimgiray/contribsync/internal/github"
	"github.com/alimgiray/contribsync/internal/gitlog"
	"github.com/alimgiray/contribsync/internal/repositories"
	"github.com/alimgiray/contribsync/internal/services"
	"github.com/alimgiray/contribsync/internal/sources"
	"github.com/alimgiray/contribsync/pkg/database"
)

func (a *app) target() (services.SyncTarget, error) {
	owner, repo, err := a.cfg.OwnerRepo()
	if err != nil {
		return services.SyncTarget{}, fmt.Errorf("%w (set GITHUB_REPOSITORY or --repo)", err)
	}
	return services.SyncTarget{Owner: owner, Repo: repo, ManifestPath: a.cfg.Sync.ManifestPath}, nil
}

func (a *app) options(dryRun bool) services.SyncOptions {
	return services.SyncOptions{
		DryRun:        dryRun,
		CommitMessage: a.cfg.Sync.CommitMessage,
	}
}

func (a *app) querier() gitlog.Querier {
	if a.cfg.Sync.GitBackend == "gogit" {
		return gitlog.NewRepositoryQuerier(a.cfg.Sync.RepoPath)
	}
	return gitlog.NewShortlogQuerier(a.cfg.Sync.RepoPath)
}

func (a *app) openDatabase() (*sql.DB, error) {
	db, err := database.Open(a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open run history %s: %w", a.cfg.Database.Path, err)
	}
	return db, nil
}

func newRunService(db *sql.DB) *services.RunService {
	return services.NewRunService(
		repositories.NewRunRepository(db),
		repositories.NewRunIdentityRepository(db),
	)
}

func (a *app) newSyncService(ctx context.Context, recorder services.RunRecorder) (*services.SyncService, error) {
	client, err := github.NewClient(ctx, a.cfg.GitHub.Token, a.cfg.GitHub.APIURL, a.cfg.GitHub.RequestsPerSecond)
	if err != nil {
		return nil, err
	}

	return services.NewSyncService(
		sources.NewContributionSource(client),
		sources.NewCollaboratorSource(client),
		sources.NewCommitLogSource(a.querier()),
		client,
		recorder,
	), nil
}

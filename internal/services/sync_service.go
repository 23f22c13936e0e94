package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/alimgiray/contribsync/internal/manifest"
	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/pkg/logger"
)

// DefaultCommitMessage is used when SyncOptions leaves the message empty
const DefaultCommitMessage = "chore: update contributors"

// ContributionFetcher lists contribution records with the policy applied
type ContributionFetcher interface {
	Fetch(ctx context.Context, owner, repo string, policy models.AggregationPolicy) ([]models.ContributionRecord, error)
}

// CollaboratorFetcher lists collaborator records for the policy
type CollaboratorFetcher interface {
	Fetch(ctx context.Context, owner, repo string, policy models.AggregationPolicy) ([]models.CollaboratorRecord, error)
}

// CommitLogFetcher summarizes local commit authors. It never fails; an
// unavailable history is an empty result.
type CommitLogFetcher interface {
	Fetch(ctx context.Context) []models.LogRecord
}

// ManifestStore reads and writes the manifest in the repository
type ManifestStore interface {
	ReadManifest(ctx context.Context, owner, repo, path string) (*manifest.File, error)
	WriteManifest(ctx context.Context, owner, repo, path string, content []byte, sha, message string) error
}

// RunRecorder persists the audit trail of runs
type RunRecorder interface {
	CreateRun(run *models.Run) error
	SaveRun(run *models.Run) error
}

// SyncTarget identifies the manifest to synchronize
type SyncTarget struct {
	Owner        string
	Repo         string
	ManifestPath string
}

func (t SyncTarget) String() string {
	return t.Owner + "/" + t.Repo
}

// SyncOptions tunes a single run
type SyncOptions struct {
	DryRun        bool
	CommitMessage string
	// Preview receives the rendered manifest when a dry run finds changes
	Preview io.Writer
}

// SyncService runs one synchronization end to end: fetch, aggregate,
// reconcile and write the manifest when it changed
type SyncService struct {
	contributions ContributionFetcher
	collaborators CollaboratorFetcher
	commitLog     CommitLogFetcher
	store         ManifestStore
	recorder      RunRecorder
	aggregator    *AggregatorService
	reconciler    *ReconcilerService

	// one run at a time, whoever triggers it
	mu sync.Mutex
}

// NewSyncService creates a new sync service. commitLog and recorder may be nil.
func NewSyncService(contributions ContributionFetcher, collaborators CollaboratorFetcher, commitLog CommitLogFetcher, store ManifestStore, recorder RunRecorder) *SyncService {
	return &SyncService{
		contributions: contributions,
		collaborators: collaborators,
		commitLog:     commitLog,
		store:         store,
		recorder:      recorder,
		aggregator:    NewAggregatorService(),
		reconciler:    NewReconcilerService(),
	}
}

// Run executes a synchronization and returns its record. A returned error
// means the run failed; the record is returned in that case too.
func (s *SyncService) Run(ctx context.Context, target SyncTarget, policy models.AggregationPolicy, opts SyncOptions) (*models.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := models.NewRun(target.Owner, target.Repo, target.ManifestPath)
	run.DryRun = opts.DryRun
	s.record(run, true)

	log := logger.WithFields(logrus.Fields{
		"run_id": run.ID,
		"owner":  target.Owner,
		"repo":   target.Repo,
	})

	run.MarkStarted()
	s.record(run, false)
	log.Info("Sync run started")

	outcome, err := s.execute(ctx, log, run, target, policy, opts)
	if err != nil {
		run.MarkFailed(err)
		s.record(run, false)
		log.WithError(err).Error("Sync run failed")
		return run, err
	}

	run.MarkCompleted(outcome)
	s.record(run, false)
	log.WithFields(logrus.Fields{
		"outcome": outcome,
		"added":   run.AddedCount,
		"updated": run.UpdatedCount,
	}).Info("Sync run completed")

	return run, nil
}

func (s *SyncService) execute(ctx context.Context, log *logrus.Entry, run *models.Run, target SyncTarget, policy models.AggregationPolicy, opts SyncOptions) (models.RunOutcome, error) {
	contributions, err := s.contributions.Fetch(ctx, target.Owner, target.Repo, policy)
	if err != nil {
		return "", err
	}

	collaborators, err := s.collaborators.Fetch(ctx, target.Owner, target.Repo, policy)
	if err != nil {
		return "", err
	}

	var logs []models.LogRecord
	if s.commitLog != nil {
		logs = s.commitLog.Fetch(ctx)
	}

	identities := s.aggregator.Aggregate(contributions, collaborators, logs, policy)
	run.SetIdentities(identities, nil, nil)

	log.WithField("count", len(identities)).Info("Identities resolved")
	for _, identity := range identities {
		log.WithFields(logrus.Fields{
			"email": identity.Email,
			"url":   identity.URL,
		}).Info(identity.Name)
	}

	file, err := s.store.ReadManifest(ctx, target.Owner, target.Repo, target.ManifestPath)
	if err != nil {
		// any read failure counts as a missing manifest
		log.WithError(err).Warn("Manifest not available, nothing to update")
		return models.RunOutcomeNoManifest, nil
	}

	doc, err := manifest.Parse(file.Content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", target.ManifestPath, err)
	}

	contributors, err := doc.Contributors()
	if err != nil {
		return "", err
	}

	result := s.reconciler.Reconcile(identities, contributors)
	run.SetIdentities(identities, result.Added, result.Updated)

	if !result.Changed {
		log.Info("Contributors are up to date")
		return models.RunOutcomeUnchanged, nil
	}

	if err := doc.SetContributors(result.Contributors); err != nil {
		return "", fmt.Errorf("render contributors: %w", err)
	}
	content, err := doc.Marshal()
	if err != nil {
		return "", fmt.Errorf("render manifest: %w", err)
	}

	if opts.DryRun {
		log.Info("Dry run, manifest not written")
		if opts.Preview != nil {
			if _, err := opts.Preview.Write(content); err != nil {
				return "", fmt.Errorf("write preview: %w", err)
			}
		}
		return models.RunOutcomeDryRun, nil
	}

	message := opts.CommitMessage
	if message == "" {
		message = DefaultCommitMessage
	}

	if err := s.store.WriteManifest(ctx, target.Owner, target.Repo, target.ManifestPath, content, file.SHA, message); err != nil {
		return "", fmt.Errorf("write manifest %s: %w", target.ManifestPath, err)
	}

	return models.RunOutcomeUpdated, nil
}

// record persists run state. History is an audit trail, so a failure is
// logged and the run carries on.
func (s *SyncService) record(run *models.Run, create bool) {
	if s.recorder == nil {
		return
	}

	var err error
	if create {
		err = s.recorder.CreateRun(run)
	} else {
		err = s.recorder.SaveRun(run)
	}
	if err != nil {
		logger.WithError(err).WithField("run_id", run.ID).Warn("Failed to record run")
	}
}

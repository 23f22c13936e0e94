package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/repositories"
)

// ErrRunNotFound is returned when a run ID is unknown
var ErrRunNotFound = errors.New("run not found")

// RunService records sync runs and their resolved identities
type RunService struct {
	runRepo         *repositories.RunRepository
	runIdentityRepo *repositories.RunIdentityRepository
}

// NewRunService creates a new run service
func NewRunService(runRepo *repositories.RunRepository, runIdentityRepo *repositories.RunIdentityRepository) *RunService {
	return &RunService{
		runRepo:         runRepo,
		runIdentityRepo: runIdentityRepo,
	}
}

// CreateRun stores a new run
func (s *RunService) CreateRun(run *models.Run) error {
	if err := s.runRepo.Create(run); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// SaveRun stores the run's state and, when present, its identities
func (s *RunService) SaveRun(run *models.Run) error {
	if err := s.runRepo.Update(run); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if run.Identities != nil {
		if err := s.runIdentityRepo.ReplaceForRun(run.ID, run.Identities); err != nil {
			return fmt.Errorf("failed to save run identities: %w", err)
		}
	}
	return nil
}

// GetRun returns a run with its identities
func (s *RunService) GetRun(id string) (*models.Run, error) {
	return s.withIdentities(s.runRepo.GetByID(id))
}

// LatestRun returns the newest run recorded for owner/repo
func (s *RunService) LatestRun(owner, repo string) (*models.Run, error) {
	return s.withIdentities(s.runRepo.GetLatestByRepository(owner, repo))
}

func (s *RunService) withIdentities(run *models.Run, err error) (*models.Run, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	identities, err := s.runIdentityRepo.GetByRunID(run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run identities: %w", err)
	}
	run.Identities = identities

	return run, nil
}

// ListRuns returns the most recent runs without identities
func (s *RunService) ListRuns(limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	runs, err := s.runRepo.GetRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// PruneRuns deletes runs older than retention
func (s *RunService) PruneRuns(retention time.Duration) (int64, error) {
	deleted, err := s.runRepo.DeleteOlderThan(time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return deleted, nil
}

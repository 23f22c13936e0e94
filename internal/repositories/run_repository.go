package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/alimgiray/contribsync/internal/models"
)

const runColumns = `id, owner, repo, manifest_path, status, outcome, dry_run, identity_count, added_count, updated_count, error_message, started_at, completed_at, created_at, updated_at`

// RunRepository handles database operations for sync runs
type RunRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create creates a new run
func (r *RunRepository) Create(run *models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID,
		run.Owner,
		run.Repo,
		run.ManifestPath,
		run.Status,
		run.Outcome,
		run.DryRun,
		run.IdentityCount,
		run.AddedCount,
		run.UpdatedCount,
		run.ErrorMessage,
		run.StartedAt,
		run.CompletedAt,
		run.CreatedAt,
		run.UpdatedAt,
	)
	return err
}

// GetByID retrieves a run by ID
func (r *RunRepository) GetByID(id string) (*models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetRecent retrieves the most recent runs, newest first
func (r *RunRepository) GetRecent(limit int) ([]*models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT ` + runColumns + `
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetLatestByRepository retrieves the newest run for a repository
func (r *RunRepository) GetLatestByRepository(owner, repo string) (*models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT ` + runColumns + `
		FROM runs
		WHERE owner = ? AND repo = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	run, err := scanRun(r.db.QueryRow(query, owner, repo))
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Update updates a run's state and counters
func (r *RunRepository) Update(run *models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.UpdatedAt = time.Now()

	query := `
		UPDATE runs
		SET status = ?, outcome = ?, dry_run = ?, identity_count = ?, added_count = ?, updated_count = ?,
			error_message = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		run.Status,
		run.Outcome,
		run.DryRun,
		run.IdentityCount,
		run.AddedCount,
		run.UpdatedCount,
		run.ErrorMessage,
		run.StartedAt,
		run.CompletedAt,
		run.UpdatedAt,
		run.ID,
	)
	return err
}

// DeleteOlderThan removes runs created before cutoff, with their identities
func (r *RunRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	run := &models.Run{}
	err := row.Scan(
		&run.ID,
		&run.Owner,
		&run.Repo,
		&run.ManifestPath,
		&run.Status,
		&run.Outcome,
		&run.DryRun,
		&run.IdentityCount,
		&run.AddedCount,
		&run.UpdatedCount,
		&run.ErrorMessage,
		&run.StartedAt,
		&run.CompletedAt,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

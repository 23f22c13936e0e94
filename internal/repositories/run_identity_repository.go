package repositories

import (
	"database/sql"
	"sync"

	"github.com/alimgiray/contribsync/internal/models"
)

// RunIdentityRepository handles database operations for the identities of a run
type RunIdentityRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewRunIdentityRepository creates a new RunIdentityRepository
func NewRunIdentityRepository(db *sql.DB) *RunIdentityRepository {
	return &RunIdentityRepository{db: db}
}

// ReplaceForRun stores identities as the complete list for runID
func (r *RunIdentityRepository) ReplaceForRun(runID string, identities []*models.RunIdentity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_identities WHERE run_id = ?`, runID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_identities (run_id, position, name, email, url, change)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, identity := range identities {
		if _, err := stmt.Exec(runID, identity.Position, identity.Name, identity.Email, identity.URL, identity.Change); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByRunID retrieves the identities of a run in position order
func (r *RunIdentityRepository) GetByRunID(runID string) ([]*models.RunIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT run_id, position, name, email, url, change
		FROM run_identities
		WHERE run_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []*models.RunIdentity
	for rows.Next() {
		identity := &models.RunIdentity{}
		err := rows.Scan(
			&identity.RunID,
			&identity.Position,
			&identity.Name,
			&identity.Email,
			&identity.URL,
			&identity.Change,
		)
		if err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}

	return identities, rows.Err()
}

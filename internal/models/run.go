package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the status of a sync run
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in-progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// RunOutcome describes what a completed run did to the manifest
type RunOutcome string

const (
	RunOutcomeUpdated    RunOutcome = "updated"
	RunOutcomeUnchanged  RunOutcome = "unchanged"
	RunOutcomeNoManifest RunOutcome = "no_manifest"
	RunOutcomeDryRun     RunOutcome = "dry_run"
)

// Run is the audit record of one synchronization
type Run struct {
	ID            string     `json:"id"`
	Owner         string     `json:"owner"`
	Repo          string     `json:"repo"`
	ManifestPath  string     `json:"manifest_path"`
	Status        RunStatus  `json:"status"`
	Outcome       *string    `json:"outcome"`
	DryRun        bool       `json:"dry_run"`
	IdentityCount int        `json:"identity_count"`
	AddedCount    int        `json:"added_count"`
	UpdatedCount  int        `json:"updated_count"`
	ErrorMessage  *string    `json:"error_message"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Identities []*RunIdentity `json:"identities,omitempty"`
}

// IdentityChange records what reconciliation did with an identity
type IdentityChange string

const (
	IdentityChangeNone    IdentityChange = ""
	IdentityChangeAdded   IdentityChange = "added"
	IdentityChangeUpdated IdentityChange = "updated"
)

// RunIdentity is an identity resolved during a run, in output order
type RunIdentity struct {
	RunID    string         `json:"run_id"`
	Position int            `json:"position"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	URL      string         `json:"url"`
	Change   IdentityChange `json:"change"`
}

// NewRun creates a new pending Run with a generated UUID
func NewRun(owner, repo, manifestPath string) *Run {
	now := time.Now()
	return &Run{
		ID:           uuid.New().String(),
		Owner:        owner,
		Repo:         repo,
		ManifestPath: manifestPath,
		Status:       RunStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsCompleted checks if the run is completed
func (r *Run) IsCompleted() bool {
	return r.Status == RunStatusCompleted
}

// IsFailed checks if the run failed
func (r *Run) IsFailed() bool {
	return r.Status == RunStatusFailed
}

// MarkStarted marks the run as started
func (r *Run) MarkStarted() {
	now := time.Now()
	r.Status = RunStatusInProgress
	r.StartedAt = &now
}

// MarkCompleted marks the run as completed with the given outcome
func (r *Run) MarkCompleted(outcome RunOutcome) {
	now := time.Now()
	value := string(outcome)
	r.Status = RunStatusCompleted
	r.Outcome = &value
	r.CompletedAt = &now
}

// MarkFailed marks the run as failed
func (r *Run) MarkFailed(err error) {
	now := time.Now()
	message := err.Error()
	r.Status = RunStatusFailed
	r.ErrorMessage = &message
	r.CompletedAt = &now
}

// GetOutcome returns the outcome or an empty string while the run is open
func (r *Run) GetOutcome() RunOutcome {
	if r.Outcome == nil {
		return ""
	}
	return RunOutcome(*r.Outcome)
}

// SetIdentities replaces the run's identity list, tagging changes by name
func (r *Run) SetIdentities(identities []Identity, added, updated []string) {
	changes := make(map[string]IdentityChange, len(added)+len(updated))
	for _, name := range added {
		changes[name] = IdentityChangeAdded
	}
	for _, name := range updated {
		changes[name] = IdentityChangeUpdated
	}

	r.Identities = make([]*RunIdentity, 0, len(identities))
	for i, identity := range identities {
		r.Identities = append(r.Identities, &RunIdentity{
			RunID:    r.ID,
			Position: i,
			Name:     identity.Name,
			Email:    identity.Email,
			URL:      identity.URL,
			Change:   changes[identity.Name],
		})
	}
	r.IdentityCount = len(identities)
	r.AddedCount = len(added)
	r.UpdatedCount = len(updated)
}

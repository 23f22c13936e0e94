package sources

import (
	"context"
	"fmt"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/pagination"
	"github.com/alimgiray/contribsync/pkg/logger"
)

// CollaboratorSource lists people with explicit access to the repository
type CollaboratorSource struct {
	lister CollaboratorLister
}

func NewCollaboratorSource(lister CollaboratorLister) *CollaboratorSource {
	return &CollaboratorSource{lister: lister}
}

// Fetch drains the collaborator listing for the policy's affiliation. It makes
// no requests when the policy leaves collaborators out.
func (s *CollaboratorSource) Fetch(ctx context.Context, owner, repo string, policy models.AggregationPolicy) ([]models.CollaboratorRecord, error) {
	if !policy.IncludeCollaborators {
		return nil, nil
	}

	records, err := pagination.Drain(ctx, func(ctx context.Context, page int) (*pagination.Page[models.CollaboratorRecord], error) {
		return s.lister.ListCollaboratorsPage(ctx, owner, repo, policy.Affiliation, page)
	})
	if err != nil {
		return nil, fmt.Errorf("list collaborators of %s/%s: %w", owner, repo, err)
	}

	logger.WithField("count", len(records)).Debugf("Collaborators fetched for %s/%s", owner, repo)
	return records, nil
}

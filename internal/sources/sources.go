// Package sources adapts the platform listings and local history into the
// raw records the aggregator consumes.
package sources

import (
	"context"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/pagination"
)

// ContributorLister fetches one page of a repository's contributor listing
type ContributorLister interface {
	ListContributorsPage(ctx context.Context, owner, repo string, page int) (*pagination.Page[models.ContributionRecord], error)
}

// CollaboratorLister fetches one page of a repository's collaborator listing
type CollaboratorLister interface {
	ListCollaboratorsPage(ctx context.Context, owner, repo string, affiliation models.Affiliation, page int) (*pagination.Page[models.CollaboratorRecord], error)
}

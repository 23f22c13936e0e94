package sources

import (
	"context"
	"fmt"
	"sort"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/pagination"
	"github.com/alimgiray/contribsync/pkg/logger"
)

// ContributionSource lists everyone the platform counts as a contributor
type ContributionSource struct {
	lister ContributorLister
}

func NewContributionSource(lister ContributorLister) *ContributionSource {
	return &ContributionSource{lister: lister}
}

// Fetch drains the contributor listing, then applies the policy's bot
// filter, activity sort and size cap
func (s *ContributionSource) Fetch(ctx context.Context, owner, repo string, policy models.AggregationPolicy) ([]models.ContributionRecord, error) {
	records, err := pagination.Drain(ctx, func(ctx context.Context, page int) (*pagination.Page[models.ContributionRecord], error) {
		return s.lister.ListContributorsPage(ctx, owner, repo, page)
	})
	if err != nil {
		return nil, fmt.Errorf("list contributors of %s/%s: %w", owner, repo, err)
	}

	logger.WithField("count", len(records)).Debugf("Contributors fetched for %s/%s", owner, repo)

	return ApplyContributionPolicy(records, policy), nil
}

// ApplyContributionPolicy filters, sorts and caps contribution records. The
// sort is stable so equal counts keep the platform's order.
func ApplyContributionPolicy(records []models.ContributionRecord, policy models.AggregationPolicy) []models.ContributionRecord {
	result := make([]models.ContributionRecord, 0, len(records))
	for _, record := range records {
		if record.IsBot() && !policy.IncludeBots {
			continue
		}
		result = append(result, record)
	}

	if policy.SortByActivity {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Contributions > result[j].Contributions
		})
	}

	if policy.MaxContributors > 0 && len(result) > policy.MaxContributors {
		result = result[:policy.MaxContributors]
	}

	return result
}

package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/pagination"
)

const twoPageLinks = `<https://api.github.com/x?page=2>; rel="next", <https://api.github.com/x?page=2>; rel="last"`

type fakeLister struct {
	contributors  map[int][]models.ContributionRecord
	collaborators map[int][]models.CollaboratorRecord
	links         string
	err           error

	contributorCalls  []int
	collaboratorCalls []int
	affiliations      []models.Affiliation
}

func (f *fakeLister) ListContributorsPage(_ context.Context, owner, repo string, page int) (*pagination.Page[models.ContributionRecord], error) {
	f.contributorCalls = append(f.contributorCalls, page)
	if f.err != nil {
		return nil, f.err
	}
	return &pagination.Page[models.ContributionRecord]{Items: f.contributors[page], Links: f.links}, nil
}

func (f *fakeLister) ListCollaboratorsPage(_ context.Context, owner, repo string, affiliation models.Affiliation, page int) (*pagination.Page[models.CollaboratorRecord], error) {
	f.collaboratorCalls = append(f.collaboratorCalls, page)
	f.affiliations = append(f.affiliations, affiliation)
	if f.err != nil {
		return nil, f.err
	}
	return &pagination.Page[models.CollaboratorRecord]{Items: f.collaborators[page], Links: f.links}, nil
}

type fakeQuerier struct {
	records []models.LogRecord
	err     error
}

func (q *fakeQuerier) QueryCommitAuthors(context.Context) ([]models.LogRecord, error) {
	return q.records, q.err
}

func TestContributionSourceFetch(t *testing.T) {
	lister := &fakeLister{
		links: twoPageLinks,
		contributors: map[int][]models.ContributionRecord{
			0: {{Login: "alice", Contributions: 10, Type: "User"}, {Login: "bot1", Contributions: 50, Type: "Bot"}},
			2: {{Login: "bob", Contributions: 30, Type: "User"}},
		},
	}

	records, err := NewContributionSource(lister).Fetch(context.Background(), "octo", "widgets", models.AggregationPolicy{})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, lister.contributorCalls)
	assert.Equal(t, []models.ContributionRecord{
		{Login: "alice", Contributions: 10, Type: "User"},
		{Login: "bob", Contributions: 30, Type: "User"},
	}, records)
}

func TestContributionSourceFetchError(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection reset")}

	records, err := NewContributionSource(lister).Fetch(context.Background(), "octo", "widgets", models.AggregationPolicy{})
	assert.Nil(t, records)
	assert.EqualError(t, err, "list contributors of octo/widgets: connection reset")
}

func TestApplyContributionPolicy(t *testing.T) {
	records := []models.ContributionRecord{
		{Login: "alice", Contributions: 10, Type: "User"},
		{Login: "bot1", Contributions: 50, Type: "Bot"},
		{Login: "bob", Contributions: 30, Type: "User"},
		{Login: "carol", Contributions: 10, Type: "User"},
	}

	logins := func(rs []models.ContributionRecord) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Login)
		}
		return out
	}

	testCases := []struct {
		name     string
		policy   models.AggregationPolicy
		expected []string
	}{
		{name: "defaults drop bots and keep order", policy: models.AggregationPolicy{}, expected: []string{"alice", "bob", "carol"}},
		{name: "include bots", policy: models.AggregationPolicy{IncludeBots: true}, expected: []string{"alice", "bot1", "bob", "carol"}},
		{name: "sort is stable", policy: models.AggregationPolicy{SortByActivity: true}, expected: []string{"bob", "alice", "carol"}},
		{name: "sort with bots", policy: models.AggregationPolicy{SortByActivity: true, IncludeBots: true}, expected: []string{"bot1", "bob", "alice", "carol"}},
		{name: "cap after sort", policy: models.AggregationPolicy{SortByActivity: true, MaxContributors: 2}, expected: []string{"bob", "alice"}},
		{name: "cap larger than list", policy: models.AggregationPolicy{MaxContributors: 10}, expected: []string{"alice", "bob", "carol"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, logins(ApplyContributionPolicy(records, tc.policy)))
		})
	}

	assert.Equal(t, "alice", records[0].Login, "input must not be reordered")
}

func TestCollaboratorSourceFetch(t *testing.T) {
	lister := &fakeLister{
		links: twoPageLinks,
		collaborators: map[int][]models.CollaboratorRecord{
			0: {{Login: "carol"}},
			2: {{Login: "dave", Email: "dave@example.com"}},
		},
	}
	policy := models.AggregationPolicy{IncludeCollaborators: true, Affiliation: models.AffiliationOutside}

	records, err := NewCollaboratorSource(lister).Fetch(context.Background(), "octo", "widgets", policy)
	require.NoError(t, err)

	assert.Equal(t, []models.CollaboratorRecord{{Login: "carol"}, {Login: "dave", Email: "dave@example.com"}}, records)
	assert.Equal(t, []models.Affiliation{models.AffiliationOutside, models.AffiliationOutside}, lister.affiliations)
}

func TestCollaboratorSourceSkippedByPolicy(t *testing.T) {
	lister := &fakeLister{}

	records, err := NewCollaboratorSource(lister).Fetch(context.Background(), "octo", "widgets", models.AggregationPolicy{})
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.Empty(t, lister.collaboratorCalls)
}

func TestCollaboratorSourceFetchError(t *testing.T) {
	lister := &fakeLister{err: errors.New("forbidden")}
	policy := models.AggregationPolicy{IncludeCollaborators: true, Affiliation: models.AffiliationAll}

	_, err := NewCollaboratorSource(lister).Fetch(context.Background(), "octo", "widgets", policy)
	assert.EqualError(t, err, "list collaborators of octo/widgets: forbidden")
}

func TestCommitLogSource(t *testing.T) {
	t.Run("returns records", func(t *testing.T) {
		q := &fakeQuerier{records: []models.LogRecord{{Name: "alice", Email: "a@x.com", Commits: 3}}}
		assert.Equal(t, q.records, NewCommitLogSource(q).Fetch(context.Background()))
	})

	t.Run("failure degrades to empty", func(t *testing.T) {
		q := &fakeQuerier{err: errors.New("not a git repository")}
		assert.Empty(t, NewCommitLogSource(q).Fetch(context.Background()))
	})

	t.Run("nil querier", func(t *testing.T) {
		assert.Empty(t, NewCommitLogSource(nil).Fetch(context.Background()))
	})
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/sources"
)

func excluded(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func TestAggregate(t *testing.T) {
	aggregator := NewAggregatorService()

	testCases := []struct {
		name          string
		contributions []models.ContributionRecord
		collaborators []models.CollaboratorRecord
		logs          []models.LogRecord
		policy        models.AggregationPolicy
		expected      []models.Identity
	}{
		{
			name: "login is the name and profile link the url",
			contributions: []models.ContributionRecord{
				{Login: "alice", HTMLURL: "https://github.com/alice", Contributions: 3},
			},
			expected: []models.Identity{{Name: "alice", URL: "https://github.com/alice"}},
		},
		{
			name: "platform email wins over the commit log",
			contributions: []models.ContributionRecord{
				{Login: "alice", Email: "alice@platform.dev"},
				{Login: "bob"},
			},
			logs: []models.LogRecord{
				{Name: "alice", Email: "alice@log.dev"},
				{Name: "bob", Email: "bob@old.dev"},
				{Name: "bob", Email: "bob@log.dev"},
			},
			expected: []models.Identity{
				{Name: "alice", Email: "alice@platform.dev"},
				{Name: "bob", Email: "bob@log.dev"},
			},
		},
		{
			name: "commit log never adds identities",
			logs: []models.LogRecord{{Name: "carol", Email: "carol@log.dev"}},
		},
		{
			name: "first occurrence wins",
			contributions: []models.ContributionRecord{
				{Login: "alice", Email: "first@x.com"},
				{Login: "alice", Email: "second@x.com"},
			},
			collaborators: []models.CollaboratorRecord{{Login: "alice", Email: "third@x.com"}},
			policy:        models.AggregationPolicy{IncludeCollaborators: true},
			expected:      []models.Identity{{Name: "alice", Email: "first@x.com"}},
		},
		{
			name:          "empty logins are skipped",
			contributions: []models.ContributionRecord{{Login: ""}, {Login: "alice"}},
			expected:      []models.Identity{{Name: "alice"}},
		},
		{
			name:          "exclusions apply to every source",
			contributions: []models.ContributionRecord{{Login: "alice"}, {Login: "dependabot"}},
			collaborators: []models.CollaboratorRecord{{Login: "dependabot"}, {Login: "dave"}},
			policy: models.AggregationPolicy{
				IncludeCollaborators: true,
				ExcludedNames:        excluded("dependabot", "dave"),
			},
			expected: []models.Identity{{Name: "alice"}},
		},
		{
			name:          "collaborators follow contributors",
			contributions: []models.ContributionRecord{{Login: "alice"}},
			collaborators: []models.CollaboratorRecord{{Login: "dave", HTMLURL: "https://github.com/dave"}},
			logs:          []models.LogRecord{{Name: "dave", Email: "dave@log.dev"}},
			policy:        models.AggregationPolicy{IncludeCollaborators: true},
			expected: []models.Identity{
				{Name: "alice"},
				{Name: "dave", Email: "dave@log.dev", URL: "https://github.com/dave"},
			},
		},
		{
			name:          "collaborators ignored unless included",
			contributions: []models.ContributionRecord{{Login: "alice"}},
			collaborators: []models.CollaboratorRecord{{Login: "dave"}},
			expected:      []models.Identity{{Name: "alice"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			identities := aggregator.Aggregate(tc.contributions, tc.collaborators, tc.logs, tc.policy)
			assert.Equal(t, tc.expected, identities)
		})
	}
}

func TestAggregateActivitySortDecidesDuplicate(t *testing.T) {
	records := []models.ContributionRecord{
		{Login: "alice", Email: "old@x.com", HTMLURL: "https://old.example/alice", Contributions: 2},
		{Login: "bob", Contributions: 5},
		{Login: "alice", Email: "new@x.com", HTMLURL: "https://github.com/alice", Contributions: 40},
	}
	aggregator := NewAggregatorService()

	unsorted := models.AggregationPolicy{}
	identities := aggregator.Aggregate(sources.ApplyContributionPolicy(records, unsorted), nil, nil, unsorted)
	assert.Equal(t, []models.Identity{
		{Name: "alice", Email: "old@x.com", URL: "https://old.example/alice"},
		{Name: "bob"},
	}, identities)

	sorted := models.AggregationPolicy{SortByActivity: true}
	identities = aggregator.Aggregate(sources.ApplyContributionPolicy(records, sorted), nil, nil, sorted)
	assert.Equal(t, []models.Identity{
		{Name: "alice", Email: "new@x.com", URL: "https://github.com/alice"},
		{Name: "bob"},
	}, identities)
}

func TestAggregateBotsExcludedByDefault(t *testing.T) {
	policy := models.AggregationPolicy{IncludeBots: false, IncludeCollaborators: false}
	records := sources.ApplyContributionPolicy([]models.ContributionRecord{
		{Login: "alice", Type: "User", Contributions: 10},
		{Login: "bot1", Type: "Bot", Contributions: 50},
	}, policy)

	identities := NewAggregatorService().Aggregate(records, nil, nil, policy)
	assert.Equal(t, []models.Identity{{Name: "alice", Email: "", URL: ""}}, identities)
}

func TestAggregateNamesAreUnique(t *testing.T) {
	identities := NewAggregatorService().Aggregate(
		[]models.ContributionRecord{{Login: "a"}, {Login: "b"}, {Login: "a"}, {Login: "c"}, {Login: "b"}},
		[]models.CollaboratorRecord{{Login: "c"}, {Login: "d"}},
		nil,
		models.AggregationPolicy{IncludeCollaborators: true},
	)

	var names []string
	for _, identity := range identities {
		names = append(names, identity.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

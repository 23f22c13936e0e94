package services

import (
	"github.com/alimgiray/contribsync/internal/models"
)

// AggregatorService merges the source listings into one deduplicated,
// ordered list of identities
type AggregatorService struct{}

// NewAggregatorService creates a new aggregator service
func NewAggregatorService() *AggregatorService {
	return &AggregatorService{}
}

// Aggregate resolves identities from contribution records, then collaborator
// records when the policy includes them. The login is the identity name and
// the first occurrence of a name wins. Email comes from the platform record,
// falling back to the commit log entry with the same name.
func (s *AggregatorService) Aggregate(contributions []models.ContributionRecord, collaborators []models.CollaboratorRecord, logs []models.LogRecord, policy models.AggregationPolicy) []models.Identity {
	emails := make(map[string]string, len(logs))
	for _, record := range logs {
		if record.Name == "" {
			continue
		}
		emails[record.Name] = record.Email
	}

	seen := make(map[string]struct{})
	var identities []models.Identity

	add := func(login, email, url string) {
		if login == "" || policy.IsExcluded(login) {
			return
		}
		if _, ok := seen[login]; ok {
			return
		}
		if email == "" {
			email = emails[login]
		}
		seen[login] = struct{}{}
		identities = append(identities, models.Identity{Name: login, Email: email, URL: url})
	}

	for _, record := range contributions {
		add(record.Login, record.Email, record.HTMLURL)
	}

	if policy.IncludeCollaborators {
		for _, record := range collaborators {
			add(record.Login, record.Email, record.HTMLURL)
		}
	}

	return identities
}

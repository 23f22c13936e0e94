package models

// Affiliation scopes the collaborator listing
type Affiliation string

const (
	AffiliationAll     Affiliation = "all"
	AffiliationDirect  Affiliation = "direct"
	AffiliationOutside Affiliation = "outside"
)

// Valid reports whether a is one of the affiliations the platform accepts
func (a Affiliation) Valid() bool {
	switch a {
	case AffiliationAll, AffiliationDirect, AffiliationOutside:
		return true
	}
	return false
}

// AggregationPolicy controls which records become identities and in which order
type AggregationPolicy struct {
	SortByActivity       bool                `json:"sort_by_activity"`
	IncludeBots          bool                `json:"include_bots"`
	IncludeCollaborators bool                `json:"include_collaborators"`
	Affiliation          Affiliation         `json:"affiliation"`
	ExcludedNames        map[string]struct{} `json:"-"`
	MaxContributors      int                 `json:"max_contributors"` // 0 means unlimited
}

// IsExcluded reports whether name is on the exclusion list
func (p AggregationPolicy) IsExcluded(name string) bool {
	_, ok := p.ExcludedNames[name]
	return ok
}

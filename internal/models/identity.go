package models

// Identity is a deduplicated contributor, keyed by Name
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	URL   string `json:"url"`
}

// ContributionRecord is one entry of the platform contributor listing
type ContributionRecord struct {
	Login         string `json:"login"`
	Email         string `json:"email"`
	HTMLURL       string `json:"html_url"`
	Contributions int    `json:"contributions"`
	Type          string `json:"type"` // "User", "Bot", "Anonymous"
}

// IsBot reports whether the platform marked the account as a bot
func (r ContributionRecord) IsBot() bool {
	return r.Type == "Bot"
}

// CollaboratorRecord is one entry of the platform collaborator listing
type CollaboratorRecord struct {
	Login   string `json:"login"`
	Email   string `json:"email"`
	HTMLURL string `json:"html_url"`
}

// LogRecord is a commit author summary from local version control history.
// It is only used to look up an email by name.
type LogRecord struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Commits int    `json:"commits"`
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Sync     SyncConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port                string
	APIToken            string
	SyncIntervalMinutes int
	RunRetentionDays    int
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	Token             string
	Repository        string
	APIURL            string
	RequestsPerSecond float64
}

type SyncConfig struct {
	ManifestPath         string
	CommitMessage        string
	Sort                 bool
	IncludeBots          bool
	IncludeCollaborators bool
	Affiliation          string
	ExcludeUsers         []string
	Count                int
	RepoPath             string
	GitBackend           string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from .env file and environment variables.
// Every key is also looked up with the INPUT_ prefix GitHub Actions uses for
// action inputs.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:                getEnv("PORT", "8080"),
			APIToken:            getEnv("API_TOKEN", ""),
			SyncIntervalMinutes: getEnvAsInt("SYNC_INTERVAL_MINUTES", 0),
			RunRetentionDays:    getEnvAsInt("RUN_RETENTION_DAYS", 0),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", defaultDatabasePath()),
		},
		GitHub: GitHubConfig{
			Token:             getEnv("GITHUB_TOKEN", ""),
			Repository:        getEnv("GITHUB_REPOSITORY", ""),
			APIURL:            getEnv("GITHUB_API_URL", ""),
			RequestsPerSecond: getEnvAsFloat("GITHUB_REQUESTS_PER_SECOND", 10),
		},
		Sync: SyncConfig{
			ManifestPath:         getEnv("MANIFEST_PATH", "package.json"),
			CommitMessage:        getEnv("COMMIT_MESSAGE", "chore: update contributors"),
			Sort:                 getEnvAsBool("SORT", false),
			IncludeBots:          getEnvAsBool("INCLUDE_BOTS", false),
			IncludeCollaborators: getEnvAsBool("INCLUDE_COLLABORATORS", false),
			Affiliation:          getEnv("AFFILIATION", string(models.AffiliationDirect)),
			ExcludeUsers:         strings.Fields(getEnv("EXCLUDE_USERS", "")),
			Count:                getEnvAsInt("COUNT", 0),
			RepoPath:             getEnv("REPOSITORY_PATH", "."),
			GitBackend:           getEnv("GIT_BACKEND", "exec"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks the settings every command depends on
func (c *Config) Validate() error {
	if !models.Affiliation(c.Sync.Affiliation).Valid() {
		return fmt.Errorf("invalid affiliation %q: expected all, direct or outside", c.Sync.Affiliation)
	}
	if c.Sync.Count < 0 {
		return fmt.Errorf("invalid count %d: must not be negative", c.Sync.Count)
	}
	if c.Server.SyncIntervalMinutes < 0 || c.Server.RunRetentionDays < 0 {
		return fmt.Errorf("sync interval and run retention must not be negative")
	}
	switch c.Sync.GitBackend {
	case "exec", "gogit":
	default:
		return fmt.Errorf("invalid git backend %q: expected exec or gogit", c.Sync.GitBackend)
	}
	return nil
}

// OwnerRepo splits GITHUB_REPOSITORY ("owner/name")
func (c *Config) OwnerRepo() (string, string, error) {
	return SplitRepository(c.GitHub.Repository)
}

// SplitRepository parses an "owner/name" repository reference
func SplitRepository(full string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(full), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", full)
	}
	return owner, repo, nil
}

// Policy builds the aggregation policy for a run. It is computed once and
// passed by value, nothing downstream reads the environment again.
func (c *Config) Policy() models.AggregationPolicy {
	excluded := make(map[string]struct{}, len(c.Sync.ExcludeUsers))
	for _, name := range c.Sync.ExcludeUsers {
		excluded[name] = struct{}{}
	}

	return models.AggregationPolicy{
		SortByActivity:       c.Sync.Sort,
		IncludeBots:          c.Sync.IncludeBots,
		IncludeCollaborators: c.Sync.IncludeCollaborators,
		Affiliation:          models.Affiliation(c.Sync.Affiliation),
		ExcludedNames:        excluded,
		MaxContributors:      c.Sync.Count,
	}
}

// lookupEnv returns the value of key, falling back to the INPUT_ prefixed key
func lookupEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return os.Getenv("INPUT_" + key)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := lookupEnv(key); value != "" {
		return value
	}
	return defaultValue
}

// defaultDatabasePath keeps the history file out of the checkout when running
// as a GitHub Action.
func defaultDatabasePath() string {
	if dir := os.Getenv("RUNNER_TEMP"); dir != "" {
		return filepath.Join(dir, "contribsync.db")
	}
	return "./contribsync.db"
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := lookupEnv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := lookupEnv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool only treats "true" (any case) as true, like action inputs
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := lookupEnv(key); value != "" {
		return strings.EqualFold(value, "true")
	}
	return defaultValue
}

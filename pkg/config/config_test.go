package config

import (
	"path/filepath"
	"testing"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "package.json", cfg.Sync.ManifestPath)
	assert.Equal(t, "direct", cfg.Sync.Affiliation)
	assert.Equal(t, "exec", cfg.Sync.GitBackend)
	assert.False(t, cfg.Sync.IncludeBots)
	assert.Equal(t, 0, cfg.Sync.Count)
	assert.NoError(t, cfg.Validate())
}

func TestDatabasePathDefaultsToRunnerTemp(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("INPUT_DB_PATH", "")

	t.Setenv("RUNNER_TEMP", "/home/runner/work/_temp")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/runner/work/_temp", "contribsync.db"), cfg.Database.Path)

	t.Setenv("RUNNER_TEMP", "")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "./contribsync.db", cfg.Database.Path)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "octo/widgets")
	t.Setenv("SORT", "true")
	t.Setenv("INPUT_INCLUDEBOTS", "true") // wrong key, ignored
	t.Setenv("INPUT_INCLUDE_COLLABORATORS", "TRUE")
	t.Setenv("AFFILIATION", "all")
	t.Setenv("EXCLUDE_USERS", "  alice\n bob   carol ")
	t.Setenv("COUNT", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Sync.Sort)
	assert.False(t, cfg.Sync.IncludeBots)
	assert.True(t, cfg.Sync.IncludeCollaborators)
	assert.Equal(t, []string{"alice", "bob", "carol"}, cfg.Sync.ExcludeUsers)

	owner, repo, err := cfg.OwnerRepo()
	require.NoError(t, err)
	assert.Equal(t, "octo", owner)
	assert.Equal(t, "widgets", repo)

	policy := cfg.Policy()
	assert.True(t, policy.SortByActivity)
	assert.Equal(t, models.AffiliationAll, policy.Affiliation)
	assert.Equal(t, 25, policy.MaxContributors)
	assert.True(t, policy.IsExcluded("bob"))
	assert.False(t, policy.IsExcluded("dave"))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown affiliation", mutate: func(c *Config) { c.Sync.Affiliation = "everyone" }, wantErr: true},
		{name: "negative count", mutate: func(c *Config) { c.Sync.Count = -1 }, wantErr: true},
		{name: "unknown git backend", mutate: func(c *Config) { c.Sync.GitBackend = "hg" }, wantErr: true},
		{name: "gogit backend", mutate: func(c *Config) { c.Sync.GitBackend = "gogit" }},
		{name: "negative retention", mutate: func(c *Config) { c.Server.RunRetentionDays = -1 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Sync: SyncConfig{Affiliation: "direct", GitBackend: "exec"}}
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitRepository(t *testing.T) {
	owner, repo, err := SplitRepository("octo/widgets")
	require.NoError(t, err)
	assert.Equal(t, "octo", owner)
	assert.Equal(t, "widgets", repo)

	for _, bad := range []string{"", "octo", "/widgets", "octo/", "a/b/c"} {
		_, _, err := SplitRepository(bad)
		assert.Error(t, err, bad)
	}
}

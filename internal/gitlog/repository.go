package gitlog

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/alimgiray/contribsync/internal/models"
)

// RepositoryQuerier reads history with go-git, so no git binary is needed
type RepositoryQuerier struct {
	RepoPath string
}

// NewRepositoryQuerier creates a querier for the repository at repoPath
func NewRepositoryQuerier(repoPath string) *RepositoryQuerier {
	return &RepositoryQuerier{RepoPath: repoPath}
}

type authorKey struct {
	name  string
	email string
}

// QueryCommitAuthors walks every commit reachable from any ref and counts
// commits per (name, email) pair, ordered like `git shortlog -sn`
func (q *RepositoryQuerier) QueryCommitAuthors(ctx context.Context) ([]models.LogRecord, error) {
	repo, err := git.PlainOpenWithOptions(q.RepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", q.RepoPath, err)
	}

	iter, err := repo.Log(&git.LogOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	counts := make(map[authorKey]int)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		counts[authorKey{name: c.Author.Name, email: c.Author.Email}]++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk commits: %w", err)
	}

	records := make([]models.LogRecord, 0, len(counts))
	for key, commits := range counts {
		if key.name == "" {
			continue
		}
		records = append(records, models.LogRecord{Name: key.name, Email: key.email, Commits: commits})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Commits != records[j].Commits {
			return records[i].Commits > records[j].Commits
		}
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Email < records[j].Email
	})

	return records, nil
}

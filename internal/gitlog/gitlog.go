// Package gitlog summarizes commit authorship of a local repository.
package gitlog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alimgiray/contribsync/internal/models"
)

// Querier returns one record per distinct author across all branches
type Querier interface {
	QueryCommitAuthors(ctx context.Context) ([]models.LogRecord, error)
}

// ShortlogQuerier runs `git shortlog -sne --all` in a working copy
type ShortlogQuerier struct {
	RepoPath string
	GitPath  string
}

// NewShortlogQuerier creates a querier for the repository at repoPath
func NewShortlogQuerier(repoPath string) *ShortlogQuerier {
	return &ShortlogQuerier{RepoPath: repoPath, GitPath: "git"}
}

// QueryCommitAuthors runs git and parses its output
func (q *ShortlogQuerier) QueryCommitAuthors(ctx context.Context) ([]models.LogRecord, error) {
	// --all names revisions, so shortlog never falls back to reading stdin
	cmd := exec.CommandContext(ctx, q.GitPath, "shortlog", "-sne", "--all")
	cmd.Dir = q.RepoPath

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git shortlog: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return ParseShortlog(out), nil
}

// ParseShortlog parses `git shortlog -sne` output lines of the form
// "  12\tJane Doe <jane@example.com>". Malformed lines are skipped.
func ParseShortlog(out []byte) []models.LogRecord {
	var records []models.LogRecord

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		record, ok := parseShortlogLine(scanner.Text())
		if ok {
			records = append(records, record)
		}
	}

	return records
}

func parseShortlogLine(line string) (models.LogRecord, bool) {
	line = strings.TrimSpace(line)
	countField, author, ok := strings.Cut(line, "\t")
	if !ok {
		return models.LogRecord{}, false
	}

	commits, err := strconv.Atoi(strings.TrimSpace(countField))
	if err != nil {
		return models.LogRecord{}, false
	}

	author = strings.TrimSpace(author)
	open := strings.LastIndex(author, "<")
	if open < 0 || !strings.HasSuffix(author, ">") {
		return models.LogRecord{}, false
	}

	name := strings.TrimSpace(author[:open])
	email := strings.TrimSpace(author[open+1 : len(author)-1])
	if name == "" {
		return models.LogRecord{}, false
	}

	return models.LogRecord{Name: name, Email: email, Commits: commits}, true
}

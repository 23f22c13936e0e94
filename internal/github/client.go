// Package github implements the page fetches and manifest storage the sync
// engine needs on top of go-github.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/alimgiray/contribsync/internal/manifest"
	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/pagination"
	"github.com/alimgiray/contribsync/pkg/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PageSize is the number of records requested per listing page.
	PageSize = 100

	headerLink = "Link"
)

// Client wraps the go-github client with rate limiting and error conversion.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client authenticated with a static token. An empty
// token makes unauthenticated requests; an empty baseURL targets github.com.
func NewClient(ctx context.Context, token, baseURL string, requestsPerSecond float64) (*Client, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = DefaultTimeout

	return NewClientWithHTTPClient(httpClient, baseURL, NewRateLimiter(requestsPerSecond))
}

// NewClientWithHTTPClient creates a client on top of an existing http.Client
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, rateLimiter *RateLimiter) (*Client, error) {
	client := gh.NewClient(httpClient)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}

	return &Client{
		gh:          client,
		rateLimiter: rateLimiter,
	}, nil
}

// ListContributorsPage fetches one page of the repository contributor listing
func (c *Client) ListContributorsPage(ctx context.Context, owner, repo string, page int) (*pagination.Page[models.ContributionRecord], error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.ListContributorsOptions{
		ListOptions: gh.ListOptions{Page: page, PerPage: PageSize},
	}
	contributors, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "list contributors")
	}

	records := make([]models.ContributionRecord, 0, len(contributors))
	for _, contributor := range contributors {
		if contributor == nil {
			continue
		}
		records = append(records, models.ContributionRecord{
			Login:         contributor.GetLogin(),
			Email:         contributor.GetEmail(),
			HTMLURL:       contributor.GetHTMLURL(),
			Contributions: contributor.GetContributions(),
			Type:          contributor.GetType(),
		})
	}

	logger.WithFields(map[string]interface{}{
		"owner": owner,
		"repo":  repo,
		"page":  page,
		"count": len(records),
	}).Debugf("Fetched contributors page")

	return &pagination.Page[models.ContributionRecord]{Items: records, Links: linkHeader(resp)}, nil
}

// ListCollaboratorsPage fetches one page of the repository collaborator listing
func (c *Client) ListCollaboratorsPage(ctx context.Context, owner, repo string, affiliation models.Affiliation, page int) (*pagination.Page[models.CollaboratorRecord], error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.ListCollaboratorsOptions{
		Affiliation: string(affiliation),
		ListOptions: gh.ListOptions{Page: page, PerPage: PageSize},
	}
	users, resp, err := c.gh.Repositories.ListCollaborators(ctx, owner, repo, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "list collaborators")
	}

	records := make([]models.CollaboratorRecord, 0, len(users))
	for _, user := range users {
		if user == nil {
			continue
		}
		records = append(records, models.CollaboratorRecord{
			Login:   user.GetLogin(),
			Email:   user.GetEmail(),
			HTMLURL: user.GetHTMLURL(),
		})
	}

	logger.WithFields(map[string]interface{}{
		"owner":       owner,
		"repo":        repo,
		"affiliation": affiliation,
		"page":        page,
		"count":       len(records),
	}).Debugf("Fetched collaborators page")

	return &pagination.Page[models.CollaboratorRecord]{Items: records, Links: linkHeader(resp)}, nil
}

// ReadManifest fetches a file from the default branch. A missing file is
// reported as manifest.ErrNotFound, a directory or undecodable content as
// manifest.ErrUnreadable.
func (c *Client) ReadManifest(ctx context.Context, owner, repo, path string) (*manifest.File, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	content, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		err = c.wrapError(err, "get contents")
		if IsNotFound(err) {
			return nil, fmt.Errorf("%s: %w", path, manifest.ErrNotFound)
		}
		return nil, err
	}

	if content == nil {
		return nil, fmt.Errorf("%s is a directory: %w", path, manifest.ErrUnreadable)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", path, err, manifest.ErrUnreadable)
	}

	return &manifest.File{
		Path:    path,
		Content: []byte(decoded),
		SHA:     content.GetSHA(),
	}, nil
}

// WriteManifest commits content to path on the default branch. sha is the
// blob revision the content was derived from.
func (c *Client) WriteManifest(ctx context.Context, owner, repo, path string, content []byte, sha, message string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: content,
	}
	if sha != "" {
		opts.SHA = gh.String(sha)
	}

	_, resp, err := c.gh.Repositories.UpdateFile(ctx, owner, repo, path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return c.wrapError(err, "update contents")
	}
	return nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

func linkHeader(resp *gh.Response) string {
	if resp == nil || resp.Response == nil {
		return ""
	}
	return resp.Header.Get(headerLink)
}

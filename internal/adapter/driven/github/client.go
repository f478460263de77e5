// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/govscan/internal/domain/model"
	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// reposPerPage is the single page size requested per organization. GitHub
// caps per_page at 100; later pages are never requested.
const reposPerPage = 100

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with bearer token auth)
//
// apiURL overrides the REST endpoint (GitHub Enterprise); empty keeps api.github.com.
func NewClient(token, apiURL string, timeout time.Duration) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = timeout

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if apiURL != "" {
		u, err := parseBaseURL(apiURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = u
	}

	return &Client{gh: client}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// ListOrgRepos retrieves one page of up to 100 repositories owned by org.
// A non-success response is returned as a *driven.APIError.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]model.RepoMetadata, error) {
	opts := &gh.RepositoryListByOrgOptions{
		ListOptions: gh.ListOptions{PerPage: reposPerPage},
	}

	repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
	if err != nil {
		return nil, fmt.Errorf("listing repositories for %s: %w", org, wrapResponseError(resp, err))
	}

	logRateLimit(resp, "orgs/"+org+"/repos", len(repos))

	out := make([]model.RepoMetadata, 0, len(repos))
	for _, r := range repos {
		out = append(out, mapRepository(r, org))
	}

	return out, nil
}

// FetchReadme returns the decoded README of org/repo.
func (c *Client) FetchReadme(ctx context.Context, org, repo string) (string, error) {
	readme, resp, err := c.gh.Repositories.GetReadme(ctx, org, repo, nil)
	if err != nil {
		return "", fmt.Errorf("fetching readme for %s/%s: %w", org, repo, wrapResponseError(resp, err))
	}

	logRateLimit(resp, "repos/"+org+"/"+repo+"/readme", 1)

	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding readme for %s/%s: %w", org, repo, err)
	}

	return content, nil
}

// mapRepository converts a go-github Repository to RepoMetadata.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRepository(r *gh.Repository, org string) model.RepoMetadata {
	owner := r.GetOwner().GetLogin()
	if owner == "" {
		owner = org
	}

	return model.RepoMetadata{
		Name:        r.GetName(),
		Owner:       owner,
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		UpdatedAt:   r.GetUpdatedAt().Time.UTC(),
		HTMLURL:     r.GetHTMLURL(),
	}
}

// wrapResponseError attaches the HTTP status code to err when a response was received.
func wrapResponseError(resp *gh.Response, err error) error {
	if resp != nil && resp.Response != nil {
		return &driven.APIError{StatusCode: resp.StatusCode, Err: err}
	}
	return err
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// parseBaseURL parses raw and guarantees the trailing slash go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	return u, nil
}

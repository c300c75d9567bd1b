// Package github lists a user's public repositories from the GitHub REST
// api. Client talks HTTP; CachedClient and StaleDataClient wrap any
// RepoLister with an in-memory cache and a persisted fallback.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/model"
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// RepoLister returns the public repositories of a GitHub user. token is
// optional; with it GitHub applies the user's own rate limit.
type RepoLister interface {
	ListUserRepos(ctx context.Context, username, token string) ([]model.GitHubRepo, error)
}

// Client is the HTTP RepoLister.
type Client struct {
	doer    HTTPDoer
	address string

	reposResponseMaxSize int64
	perPage              int
}

var _ RepoLister = (*Client)(nil)

// NewClient creates a client for the api at address, e.g.
// "https://api.github.com".
func NewClient(doer HTTPDoer, address string) *Client {
	return &Client{
		doer:                 doer,
		address:              address,
		reposResponseMaxSize: 1024 * 1024 * 10,
		perPage:              100,
	}
}

// ListUserRepos calls GET /users/{username}/repos.
func (c *Client) ListUserRepos(ctx context.Context, username, token string) ([]model.GitHubRepo, error) {
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username cannot be empty")
	}

	u, err := url.Parse(c.address + "/users/" + url.PathEscape(username) + "/repos")
	if err != nil {
		return nil, fmt.Errorf("github: invalid url: %w", err)
	}
	v := make(url.Values)
	v.Set("per_page", strconv.Itoa(c.perPage))
	v.Set("sort", "updated")
	u.RawQuery = v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("github: creating http request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	body, err := c.makeRequest(req)
	if err != nil {
		return nil, err
	}

	var repos []model.GitHubRepo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, apperror.Upstream("", fmt.Errorf("github: unmarshalling repos: %w", err))
	}

	return repos, nil
}

func (c *Client) makeRequest(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, apperror.Upstream("", fmt.Errorf("github: doing http request: %w", err))
	}
	// Drain before close so the connection can be reused.
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperror.Unauthorized()
	case resp.StatusCode/100 > 3:
		if rateLimitExceeded(resp.Header) {
			return nil, apperror.RateLimited("GitHub rate limit exceeded")
		}
		return nil, apperror.Upstream("", fmt.Errorf("github: got http status %d", resp.StatusCode))
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.reposResponseMaxSize))
	if err != nil {
		return nil, apperror.Upstream("", fmt.Errorf("github: reading response body: %w", err))
	}

	return b, nil
}

func rateLimitExceeded(h http.Header) bool {
	if s := h.Get("X-RateLimit-Remaining"); s != "" {
		if remaining, err := strconv.Atoi(s); err == nil && remaining == 0 {
			return true
		}
	}
	return false
}

// Package backend is the client of the PullQuest REST api.
//
// Every contributor endpoint answers with an envelope
//
//	{"success": true, "data": ...}
//	{"success": false, "message": "..."}
//
// and requires the session's access token as a bearer token. Calls without
// a token fail with apperror.ErrMissingToken before any request is built.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/model"
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client calls the PullQuest backend at baseURL.
type Client struct {
	doer            HTTPDoer
	baseURL         string
	responseMaxSize int64
}

// NewClient creates a Client. baseURL has no trailing slash, e.g.
// "http://localhost:8000".
func NewClient(doer HTTPDoer, baseURL string) *Client {
	return &Client{
		doer:            doer,
		baseURL:         strings.TrimRight(baseURL, "/"),
		responseMaxSize: 1024 * 1024 * 10,
	}
}

// Profile is the payload of POST /api/contributor/profile.
type Profile struct {
	Profile     model.UserProfile `json:"profile"`
	Stats       model.UserStats   `json:"stats"`
	GitHubToken string            `json:"githubToken"`
}

// Profile fetches the contributor's profile and stats.
func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	var p Profile
	if err := c.call(ctx, http.MethodPost, "/api/contributor/profile", token, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Stakes fetches the contributor's stakes in backend order.
func (c *Client) Stakes(ctx context.Context, token string) ([]model.Stake, error) {
	var stakes []model.Stake
	if err := c.call(ctx, http.MethodGet, "/api/contributor/stakes", token, &stakes); err != nil {
		return nil, err
	}
	return stakes, nil
}

type analysisData struct {
	Repositories       []model.AnalyzedRepo   `json:"repositories"`
	ContributableRepos int                    `json:"contributableRepos"`
	TotalRepos         int                    `json:"totalRepos"`
	Languages          []string               `json:"languages"`
	SuggestedIssues    []model.SuggestedIssue `json:"suggestedIssues"`
}

// AnalyzeRepositories runs the backend repository analysis. It can take a
// while; the caller bounds it with ctx.
func (c *Client) AnalyzeRepositories(ctx context.Context, token string) (*model.Analysis, error) {
	var d analysisData
	if err := c.call(ctx, http.MethodPost, "/api/contributor/analyze-repositories", token, &d); err != nil {
		return nil, err
	}
	return &model.Analysis{
		Repositories: d.Repositories,
		Stats: model.RepoStats{
			Total:         d.TotalRepos,
			Contributable: d.ContributableRepos,
			Languages:     d.Languages,
		},
		SuggestedIssues: d.SuggestedIssues,
	}, nil
}

// SuggestedIssues fetches the current suggestions. A missing list decodes
// as empty.
func (c *Client) SuggestedIssues(ctx context.Context, token string) ([]model.SuggestedIssue, error) {
	var d struct {
		SuggestedIssues []model.SuggestedIssue `json:"suggestedIssues"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/contributor/suggested-issues", token, &d); err != nil {
		return nil, err
	}
	if d.SuggestedIssues == nil {
		return []model.SuggestedIssue{}, nil
	}
	return d.SuggestedIssues, nil
}

// Contributors lists the public contributor directory. The endpoint needs
// no token and returns a bare array, not an envelope.
func (c *Client) Contributors(ctx context.Context) ([]model.Contributor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/contributors", nil)
	if err != nil {
		return nil, fmt.Errorf("backend: creating request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var contributors []model.Contributor
	if err := json.Unmarshal(body, &contributors); err != nil {
		return nil, apperror.Upstream("", fmt.Errorf("backend: decoding contributors: %w", err))
	}
	return contributors, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// call performs an authenticated envelope request and decodes data into out.
func (c *Client) call(ctx context.Context, method, path, token string, out any) error {
	if token == "" {
		return apperror.MissingToken()
	}

	var body io.Reader
	if method == http.MethodPost {
		body = bytes.NewReader([]byte("{}"))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, err := c.do(req)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperror.Upstream("", fmt.Errorf("backend: decoding %s envelope: %w", path, err))
	}
	if !env.Success {
		return apperror.Upstream(env.Message, fmt.Errorf("backend: %s reported failure", path))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperror.Upstream("", fmt.Errorf("backend: decoding %s data: %w", path, err))
	}
	return nil
}

// do sends req and returns the body of a 2xx response. Error responses are
// mapped onto the apperror taxonomy, keeping the backend's message.
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, apperror.Upstream("", fmt.Errorf("backend: %s %s: %w", req.Method, req.URL.Path, err))
	}
	// Drain before close so the connection can be reused.
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.responseMaxSize))
	if err != nil {
		return nil, apperror.Upstream("", fmt.Errorf("backend: reading response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperror.Unauthorized()
	case resp.StatusCode/100 != 2:
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return nil, apperror.Upstream(env.Message,
			fmt.Errorf("backend: %s %s: http status %d", req.Method, req.URL.Path, resp.StatusCode))
	}

	return raw, nil
}

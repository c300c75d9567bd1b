package service

import (
	"context"
	"sync"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/backend"
	"github.com/sakif/pullquest-dashboard/internal/model"
)

// fakeBackend is a scripted ContributorBackend. It mirrors the real
// client's missing-token behavior: no call is recorded without a token.
type fakeBackend struct {
	mu sync.Mutex

	profile    *backend.Profile
	profileErr error
	stakes     []model.Stake
	stakesErr  error
	analysis   *model.Analysis
	analyzeErr error
	suggested  []model.SuggestedIssue
	suggestErr error

	// analyzeGate, when set, blocks AnalyzeRepositories until closed.
	analyzeGate    chan struct{}
	analyzeStarted chan struct{}

	calls map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name, token string) error {
	if token == "" {
		return apperror.MissingToken()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return nil
}

func (f *fakeBackend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Profile(_ context.Context, token string) (*backend.Profile, error) {
	if err := f.record("profile", token); err != nil {
		return nil, err
	}
	return f.profile, f.profileErr
}

func (f *fakeBackend) Stakes(_ context.Context, token string) ([]model.Stake, error) {
	if err := f.record("stakes", token); err != nil {
		return nil, err
	}
	return f.stakes, f.stakesErr
}

func (f *fakeBackend) AnalyzeRepositories(ctx context.Context, token string) (*model.Analysis, error) {
	if err := f.record("analyze", token); err != nil {
		return nil, err
	}
	if f.analyzeStarted != nil {
		close(f.analyzeStarted)
	}
	if f.analyzeGate != nil {
		select {
		case <-f.analyzeGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.analysis, f.analyzeErr
}

func (f *fakeBackend) SuggestedIssues(_ context.Context, token string) ([]model.SuggestedIssue, error) {
	if err := f.record("suggested", token); err != nil {
		return nil, err
	}
	return f.suggested, f.suggestErr
}

// fakeRepos is a github.RepoLister.
type fakeRepos struct {
	mu        sync.Mutex
	repos     []model.GitHubRepo
	err       error
	calls     int
	lastUser  string
	lastToken string
}

func (f *fakeRepos) ListUserRepos(_ context.Context, username, token string) ([]model.GitHubRepo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastUser = username
	f.lastToken = token
	return f.repos, f.err
}

// fakeContributors is a ContributorLister.
type fakeContributors struct {
	list []model.Contributor
	err  error
}

func (f *fakeContributors) Contributors(context.Context) ([]model.Contributor, error) {
	return f.list, f.err
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func testSession() model.Session {
	return model.Session{
		ID:             "sess-1",
		UserID:         "user-1",
		Role:           model.RoleContributor,
		AccessToken:    "tok",
		GitHubUsername: "octocat",
	}
}

func testProfile() *backend.Profile {
	return &backend.Profile{
		Profile: model.UserProfile{
			Login:       "octocat",
			Name:        "The Octocat",
			PublicRepos: 8,
			HTMLURL:     "https://github.com/octocat",
		},
		Stats: model.UserStats{
			Coins:          120,
			XP:             640,
			ActiveBounties: 2,
		},
		GitHubToken: "gho_github",
	}
}

package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/auth"
	"github.com/sakif/pullquest-dashboard/internal/backend"
	"github.com/sakif/pullquest-dashboard/internal/handler"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/service"
	"github.com/sakif/pullquest-dashboard/internal/session"
)

// =========================================================================
// FAKES
// =========================================================================

// stubBackend serves every PullQuest call the handlers reach, including
// the public contributor directory.
type stubBackend struct {
	mu sync.Mutex

	profile      *backend.Profile
	profileErr   error
	stakes       []model.Stake
	stakesErr    error
	analysis     *model.Analysis
	analyzeErr   error
	suggested    []model.SuggestedIssue
	suggestErr   error
	contributors []model.Contributor
	listErr      error

	calls map[string]int
}

func (b *stubBackend) record(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls == nil {
		b.calls = make(map[string]int)
	}
	b.calls[name]++
}

func (b *stubBackend) Calls(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *stubBackend) Profile(_ context.Context, token string) (*backend.Profile, error) {
	if token == "" {
		return nil, apperror.MissingToken()
	}
	b.record("profile")
	return b.profile, b.profileErr
}

func (b *stubBackend) Stakes(_ context.Context, token string) ([]model.Stake, error) {
	if token == "" {
		return nil, apperror.MissingToken()
	}
	b.record("stakes")
	return b.stakes, b.stakesErr
}

func (b *stubBackend) AnalyzeRepositories(_ context.Context, token string) (*model.Analysis, error) {
	if token == "" {
		return nil, apperror.MissingToken()
	}
	b.record("analyze")
	return b.analysis, b.analyzeErr
}

func (b *stubBackend) SuggestedIssues(_ context.Context, token string) ([]model.SuggestedIssue, error) {
	if token == "" {
		return nil, apperror.MissingToken()
	}
	b.record("suggested")
	return b.suggested, b.suggestErr
}

func (b *stubBackend) Contributors(context.Context) ([]model.Contributor, error) {
	b.record("contributors")
	return b.contributors, b.listErr
}

type stubRepos struct {
	repos []model.GitHubRepo
	err   error
}

func (s *stubRepos) ListUserRepos(context.Context, string, string) ([]model.GitHubRepo, error) {
	return s.repos, s.err
}

// stubUsers is an in-memory repository.UserRepository.
type stubUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (s *stubUsers) Upsert(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == nil {
		s.users = make(map[string]*model.User)
	}
	if u.ID == "" {
		u.ID = "user-1"
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *stubUsers) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

// fakeSessions records lifecycle calls. Like the real provider it runs
// onClear on invalidation.
type fakeSessions struct {
	mu          sync.Mutex
	loggedIn    []session.LoginParams
	loginErr    error
	logouts     int
	invalidated []string
	onClear     func(string)
}

func (f *fakeSessions) Login(_ context.Context, w http.ResponseWriter, p session.LoginParams) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.loggedIn = append(f.loggedIn, p)
	http.SetCookie(w, &http.Cookie{Name: auth.TokenCookie, Value: "jwt"})
	return &model.Session{ID: "new-session", UserID: p.UserID, Role: p.Role, AccessToken: p.AccessToken}, nil
}

func (f *fakeSessions) Logout(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	auth.ClearTokenCookie(w, false)
	return nil
}

func (f *fakeSessions) Invalidate(_ context.Context, w http.ResponseWriter, id string) error {
	f.mu.Lock()
	f.invalidated = append(f.invalidated, id)
	hook := f.onClear
	f.mu.Unlock()

	auth.ClearTokenCookie(w, false)
	if hook != nil {
		hook(id)
	}
	return nil
}

func (f *fakeSessions) Invalidated() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.invalidated...)
}

type fakeOAuth struct {
	login       *auth.GitHubLogin
	err         error
	gotCode     string
	gotAuthURLs []string
}

func (f *fakeOAuth) AuthURL(state string) string {
	f.gotAuthURLs = append(f.gotAuthURLs, state)
	return "https://github.example/login/oauth/authorize?state=" + state
}

func (f *fakeOAuth) Exchange(_ context.Context, code string) (*auth.GitHubLogin, error) {
	f.gotCode = code
	return f.login, f.err
}

// =========================================================================
// HARNESS
// =========================================================================

type harness struct {
	backend  *stubBackend
	repos    *stubRepos
	users    *stubUsers
	sessions *fakeSessions
	oauth    *fakeOAuth
	views    *service.ViewStore
	pages    *handler.Renderer
	logger   *slog.Logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	views, err := service.NewViewStore(16)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pages, err := handler.NewRenderer(views, logger)
	require.NoError(t, err)

	return &harness{
		backend:  &stubBackend{},
		repos:    &stubRepos{},
		users:    &stubUsers{},
		sessions: &fakeSessions{onClear: views.Drop},
		oauth:    &fakeOAuth{},
		views:    views,
		pages:    pages,
		logger:   logger,
	}
}

func (h *harness) contributorService() *service.ContributorService {
	return service.NewContributorService(h.backend, h.repos, h.views, h.logger)
}

func (h *harness) authService() *service.AuthService {
	return service.NewAuthService(h.users, h.logger)
}

func (h *harness) contributorHandler() *handler.ContributorHandler {
	return handler.NewContributorHandler(h.contributorService(), h.authService(), h.sessions, h.pages, h.logger)
}

func (h *harness) authHandler() *handler.AuthHandler {
	return handler.NewAuthHandler(h.oauth, h.authService(), h.sessions, h.pages, h.logger)
}

func (h *harness) companyHandler() *handler.CompanyHandler {
	return handler.NewCompanyHandler(service.NewCompanyService(h.backend, h.views, h.logger), h.pages, h.logger)
}

func (h *harness) maintainerHandler() *handler.MaintainerHandler {
	return handler.NewMaintainerHandler(service.NewMaintainerService(h.repos, h.logger), h.pages, h.logger)
}

func (h *harness) apiHandler() *handler.APIHandler {
	return handler.NewAPIHandler(h.contributorService(), h.sessions, h.views, h.logger)
}

// withSession places s in r's context the way guard.PrivateRoute does.
func withSession(r *http.Request, s model.Session) *http.Request {
	return r.WithContext(session.NewContext(r.Context(), s))
}

func contributorSession() model.Session {
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
			AvatarURL:   "https://avatars.example/octocat.png",
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

func strPtr(s string) *string { return &s }

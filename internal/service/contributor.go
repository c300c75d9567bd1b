// Package service orchestrates the role dashboards.
//
// Handlers pass the request's session in by value; services fetch from the
// PullQuest backend and GitHub, normalize every response into its own
// view.Slice, and keep the per-session state (analysis results, suggested
// issues, toasts) in a ViewStore.
//
// FAILURE MODEL:
// Independent fetches run concurrently with errgroup, but every goroutine
// records its own error and returns nil, so one failing call never cancels
// its sibling. A failed slice renders as empty and leaves a toast; nothing
// is retried.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/backend"
	"github.com/sakif/pullquest-dashboard/internal/github"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/view"
)

// User-facing messages.
const (
	MsgAuthRequired        = "Authentication required"
	MsgProfileFailed       = "Failed to load profile data"
	MsgStakesFailed        = "Failed to load stakes"
	MsgAnalysisInProgress  = "Analysis already in progress"
	MsgAnalysisCompleted   = "Repository analysis completed!"
	MsgAnalysisFailed      = "Failed to analyze repositories"
	MsgSuggestedFailed     = "Failed to fetch suggested issues"
	MsgContributorsFailed  = "Failed to fetch contributors"
	msgFoundSuggestedIssue = "Found %d suggested issues!"
)

// ContributorBackend is the part of the PullQuest api the contributor
// views use. *backend.Client implements it.
type ContributorBackend interface {
	Profile(ctx context.Context, token string) (*backend.Profile, error)
	Stakes(ctx context.Context, token string) ([]model.Stake, error)
	AnalyzeRepositories(ctx context.Context, token string) (*model.Analysis, error)
	SuggestedIssues(ctx context.Context, token string) ([]model.SuggestedIssue, error)
}

// ContributorService backs every /contributor page.
type ContributorService struct {
	backend ContributorBackend
	repos   github.RepoLister
	views   *ViewStore
	logger  *slog.Logger
}

// NewContributorService creates a ContributorService.
func NewContributorService(b ContributorBackend, repos github.RepoLister, views *ViewStore, logger *slog.Logger) *ContributorService {
	return &ContributorService{
		backend: b,
		repos:   repos,
		views:   views,
		logger:  logger,
	}
}

// StatsCard holds the numbers of the overview cards and the rank badge.
type StatsCard struct {
	Coins        int           `json:"coins"`
	XP           int           `json:"xp"`
	PublicRepos  int           `json:"publicRepos"`
	ActiveStakes int           `json:"activeStakes"`
	MergedPRs    int           `json:"mergedPRs"`
	Rank         string        `json:"rank"`
	RankColor    string        `json:"rankColor"`
	Progress     view.Progress `json:"progress"`
}

// Overview is the contributor dashboard.
type Overview struct {
	WelcomeName string                        `json:"welcomeName"`
	Profile     view.Slice[model.UserProfile] `json:"profile"`
	Stats       view.Slice[StatsCard]         `json:"stats"`
	Stakes      view.Slice[[]view.StakeRow]   `json:"stakes"`
	State       ContributorState              `json:"state"`
	// Unauthorized reports that the backend rejected the session's token.
	Unauthorized bool `json:"-"`
}

// StakeRows returns the stakes, or none when they could not be loaded.
func (o *Overview) StakeRows() []view.StakeRow {
	return o.Stakes.Value()
}

// fetched is the outcome of the concurrent profile and stakes calls.
type fetched struct {
	profile    *backend.Profile
	profileErr error
	stakes     []model.Stake
	stakesErr  error
}

// fetchProfileAndStakes runs both calls concurrently and waits for both.
func (s *ContributorService) fetchProfileAndStakes(ctx context.Context, token string) fetched {
	var (
		f fetched
		g errgroup.Group
	)
	g.Go(func() error {
		f.profile, f.profileErr = s.backend.Profile(ctx, token)
		return nil
	})
	g.Go(func() error {
		f.stakes, f.stakesErr = s.backend.Stakes(ctx, token)
		return nil
	})
	_ = g.Wait()
	return f
}

// Overview loads the dashboard for sess.
func (s *ContributorService) Overview(ctx context.Context, sess model.Session) *Overview {
	st := s.views.Get(sess.ID)
	o := &Overview{}

	if sess.AccessToken == "" {
		st.PushToast(view.Error(MsgAuthRequired))
		o.Profile = view.Failed[model.UserProfile](MsgAuthRequired)
		o.Stats = view.Failed[StatsCard](MsgAuthRequired)
		o.Stakes = view.Failed[[]view.StakeRow](MsgAuthRequired)
		o.WelcomeName = welcomeName(nil)
		o.State = st.Snapshot()
		return o
	}

	f := s.fetchProfileAndStakes(ctx, sess.AccessToken)

	if f.profileErr != nil {
		o.Unauthorized = s.fail(st, "profile", f.profileErr, MsgProfileFailed) || o.Unauthorized
		o.Profile = view.Failed[model.UserProfile](apperror.MessageOr(f.profileErr, MsgProfileFailed))
		o.Stats = view.Failed[StatsCard](apperror.MessageOr(f.profileErr, MsgProfileFailed))
	} else {
		o.Profile = view.Loaded(f.profile.Profile)
		o.Stats = view.Loaded(statsCard(f.profile))
	}

	if f.stakesErr != nil {
		o.Unauthorized = s.fail(st, "stakes", f.stakesErr, MsgStakesFailed) || o.Unauthorized
		o.Stakes = view.Failed[[]view.StakeRow](apperror.MessageOr(f.stakesErr, MsgStakesFailed))
	} else {
		o.Stakes = view.Loaded(view.FormatStakes(f.stakes))
	}

	if p, ok := o.Profile.Get(); ok {
		o.WelcomeName = welcomeName(&p)
	} else {
		o.WelcomeName = welcomeName(nil)
	}
	o.State = st.Snapshot()
	return o
}

// ProfileCard is the profile sidebar.
type ProfileCard struct {
	Name        string      `json:"name"`
	Login       string      `json:"login"`
	Bio         string      `json:"bio"`
	Location    string      `json:"location"`
	AvatarURL   string      `json:"avatarUrl"`
	PublicRepos int         `json:"publicRepos"`
	Followers   int         `json:"followers"`
	Following   int         `json:"following"`
	Links       SocialLinks `json:"links"`
}

// SocialLinks are the sidebar links; empty ones are not rendered.
type SocialLinks struct {
	GitHub  string `json:"github"`
	Website string `json:"website"`
	Twitter string `json:"twitter"`
}

// ProfilePage is /contributor/profile.
type ProfilePage struct {
	Card         view.Slice[ProfileCard]     `json:"card"`
	Stats        view.Slice[StatsCard]       `json:"stats"`
	Stakes       view.Slice[[]view.StakeRow] `json:"stakes"`
	TopLanguages []view.LanguageShare        `json:"topLanguages"`
	Repositories []model.GitHubRepo          `json:"repositories"`
	Unauthorized bool                        `json:"-"`
}

// ProfilePage waits for both profile and stakes, then asks GitHub for the
// user's repositories with the GitHub token from the profile response. The
// GitHub step is best effort: its failure is logged and only the language
// and repository lists stay empty.
func (s *ContributorService) ProfilePage(ctx context.Context, sess model.Session) *ProfilePage {
	st := s.views.Get(sess.ID)
	page := &ProfilePage{}

	if sess.AccessToken == "" {
		st.PushToast(view.Error(MsgAuthRequired))
		page.Card = view.Failed[ProfileCard](MsgAuthRequired)
		page.Stats = view.Failed[StatsCard](MsgAuthRequired)
		page.Stakes = view.Failed[[]view.StakeRow](MsgAuthRequired)
		return page
	}

	f := s.fetchProfileAndStakes(ctx, sess.AccessToken)

	if f.stakesErr != nil {
		page.Unauthorized = s.fail(st, "stakes", f.stakesErr, MsgStakesFailed)
		page.Stakes = view.Failed[[]view.StakeRow](apperror.MessageOr(f.stakesErr, MsgStakesFailed))
	} else {
		page.Stakes = view.Loaded(view.FormatStakes(f.stakes))
	}

	if f.profileErr != nil {
		page.Unauthorized = s.fail(st, "profile", f.profileErr, MsgProfileFailed) || page.Unauthorized
		page.Card = view.Failed[ProfileCard](apperror.MessageOr(f.profileErr, MsgProfileFailed))
		page.Stats = view.Failed[StatsCard](apperror.MessageOr(f.profileErr, MsgProfileFailed))
		return page
	}

	page.Card = view.Loaded(profileCard(f.profile.Profile))
	page.Stats = view.Loaded(statsCard(f.profile))

	username := firstNonEmpty(f.profile.Profile.Username, f.profile.Profile.Login, sess.GitHubUsername)
	if f.profile.GitHubToken == "" || username == "" {
		return page
	}

	repos, err := s.repos.ListUserRepos(ctx, username, f.profile.GitHubToken)
	if err != nil {
		s.logger.Warn("fetching github repositories",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return page
	}
	page.TopLanguages = view.TopLanguages(repos, view.TopLanguageCount)
	page.Repositories = view.SortByStars(repos)
	return page
}

// Analyze runs the backend repository analysis for sess. Only one analysis
// per session runs at a time; a second call while one is in flight fails
// with apperror.ErrConflict and changes nothing. The session's state is
// pinned in the store while the backend call runs.
func (s *ContributorService) Analyze(ctx context.Context, sess model.Session) error {
	st, ok := s.views.BeginAnalysis(sess.ID)
	if !ok {
		st.PushToast(view.Error(MsgAnalysisInProgress))
		return &apperror.AppError{Err: apperror.ErrConflict, Message: MsgAnalysisInProgress}
	}
	defer s.views.EndAnalysis(sess.ID, st)

	analysis, err := s.backend.AnalyzeRepositories(ctx, sess.AccessToken)
	if err != nil {
		s.fail(st, "analysis", err, MsgAnalysisFailed)
		return fmt.Errorf("service: analyzing repositories: %w", err)
	}

	st.ApplyAnalysis(analysis)
	st.PushToast(view.Success(MsgAnalysisCompleted))
	if n := len(analysis.SuggestedIssues); n > 0 {
		st.PushToast(view.Info(fmt.Sprintf(msgFoundSuggestedIssue, n)))
	}

	s.logger.Info("repository analysis completed",
		slog.String("session_id", sess.ID),
		slog.Int("repositories", len(analysis.Repositories)),
		slog.Int("suggested_issues", len(analysis.SuggestedIssues)),
	)
	return nil
}

// RefreshSuggestedIssues replaces the suggested issues with the backend's
// current list, an empty one included.
func (s *ContributorService) RefreshSuggestedIssues(ctx context.Context, sess model.Session) error {
	st := s.views.Get(sess.ID)

	issues, err := s.backend.SuggestedIssues(ctx, sess.AccessToken)
	if err != nil {
		s.fail(st, "suggested issues", err, MsgSuggestedFailed)
		return fmt.Errorf("service: fetching suggested issues: %w", err)
	}

	st.ReplaceSuggested(issues)
	return nil
}

// SuggestedIssue returns one suggested issue of sess by its ID.
func (s *ContributorService) SuggestedIssue(sess model.Session, rawID string) (model.SuggestedIssue, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return model.SuggestedIssue{}, apperror.NotFound("issue", rawID)
	}
	issue, ok := s.views.Get(sess.ID).SuggestedIssue(id)
	if !ok {
		return model.SuggestedIssue{}, apperror.NotFound("issue", rawID)
	}
	return issue, nil
}

// State returns the stored dashboard state of sess.
func (s *ContributorService) State(sess model.Session) ContributorState {
	return s.views.Get(sess.ID).Snapshot()
}

// fail logs err, queues a toast with the backend message or fallback, and
// reports whether err was a rejected token.
func (s *ContributorService) fail(st *ViewState, what string, err error, fallback string) bool {
	level := slog.LevelWarn
	if errors.Is(err, apperror.ErrMissingToken) {
		level = slog.LevelInfo
	}
	s.logger.Log(context.Background(), level, "contributor request failed",
		slog.String("call", what),
		slog.String("error", err.Error()),
	)
	st.PushToast(view.Error(apperror.MessageOr(err, fallback)))
	return errors.Is(err, apperror.ErrUnauthorized)
}

func statsCard(p *backend.Profile) StatsCard {
	rank, next := view.ResolveRank(p.Stats)
	return StatsCard{
		Coins:        view.NonNegative(p.Stats.Coins),
		XP:           view.NonNegative(p.Stats.XP),
		PublicRepos:  view.NonNegative(p.Profile.PublicRepos),
		ActiveStakes: view.NonNegative(p.Stats.ActiveBounties),
		MergedPRs:    view.NonNegative(p.Stats.MergedPRs),
		Rank:         rank,
		RankColor:    view.RankColor(rank),
		Progress:     view.ProgressFor(p.Stats.XP, next),
	}
}

func profileCard(p model.UserProfile) ProfileCard {
	card := ProfileCard{
		Name:        firstNonEmpty(p.Name, p.Login),
		Login:       p.Login,
		Bio:         firstNonEmpty(p.Bio, "No bio available"),
		Location:    firstNonEmpty(p.Location, "Remote"),
		AvatarURL:   p.AvatarURL,
		PublicRepos: view.NonNegative(p.PublicRepos),
		Followers:   view.NonNegative(p.Followers),
		Following:   view.NonNegative(p.Following),
		Links: SocialLinks{
			GitHub:  p.HTMLURL,
			Website: p.Blog,
		},
	}
	if p.TwitterUsername != "" {
		card.Links.Twitter = "https://twitter.com/" + p.TwitterUsername
	}
	return card
}

// welcomeName is the name in the dashboard greeting.
func welcomeName(p *model.UserProfile) string {
	if p == nil {
		return "User"
	}
	return firstNonEmpty(p.Name, p.Login, "User")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

package service

import (
	"context"
	"log/slog"

	"github.com/sakif/pullquest-dashboard/internal/github"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/view"
)

// MaintainerService backs the maintainer dashboard.
type MaintainerService struct {
	repos  github.RepoLister
	logger *slog.Logger
}

func NewMaintainerService(repos github.RepoLister, logger *slog.Logger) *MaintainerService {
	return &MaintainerService{repos: repos, logger: logger}
}

// MaintainerDashboard lists the maintainer's GitHub repositories.
type MaintainerDashboard struct {
	Username     string                         `json:"username"`
	Repositories view.Slice[[]model.GitHubRepo] `json:"repositories"`
	Languages    []view.LanguageShare           `json:"languages"`
	TotalStars   int                            `json:"totalStars"`
}

// Dashboard lists the repositories of the session's GitHub user with the
// session's access token. A GitHub failure is logged and leaves the list
// failed; the page still renders.
func (s *MaintainerService) Dashboard(ctx context.Context, sess model.Session) *MaintainerDashboard {
	d := &MaintainerDashboard{Username: sess.GitHubUsername}
	if sess.GitHubUsername == "" {
		d.Repositories = view.Failed[[]model.GitHubRepo]("No GitHub account linked")
		return d
	}

	repos, err := s.repos.ListUserRepos(ctx, sess.GitHubUsername, sess.AccessToken)
	if err != nil {
		s.logger.Warn("fetching maintainer repositories",
			slog.String("username", sess.GitHubUsername),
			slog.String("error", err.Error()),
		)
		d.Repositories = view.Failed[[]model.GitHubRepo]("Could not load repositories from GitHub")
		return d
	}

	sorted := view.SortByStars(repos)
	for _, r := range sorted {
		d.TotalStars += view.NonNegative(r.StargazersCount)
	}
	d.Repositories = view.Loaded(sorted)
	d.Languages = view.TopLanguages(repos, view.TopLanguageCount)
	return d
}

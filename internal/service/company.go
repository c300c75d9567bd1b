package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/view"
)

// ContributorLister lists the public contributor directory.
type ContributorLister interface {
	Contributors(ctx context.Context) ([]model.Contributor, error)
}

// CompanyService backs the hiring dashboard.
type CompanyService struct {
	lister ContributorLister
	views  *ViewStore
	logger *slog.Logger
}

func NewCompanyService(lister ContributorLister, views *ViewStore, logger *slog.Logger) *CompanyService {
	return &CompanyService{lister: lister, views: views, logger: logger}
}

// Directory is the company dashboard: stats over every contributor and
// the filtered rows.
type Directory struct {
	Filters      view.DirectoryFilters `json:"filters"`
	Stats        view.DirectoryStats   `json:"stats"`
	Contributors []model.Contributor   `json:"contributors"`
	Shown        int                   `json:"shown"`
	Total        int                   `json:"total"`
	Ranks        []string              `json:"ranks"`
}

// Directory fetches the contributor list and applies filters. A failed
// fetch yields an empty directory and a toast.
func (s *CompanyService) Directory(ctx context.Context, sess model.Session, filters view.DirectoryFilters) *Directory {
	users, err := s.lister.Contributors(ctx)
	if err != nil {
		s.logger.Warn("fetching contributors", slog.String("error", err.Error()))
		s.views.Get(sess.ID).PushToast(view.Error(MsgContributorsFailed))
		users = nil
	}

	rows := view.FilterContributors(users, filters)
	return &Directory{
		Filters:      filters,
		Stats:        view.DirectoryStatsFor(users),
		Contributors: rows,
		Shown:        len(rows),
		Total:        len(users),
		Ranks:        view.RankNames(),
	}
}

// Contributor returns one directory entry by username, case-insensitively.
func (s *CompanyService) Contributor(ctx context.Context, username string) (*model.Contributor, error) {
	users, err := s.lister.Contributors(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i], nil
		}
	}
	return nil, apperror.NotFound("contributor", username)
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/service"
	"github.com/sakif/pullquest-dashboard/internal/view"
)

// CompanyHandler serves the hiring dashboard.
type CompanyHandler struct {
	companies *service.CompanyService
	pages     *Renderer
	logger    *slog.Logger
}

func NewCompanyHandler(companies *service.CompanyService, pages *Renderer, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{companies: companies, pages: pages, logger: logger}
}

// HandleDashboard renders the contributor directory. Filters come from the
// query string so a filtered view can be bookmarked.
//
// HTTP: GET /company/dashboard?q=&sort=desc|asc&rank=&status=all|active|inactive
func (h *CompanyHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	filters := view.ParseDirectoryFilters(r.URL.Query())
	directory := h.companies.Directory(r.Context(), sess, filters)
	h.pages.Render(w, http.StatusOK, "company_dashboard", Page{
		Title:   "Company Dashboard",
		Session: &sess,
		Data:    directory,
	})
}

// HandleContributor renders one contributor's card.
//
// HTTP: GET /company/contributors/{username}
func (h *CompanyHandler) HandleContributor(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	username := chi.URLParam(r, "username")
	contributor, err := h.companies.Contributor(r.Context(), username)
	if err != nil {
		status, _ := statusFor(err)
		if errors.Is(err, apperror.ErrNotFound) {
			h.pages.Message(w, status, &sess, "Contributor not found", "No contributor named "+username+".")
			return
		}
		h.logger.Warn("fetching contributor",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		h.pages.Message(w, status, &sess, "Contributor unavailable", service.MsgContributorsFailed)
		return
	}

	h.pages.Render(w, http.StatusOK, "company_contributor", Page{
		Title:   contributor.Name,
		Session: &sess,
		Data:    contributor,
	})
}

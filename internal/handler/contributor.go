package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/service"
)

// ContributorHandler serves every /contributor page.
//
// A backend 401 on any page invalidates the session in the same response
// that shows the "Session expired" toast; the page still renders and the
// next navigation goes through the guard to /login.
type ContributorHandler struct {
	contributors *service.ContributorService
	auth         *service.AuthService
	sessions     Sessions
	pages        *Renderer
	logger       *slog.Logger
}

func NewContributorHandler(
	contributors *service.ContributorService,
	authService *service.AuthService,
	sessions Sessions,
	pages *Renderer,
	logger *slog.Logger,
) *ContributorHandler {
	return &ContributorHandler{
		contributors: contributors,
		auth:         authService,
		sessions:     sessions,
		pages:        pages,
		logger:       logger,
	}
}

// HandleDashboard renders the dashboard tab named by ?tab=.
//
// HTTP: GET /contributor/dashboard?tab=overview|repositories|issues|stakes
func (h *ContributorHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	h.renderDashboard(w, r, sess, parseTab(r.URL.Query().Get("tab")), http.StatusOK)
}

func (h *ContributorHandler) renderDashboard(w http.ResponseWriter, r *http.Request, sess model.Session, tab string, status int) {
	overview := h.contributors.Overview(r.Context(), sess)

	p := Page{Title: "Contributor Dashboard", Session: &sess, Tab: tab, Data: overview}
	if overview.Unauthorized {
		expire(w, r, h.sessions, h.pages, h.logger, &p)
	}
	h.pages.Render(w, status, "contributor_dashboard", p)
}

// HandleAnalyze runs the repository analysis.
//
// HTTP: POST /contributor/analyze
//
// On success the browser is redirected (303) to the repositories tab, so a
// reload does not resubmit. A second submission while one is running is
// answered 409 with the repositories tab and its "in progress" toast.
func (h *ContributorHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	err := h.contributors.Analyze(r.Context(), sess)
	switch {
	case errors.Is(err, apperror.ErrConflict):
		h.renderDashboard(w, r, sess, "repositories", http.StatusConflict)
		return
	case errors.Is(err, apperror.ErrUnauthorized):
		h.expireAndLogin(w, r, sess)
		return
	}
	// Other failures have queued their toast for the next page.
	http.Redirect(w, r, "/contributor/dashboard?tab=repositories", http.StatusSeeOther)
}

// HandleRefreshIssues reloads the suggested issues.
//
// HTTP: POST /contributor/issues/refresh
func (h *ContributorHandler) HandleRefreshIssues(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.contributors.RefreshSuggestedIssues(r.Context(), sess); errors.Is(err, apperror.ErrUnauthorized) {
		h.expireAndLogin(w, r, sess)
		return
	}
	http.Redirect(w, r, "/contributor/dashboard?tab=issues", http.StatusSeeOther)
}

// expireAndLogin handles a 401 on a form post. There is no page to carry
// the toast, so the login page explains instead.
func (h *ContributorHandler) expireAndLogin(w http.ResponseWriter, r *http.Request, sess model.Session) {
	if err := h.sessions.Invalidate(r.Context(), w, sess.ID); err != nil {
		h.logger.Error("invalidating rejected session",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}
	http.Redirect(w, r, model.LoginPath+"?session=expired", http.StatusSeeOther)
}

// HandleProfile renders the profile page.
//
// HTTP: GET /contributor/profile
func (h *ContributorHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	page := h.contributors.ProfilePage(r.Context(), sess)
	p := Page{Title: "Profile", Session: &sess, Data: page}
	if page.Unauthorized {
		expire(w, r, h.sessions, h.pages, h.logger, &p)
	}
	h.pages.Render(w, http.StatusOK, "contributor_profile", p)
}

// HandleSettings renders the session and account details.
//
// HTTP: GET /contributor/settings
func (h *ContributorHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	p := Page{Title: "Settings", Session: &sess}
	user, err := h.auth.GetUserByID(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Warn("settings: loading account",
			slog.String("user_id", sess.UserID),
			slog.String("error", err.Error()),
		)
	} else {
		p.Data = user
	}
	h.pages.Render(w, http.StatusOK, "contributor_settings", p)
}

// HandleIssue renders one suggested issue.
//
// HTTP: GET /contributor/issue/{id}
func (h *ContributorHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	issue, err := h.contributors.SuggestedIssue(sess, chi.URLParam(r, "id"))
	if err != nil {
		status, _ := statusFor(err)
		h.pages.Message(w, status, &sess, "Issue not found",
			"This issue is not among your suggestions. Analyze your repositories or refresh the list.")
		return
	}
	h.pages.Render(w, http.StatusOK, "contributor_issue", Page{Title: issue.Title, Session: &sess, Data: issue})
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/service"
	"github.com/sakif/pullquest-dashboard/internal/view"
)

// APIHandler serves the JSON surface under /api. Toasts a call produces are
// returned in the response instead of waiting for the next page.
type APIHandler struct {
	contributors *service.ContributorService
	sessions     Sessions
	views        *service.ViewStore
	logger       *slog.Logger
}

func NewAPIHandler(contributors *service.ContributorService, sessions Sessions, views *service.ViewStore, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		contributors: contributors,
		sessions:     sessions,
		views:        views,
		logger:       logger,
	}
}

// MeResponse describes the current session.
type MeResponse struct {
	SessionID      string     `json:"sessionId"`
	UserID         string     `json:"userId"`
	Role           model.Role `json:"role"`
	GitHubUsername string     `json:"githubUsername"`
	Dashboard      string     `json:"dashboard"`
	ExpiresAt      time.Time  `json:"expiresAt"`
}

// HandleMe returns the current session's identity.
//
// HTTP: GET /api/me (any role)
func (h *APIHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{
		SessionID:      sess.ID,
		UserID:         sess.UserID,
		Role:           sess.Role,
		GitHubUsername: sess.GitHubUsername,
		Dashboard:      sess.Role.DashboardPath(),
		ExpiresAt:      sess.ExpiresAt,
	})
}

// OverviewResponse is the contributor overview with its toasts.
type OverviewResponse struct {
	*service.Overview
	Toasts []view.Toast `json:"toasts"`
}

// HandleOverview returns the contributor overview view model.
//
// HTTP: GET /api/contributor/overview
//
// A backend 401 invalidates the session and answers 401; a JSON client has
// no page to show the toast on.
func (h *APIHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	overview := h.contributors.Overview(r.Context(), sess)
	if overview.Unauthorized {
		h.invalidate(w, r, sess)
		writeError(w, apperror.Unauthorized())
		return
	}

	writeJSON(w, http.StatusOK, OverviewResponse{
		Overview: overview,
		Toasts:   h.takeToasts(sess),
	})
}

// StateResponse is the contributor's stored dashboard state.
type StateResponse struct {
	service.ContributorState
	Toasts []view.Toast `json:"toasts"`
}

// HandleAnalyze runs the repository analysis and returns the new state.
//
// HTTP: POST /api/contributor/analyze
func (h *APIHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.contributors.Analyze(r.Context(), sess); err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			h.invalidate(w, r, sess)
		} else {
			// The error body carries the message already.
			h.takeToasts(sess)
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StateResponse{
		ContributorState: h.contributors.State(sess),
		Toasts:           h.takeToasts(sess),
	})
}

// HandleHealth reports liveness.
//
// HTTP: GET /healthz
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) takeToasts(sess model.Session) []view.Toast {
	toasts := h.views.Get(sess.ID).TakeToasts()
	if toasts == nil {
		toasts = []view.Toast{}
	}
	return toasts
}

func (h *APIHandler) invalidate(w http.ResponseWriter, r *http.Request, sess model.Session) {
	if err := h.sessions.Invalidate(r.Context(), w, sess.ID); err != nil {
		h.logger.Error("invalidating rejected session",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}
}

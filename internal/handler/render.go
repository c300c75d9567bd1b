// Package handler contains the HTTP handlers of the dashboard.
//
// HANDLER RESPONSIBILITIES:
//  1. Read the session the guard placed in the request context
//  2. Parse the request (query, path params, form posts)
//  3. Call the service layer, passing the session by value
//  4. Render a page or write JSON
//
// Handlers hold no business logic. Pages are server-rendered from the
// embedded templates of package web; /api endpoints answer JSON.
package handler

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/service"
	"github.com/sakif/pullquest-dashboard/internal/session"
	"github.com/sakif/pullquest-dashboard/internal/view"
	"github.com/sakif/pullquest-dashboard/web"
)

// Page is the data every template receives. Data holds the page's own
// view model.
type Page struct {
	Title   string
	Session *model.Session
	Toasts  []view.Toast
	Tab     string
	Notice  string
	Data    any
}

// Tab is one contributor dashboard tab.
type Tab struct {
	ID    string
	Label string
}

var contributorTabs = []Tab{
	{ID: "overview", Label: "Overview"},
	{ID: "repositories", Label: "Repositories"},
	{ID: "issues", Label: "Suggested Issues"},
	{ID: "stakes", Label: "My Stakes"},
}

// parseTab returns the requested tab, or overview for anything unknown.
func parseTab(s string) string {
	for _, t := range contributorTabs {
		if t.ID == s {
			return s
		}
	}
	return contributorTabs[0].ID
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"tabs": func() []Tab { return contributorTabs },
		"deref": func(s *string, fallback string) string {
			if s == nil || *s == "" {
				return fallback
			}
			return *s
		},
		"difficultyColor": view.DifficultyColor,
		"languageColor":   view.LanguageColor,
		"rankColor":       view.RankColor,
		"contributorRank": view.ContributorRank,
		"join":            strings.Join,
	}
}

// Renderer executes page templates. Templates are parsed once at startup
// and reused for every request.
type Renderer struct {
	pages  map[string]*template.Template
	views  *service.ViewStore
	logger *slog.Logger
}

// NewRenderer parses the embedded templates. views supplies the pending
// toasts of the session a page is rendered for.
func NewRenderer(views *service.ViewStore, logger *slog.Logger) (*Renderer, error) {
	pages, err := web.ParsePages(templateFuncs())
	if err != nil {
		return nil, fmt.Errorf("handler: parsing templates: %w", err)
	}
	return &Renderer{pages: pages, views: views, logger: logger}, nil
}

// TakeToasts returns and clears the pending toasts of a session.
func (rn *Renderer) TakeToasts(sessionID string) []view.Toast {
	return rn.views.Get(sessionID).TakeToasts()
}

// Render writes page name with status. Pages rendered for a session show
// and consume its pending toasts unless p already carries toasts.
//
// The page is rendered into a buffer first so a template error still
// produces a clean 500 instead of half a page.
func (rn *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) {
	if p.Session != nil && p.Toasts == nil {
		p.Toasts = rn.TakeToasts(p.Session.ID)
	}

	tmpl, ok := rn.pages[name]
	if !ok {
		rn.logger.Error("unknown page template", slog.String("page", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", p); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Message renders the generic message page.
func (rn *Renderer) Message(w http.ResponseWriter, status int, sess *model.Session, title, notice string) {
	rn.Render(w, status, "message", Page{Title: title, Session: sess, Notice: notice})
}

// Sessions is the part of *session.Provider the handlers use.
type Sessions interface {
	Login(ctx context.Context, w http.ResponseWriter, params session.LoginParams) (*model.Session, error)
	Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	Invalidate(ctx context.Context, w http.ResponseWriter, sessionID string) error
}

// sessionFrom returns the session the guard admitted. Routes are always
// mounted behind guard.PrivateRoute, so a miss means a wiring bug; the
// visitor is sent to the login page.
func sessionFrom(w http.ResponseWriter, r *http.Request) (model.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, model.LoginPath, http.StatusFound)
	}
	return sess, ok
}

// expire invalidates a session the backend rejected. The session's toasts
// are moved onto p first, because invalidation drops its view state; the
// page then renders without the session.
func expire(w http.ResponseWriter, r *http.Request, sessions Sessions, pages *Renderer, logger *slog.Logger, p *Page) {
	if p.Session == nil {
		return
	}
	id := p.Session.ID
	p.Toasts = pages.TakeToasts(id)
	p.Session = nil

	if err := sessions.Invalidate(r.Context(), w, id); err != nil {
		logger.Error("invalidating rejected session",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
	}
}

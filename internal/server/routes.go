package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sakif/pullquest-dashboard/internal/guard"
	"github.com/sakif/pullquest-dashboard/internal/handler"
	"github.com/sakif/pullquest-dashboard/internal/middleware"
	"github.com/sakif/pullquest-dashboard/internal/model"
)

// Handlers groups the handlers NewRouter mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Contributor *handler.ContributorHandler
	Company     *handler.CompanyHandler
	Maintainer  *handler.MaintainerHandler
	API         *handler.APIHandler
}

// NewRouter builds the route table.
//
// ROUTE STRUCTURE:
//
//	GET  /healthz                      → liveness (public)
//	GET  /                             → guest: /login, signed in: own dashboard
//	GET  /login, /signup               → guest only
//	GET  /auth/github/login|callback   → OAuth flow (public)
//	POST /logout                       → public, clears whatever session exists
//	     /contributor/*                → contributor only
//	     /company/*                    → company only
//	     /maintainer/*                 → maintainer only
//	     /api/*                        → CORS; /api/me any role, /api/contributor/* contributor only
//
// MIDDLEWARE ORDER:
// RequestID → RealIP → Logger → Recoverer, so a recovered panic is still
// logged as a 500 with its request ID.
func NewRouter(res guard.Resolver, h Handlers, corsOrigins []string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handler.HandleHealth)

	// The root page is not a page of its own: Guest redirects signed-in
	// users to their dashboard, everyone else lands on the login page.
	r.With(guard.GuestRoute(res)).Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, model.LoginPath, http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.GuestRoute(res))
		r.Get("/login", h.Auth.HandleLogin)
		r.Get("/signup", h.Auth.HandleSignup)
	})

	r.Get("/auth/github/login", h.Auth.HandleGitHubLogin)
	r.Get("/auth/github/callback", h.Auth.HandleGitHubCallback)
	r.Post("/logout", h.Auth.HandleLogout)

	r.Route("/contributor", func(r chi.Router) {
		r.Use(guard.PrivateRoute(res, model.RoleContributor))
		r.Get("/dashboard", h.Contributor.HandleDashboard)
		r.Post("/analyze", h.Contributor.HandleAnalyze)
		r.Post("/issues/refresh", h.Contributor.HandleRefreshIssues)
		r.Get("/profile", h.Contributor.HandleProfile)
		r.Get("/settings", h.Contributor.HandleSettings)
		r.Get("/issue/{id}", h.Contributor.HandleIssue)
	})

	r.Route("/company", func(r chi.Router) {
		r.Use(guard.PrivateRoute(res, model.RoleCompany))
		r.Get("/dashboard", h.Company.HandleDashboard)
		r.Get("/contributors/{username}", h.Company.HandleContributor)
	})

	r.Route("/maintainer", func(r chi.Router) {
		r.Use(guard.PrivateRoute(res, model.RoleMaintainer))
		r.Get("/dashboard", h.Maintainer.HandleDashboard)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler)

		r.With(guard.PrivateRoute(res)).Get("/me", h.API.HandleMe)

		r.Group(func(r chi.Router) {
			r.Use(guard.PrivateRoute(res, model.RoleContributor))
			r.Get("/contributor/overview", h.API.HandleOverview)
			r.Post("/contributor/analyze", h.API.HandleAnalyze)
		})
	})

	return r
}

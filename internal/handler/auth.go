package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rs/xid"
	"github.com/sakif/pullquest-dashboard/internal/auth"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/service"
)

const (
	stateCookie = "oauth_state"
	roleCookie  = "oauth_role"

	// oauthCookieMaxAge bounds how long the user may take on GitHub's
	// consent page.
	oauthCookieMaxAge = 600
)

// OAuthProvider is the part of *auth.GitHubProvider the login flow uses.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubLogin, error)
}

// AuthHandler manages the guest pages and the GitHub OAuth login flow.
//
//   - HandleLogin, HandleSignup → role picker
//   - HandleGitHubLogin         → redirect to GitHub's authorization page
//   - HandleGitHubCallback      → exchange the code, create the session
//   - HandleLogout              → clear the session
type AuthHandler struct {
	github   OAuthProvider
	auth     *service.AuthService
	sessions Sessions
	pages    *Renderer
	logger   *slog.Logger
	secure   bool
}

func NewAuthHandler(
	github OAuthProvider,
	authService *service.AuthService,
	sessions Sessions,
	pages *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		github:   github,
		auth:     authService,
		sessions: sessions,
		pages:    pages,
		logger:   logger,
	}
}

// WithSecureCookies marks the OAuth cookies Secure.
func (h *AuthHandler) WithSecureCookies(secure bool) *AuthHandler {
	h.secure = secure
	return h
}

// HandleLogin renders the login page.
//
// HTTP: GET /login (guest only)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, http.StatusOK, "login", Page{
		Title:  "Log in",
		Tab:    "login",
		Notice: loginNotice(r),
		Data:   model.Roles(),
	})
}

// HandleSignup renders the signup page. Signing up and logging in are the
// same GitHub flow; the first login creates the account.
//
// HTTP: GET /signup (guest only)
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, http.StatusOK, "login", Page{
		Title:  "Sign up",
		Tab:    "signup",
		Notice: loginNotice(r),
		Data:   model.Roles(),
	})
}

func loginNotice(r *http.Request) string {
	q := r.URL.Query()
	switch {
	case q.Get("session") == "expired":
		return "Your session expired. Please log in again."
	case q.Get("auth") == "denied":
		return "GitHub authorization was cancelled."
	default:
		return ""
	}
}

// HandleGitHubLogin redirects the user to GitHub's authorization page.
//
// HTTP: GET /auth/github/login?role=contributor
//
// CSRF PROTECTION VIA STATE:
// A random state value goes into a short-lived HttpOnly cookie and into the
// authorization URL; the callback only proceeds when both match. The chosen
// role travels the same way so the callback knows which dashboard to open.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	role, err := model.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		h.logger.Warn("github login: invalid role", slog.String("role", r.URL.Query().Get("role")))
		h.pages.Message(w, http.StatusBadRequest, nil, "Unknown role", "Choose a role on the login page to continue.")
		return
	}

	state := xid.New().String()
	h.setOAuthCookie(w, stateCookie, state)
	h.setOAuthCookie(w, roleCookie, string(role))

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth login flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for the GitHub user and access token
//  3. Upsert the local user under the chosen role
//  4. Create the session and set the session cookie
//  5. Redirect to the role's dashboard
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	// --- Step 1: Validate CSRF state ---
	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		h.pages.Message(w, http.StatusBadRequest, nil, "Login failed", "Invalid OAuth state. Please try again.")
		return
	}
	if r.URL.Query().Get("state") != state.Value {
		h.logger.Warn("auth callback: state mismatch",
			slog.String("expected", state.Value),
			slog.String("got", r.URL.Query().Get("state")),
		)
		h.pages.Message(w, http.StatusBadRequest, nil, "Login failed", "Invalid OAuth state. Please try again.")
		return
	}

	roleValue := ""
	if c, err := r.Cookie(roleCookie); err == nil {
		roleValue = c.Value
	}

	// Both cookies are single-use.
	h.clearOAuthCookie(w, stateCookie)
	h.clearOAuthCookie(w, roleCookie)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, model.LoginPath+"?auth=denied", http.StatusSeeOther)
		return
	}

	role, err := model.ParseRole(roleValue)
	if err != nil {
		h.logger.Warn("auth callback: missing or invalid role", slog.String("role", roleValue))
		h.pages.Message(w, http.StatusBadRequest, nil, "Login failed", "Choose a role on the login page to continue.")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.pages.Message(w, http.StatusBadRequest, nil, "Login failed", "Missing OAuth code.")
		return
	}

	// --- Step 2: Exchange code for the GitHub identity ---
	login, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		h.pages.Message(w, http.StatusBadGateway, nil, "Login failed", "GitHub authentication failed. Please try again.")
		return
	}

	// --- Step 3: Upsert the local user ---
	result, err := h.auth.LoginOrRegisterGitHub(r.Context(), login, role)
	if err != nil {
		h.logger.Error("auth callback: login failed", slog.String("error", err.Error()))
		h.pages.Message(w, http.StatusInternalServerError, nil, "Login failed", "Authentication failed. Please try again.")
		return
	}

	// --- Step 4: Create the session and its cookie ---
	sess, err := h.sessions.Login(r.Context(), w, result.Session)
	if err != nil {
		h.logger.Error("auth callback: creating session failed", slog.String("error", err.Error()))
		h.pages.Message(w, http.StatusInternalServerError, nil, "Login failed", "Authentication failed. Please try again.")
		return
	}

	// --- Step 5: Redirect to the dashboard ---
	http.Redirect(w, r, sess.Role.DashboardPath(), http.StatusSeeOther)
}

// HandleLogout clears the session and returns to the login page.
//
// HTTP: POST /logout
//
// Logout changes state, so it is POST only; a GET could be triggered by a
// prefetch or a cross-site image tag.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), w, r); err != nil {
		h.logger.Error("logout failed", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, model.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) setOAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   oauthCookieMaxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearOAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package model

import (
	"fmt"
	"time"
)

// Role is the kind of account a session belongs to. Every dashboard route is
// scoped to one or more roles.
type Role string

const (
	RoleContributor Role = "contributor"
	RoleMaintainer  Role = "maintainer"
	RoleCompany     Role = "company"
)

// LoginPath is where unauthenticated visitors and unrecognized roles end up.
const LoginPath = "/login"

// dashboardPaths is the single source of truth for role → landing page.
// Adding a Role without an entry here makes DashboardPath fall back to
// LoginPath instead of building a path out of an arbitrary string.
var dashboardPaths = map[Role]string{
	RoleContributor: "/contributor/dashboard",
	RoleMaintainer:  "/maintainer/dashboard",
	RoleCompany:     "/company/dashboard",
}

// Roles returns every known role in display order.
func Roles() []Role {
	return []Role{RoleContributor, RoleMaintainer, RoleCompany}
}

// ParseRole validates a role coming from user input (query string, cookie).
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := dashboardPaths[r]; !ok {
		return "", fmt.Errorf("model: unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := dashboardPaths[r]
	return ok
}

// DashboardPath returns the landing page for the role, or LoginPath for an
// unknown role.
func (r Role) DashboardPath() string {
	if p, ok := dashboardPaths[r]; ok {
		return p
	}
	return LoginPath
}

// Label is the capitalized role name used in header badges.
func (r Role) Label() string {
	switch r {
	case RoleContributor:
		return "Contributor"
	case RoleMaintainer:
		return "Maintainer"
	case RoleCompany:
		return "Company"
	default:
		return "Guest"
	}
}

// Session is the authenticated identity a dashboard request acts as.
//
// AccessToken is the bearer token sent to the PullQuest backend. Views never
// modify a Session; only the session provider creates and clears them.
type Session struct {
	ID             string    `json:"id"             db:"id"`
	UserID         string    `json:"userId"         db:"user_id"`
	Role           Role      `json:"role"           db:"role"`
	AccessToken    string    `json:"-"              db:"access_token"`
	GitHubUsername string    `json:"githubUsername" db:"github_username"`
	CreatedAt      time.Time `json:"createdAt"      db:"created_at"`
	ExpiresAt      time.Time `json:"expiresAt"      db:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

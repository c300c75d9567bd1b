// Package model defines the data structures used throughout the dashboard:
// local accounts and sessions, and the view-model shapes decoded from the
// PullQuest backend and the GitHub API.
package model

import "time"

// User represents a local account created on first GitHub login.
//
// GitHubID is GitHub's numeric user ID and is stable across username
// changes; the UNIQUE constraint on github_id maps one GitHub account to one
// local account. Role is the role chosen at the most recent login.
type User struct {
	ID        string    `json:"id"        db:"id"`
	GitHubID  int64     `json:"githubId"  db:"github_id"`
	Login     string    `json:"login"     db:"login"`
	Email     string    `json:"email"     db:"email"`
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"`
	Role      Role      `json:"role"      db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

package model

import "time"

// AnalyzedRepo is one of the contributor's repositories as classified by the
// backend analysis endpoint.
type AnalyzedRepo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"fullName"`
	Description     *string   `json:"description"`
	HTMLURL         string    `json:"htmlUrl"`
	Language        *string   `json:"language"`
	StargazersCount int       `json:"stargazersCount"`
	ForksCount      int       `json:"forksCount"`
	OpenIssuesCount int       `json:"openIssuesCount"`
	Topics          []string  `json:"topics"`
	IsPrivate       bool      `json:"isPrivate"`
	IsFork          bool      `json:"isFork"`
	UpdatedAt       time.Time `json:"updatedAt"`
	PushedAt        time.Time `json:"pushedAt"`
	HasIssues       bool      `json:"hasIssues"`
	IsContributable bool      `json:"isContributable"`
}

// RepoStats aggregates an analysis run.
type RepoStats struct {
	Total         int      `json:"total"`
	Contributable int      `json:"contributable"`
	Languages     []string `json:"languages"`
}

// Analysis is the full result of one repository analysis run.
type Analysis struct {
	Repositories    []AnalyzedRepo   `json:"repositories"`
	Stats           RepoStats        `json:"stats"`
	SuggestedIssues []SuggestedIssue `json:"suggestedIssues"`
}

// GitHubRepo is an entry of GitHub's GET /users/{username}/repos.
type GitHubRepo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     *string   `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Language        *string   `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

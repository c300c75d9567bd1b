package model

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// SuggestedIssue is a GitHub issue the backend recommends to a contributor,
// augmented with reward fields.
type SuggestedIssue struct {
	ID              int64           `json:"id"`
	Number          int             `json:"number"`
	Title           string          `json:"title"`
	Body            string          `json:"body"`
	Repository      IssueRepository `json:"repository"`
	Labels          []IssueLabel    `json:"labels"`
	Difficulty      Difficulty      `json:"difficulty"`
	Bounty          int             `json:"bounty"`
	XPReward        int             `json:"xpReward"`
	StakingRequired int             `json:"stakingRequired"`
	HTMLURL         string          `json:"htmlUrl"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type IssueRepository struct {
	Name            string `json:"name"`
	FullName        string `json:"fullName"`
	HTMLURL         string `json:"htmlUrl"`
	StargazersCount int    `json:"stargazersCount"`
	Language        string `json:"language"`
}

type IssueLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

package model

import "time"

// StakeStatus is set by the backend. The dashboard only reads and relabels
// it; values outside the constants below are possible and must render.
type StakeStatus string

const (
	StakePending  StakeStatus = "pending"
	StakeAccepted StakeStatus = "accepted"
	StakeRejected StakeStatus = "rejected"
	StakeExpired  StakeStatus = "expired"
)

// Stake is a coin deposit a contributor placed against an issue.
type Stake struct {
	ID          string      `json:"_id"`
	IssueID     int64       `json:"issueId"`
	Repository  string      `json:"repository"`
	Amount      int         `json:"amount"`
	Status      StakeStatus `json:"status"`
	PRURL       string      `json:"prUrl"`
	CoinsEarned *int        `json:"coinsEarned,omitempty"`
	XPEarned    *int        `json:"xpEarned,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

package view

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sakif/pullquest-dashboard/internal/model"
)

// StatusBadge is how a stake status is drawn: an icon name, the badge color
// classes and the label.
type StatusBadge struct {
	Icon       string `json:"icon"`
	ColorClass string `json:"colorClass"`
	Label      string `json:"label"`
}

var statusBadges = map[model.StakeStatus]StatusBadge{
	model.StakePending:  {Icon: "clock", ColorClass: "bg-yellow-100 text-yellow-800", Label: "Pending"},
	model.StakeAccepted: {Icon: "check-circle", ColorClass: "bg-green-100 text-green-800", Label: "Accepted"},
	model.StakeRejected: {Icon: "x-circle", ColorClass: "bg-red-100 text-red-800", Label: "Rejected"},
	model.StakeExpired:  {Icon: "alert-circle", ColorClass: "bg-gray-100 text-gray-800", Label: "Expired"},
}

// BadgeFor maps a backend status, in any letter case, to its badge.
// Unrecognized statuses get a gray clock badge labelled with the raw status.
func BadgeFor(status model.StakeStatus) StatusBadge {
	if b, ok := statusBadges[normalizeStatus(status)]; ok {
		return b
	}
	label := capitalize(string(status))
	if label == "" {
		label = "Unknown"
	}
	return StatusBadge{Icon: "clock", ColorClass: neutralBadge, Label: label}
}

// DifficultyColor returns the badge class for an issue difficulty.
func DifficultyColor(d model.Difficulty) string {
	switch d {
	case model.DifficultyBeginner:
		return "bg-green-100 text-green-800"
	case model.DifficultyIntermediate:
		return "bg-yellow-100 text-yellow-800"
	case model.DifficultyAdvanced:
		return "bg-red-100 text-red-800"
	default:
		return neutralBadge
	}
}

// StakeRow is a stake prepared for the stakes history list.
type StakeRow struct {
	ID          string      `json:"id"`
	Badge       StatusBadge `json:"badge"`
	Issue       string      `json:"issue"`
	IssueID     int64       `json:"issueId"`
	Repository  string      `json:"repository"`
	Owner       string      `json:"owner"`
	CoinsStaked int         `json:"coinsStaked"`
	CoinsGained int         `json:"coinsGained"`
	XPGained    int         `json:"xpGained"`
	PRURL       string      `json:"prUrl,omitempty"`
	CreatedOn   string      `json:"createdOn"`
	DateClosed  string      `json:"dateClosed,omitempty"`
	// Outcome is the one-line result, e.g. "+50 coins · +20 XP".
	Outcome string `json:"outcome"`
	// OutcomeClass colors Outcome: positive, negative or neutral.
	OutcomeClass string `json:"outcomeClass"`
}

const dateLayout = "Jan 2, 2006"

// FormatStakes turns backend stakes into rows, preserving list order.
func FormatStakes(stakes []model.Stake) []StakeRow {
	rows := make([]StakeRow, 0, len(stakes))
	for _, s := range stakes {
		rows = append(rows, FormatStake(s))
	}
	return rows
}

// FormatStake prepares a single stake row.
func FormatStake(s model.Stake) StakeRow {
	row := StakeRow{
		ID:          s.ID,
		Badge:       BadgeFor(s.Status),
		Issue:       fmt.Sprintf("Issue #%d", s.IssueID),
		IssueID:     s.IssueID,
		Repository:  s.Repository,
		Owner:       repoOwner(s.Repository),
		CoinsStaked: NonNegative(s.Amount),
		CoinsGained: NonNegative(deref(s.CoinsEarned)),
		XPGained:    NonNegative(deref(s.XPEarned)),
		PRURL:       s.PRURL,
		CreatedOn:   formatDate(s.CreatedAt),
	}

	switch normalizeStatus(s.Status) {
	case model.StakeAccepted:
		row.DateClosed = formatDate(s.UpdatedAt)
		row.Outcome = fmt.Sprintf("+%d coins · +%d XP", row.CoinsGained, row.XPGained)
		row.OutcomeClass = "text-green-700"
	case model.StakeRejected:
		row.Outcome = fmt.Sprintf("-%d coins", row.CoinsStaked)
		row.OutcomeClass = "text-red-700"
	case model.StakePending:
		row.Outcome = "Awaiting review"
		row.OutcomeClass = "text-neutral-500"
	default:
		row.OutcomeClass = "text-neutral-500"
	}
	return row
}

func normalizeStatus(status model.StakeStatus) model.StakeStatus {
	return model.StakeStatus(strings.ToLower(strings.TrimSpace(string(status))))
}

func repoOwner(fullName string) string {
	owner, _, _ := strings.Cut(fullName, "/")
	if owner == "" {
		return "unknown"
	}
	return owner
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

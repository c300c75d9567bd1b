package view

import (
	"testing"
	"time"

	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		status    model.StakeStatus
		wantIcon  string
		wantClass string
		wantLabel string
	}{
		{status: "pending", wantIcon: "clock", wantClass: "bg-yellow-100 text-yellow-800", wantLabel: "Pending"},
		{status: "accepted", wantIcon: "check-circle", wantClass: "bg-green-100 text-green-800", wantLabel: "Accepted"},
		{status: "rejected", wantIcon: "x-circle", wantClass: "bg-red-100 text-red-800", wantLabel: "Rejected"},
		{status: "expired", wantIcon: "alert-circle", wantClass: "bg-gray-100 text-gray-800", wantLabel: "Expired"},
		{status: "Accepted", wantIcon: "check-circle", wantClass: "bg-green-100 text-green-800", wantLabel: "Accepted"},
		{status: "PENDING", wantIcon: "clock", wantClass: "bg-yellow-100 text-yellow-800", wantLabel: "Pending"},
		{status: "disputed", wantIcon: "clock", wantClass: "bg-gray-100 text-gray-800", wantLabel: "Disputed"},
		{status: "", wantIcon: "clock", wantClass: "bg-gray-100 text-gray-800", wantLabel: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			var got StatusBadge
			assert.NotPanics(t, func() { got = BadgeFor(tt.status) })
			assert.Equal(t, tt.wantIcon, got.Icon)
			assert.Equal(t, tt.wantClass, got.ColorClass)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestFormatStake(t *testing.T) {
	coins, xp := 40, 25
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	closed := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("accepted", func(t *testing.T) {
		row := FormatStake(model.Stake{
			ID: "s1", IssueID: 42, Repository: "octo/widgets", Amount: 20,
			Status: "accepted", CoinsEarned: &coins, XPEarned: &xp,
			CreatedAt: created, UpdatedAt: closed,
		})
		assert.Equal(t, "Issue #42", row.Issue)
		assert.Equal(t, "octo", row.Owner)
		assert.Equal(t, 20, row.CoinsStaked)
		assert.Equal(t, 40, row.CoinsGained)
		assert.Equal(t, 25, row.XPGained)
		assert.Equal(t, "Mar 1, 2025", row.CreatedOn)
		assert.Equal(t, "Mar 4, 2025", row.DateClosed)
		assert.Equal(t, "+40 coins · +25 XP", row.Outcome)
	})

	t.Run("rejected shows forfeited amount", func(t *testing.T) {
		row := FormatStake(model.Stake{IssueID: 7, Repository: "solo", Amount: 15, Status: "Rejected"})
		assert.Equal(t, "-15 coins", row.Outcome)
		assert.Equal(t, "solo", row.Owner)
		assert.Empty(t, row.DateClosed)
	})

	t.Run("padded status", func(t *testing.T) {
		row := FormatStake(model.Stake{Status: " Accepted ", CoinsEarned: &coins, XPEarned: &xp, UpdatedAt: closed})
		assert.Equal(t, "Accepted", row.Badge.Label)
		assert.Equal(t, "+40 coins · +25 XP", row.Outcome)
		assert.Equal(t, "Mar 4, 2025", row.DateClosed)
	})

	t.Run("missing earnings render as zero", func(t *testing.T) {
		row := FormatStake(model.Stake{Status: "pending", Repository: "/nameless"})
		assert.Equal(t, 0, row.CoinsGained)
		assert.Equal(t, 0, row.XPGained)
		assert.Equal(t, "unknown", row.Owner)
		assert.Equal(t, "Awaiting review", row.Outcome)
	})

	t.Run("negative amounts are clamped", func(t *testing.T) {
		neg := -5
		row := FormatStake(model.Stake{Status: "accepted", Amount: -3, CoinsEarned: &neg, XPEarned: &neg})
		assert.Equal(t, 0, row.CoinsStaked)
		assert.Equal(t, 0, row.CoinsGained)
		assert.Equal(t, 0, row.XPGained)
	})
}

func TestFormatStakes_KeepsOrder(t *testing.T) {
	rows := FormatStakes([]model.Stake{{ID: "b"}, {ID: "a"}, {ID: "c"}})
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, "a", rows[1].ID)
	assert.Equal(t, "c", rows[2].ID)

	assert.NotNil(t, FormatStakes(nil))
}

func TestDifficultyColor(t *testing.T) {
	assert.Equal(t, "bg-green-100 text-green-800", DifficultyColor(model.DifficultyBeginner))
	assert.Equal(t, "bg-red-100 text-red-800", DifficultyColor(model.DifficultyAdvanced))
	assert.Equal(t, "bg-gray-100 text-gray-800", DifficultyColor("legendary"))
}

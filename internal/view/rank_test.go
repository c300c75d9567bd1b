package view

import (
	"testing"

	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRankFor(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{xp: -10, want: RankNovice},
		{xp: 0, want: RankNovice},
		{xp: 99, want: RankNovice},
		{xp: 100, want: RankApprentice},
		{xp: 499, want: RankApprentice},
		{xp: 500, want: RankContributor},
		{xp: 1499, want: RankContributor},
		{xp: 1500, want: RankMaster},
		{xp: 2999, want: RankMaster},
		{xp: 3000, want: RankExpert},
		{xp: 4999, want: RankExpert},
		{xp: 5000, want: RankLegend},
		{xp: 1_000_000, want: RankLegend},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RankFor(tt.xp), "RankFor(%d)", tt.xp)
	}
}

// Every non-negative XP value lands in exactly one band and bands never go
// backwards as XP grows.
func TestRankFor_MonotonicAndTotal(t *testing.T) {
	order := make(map[string]int)
	for i, name := range RankNames() {
		order[name] = i
	}

	prev := 0
	for xp := 0; xp <= 6000; xp++ {
		idx, ok := order[RankFor(xp)]
		if !ok {
			t.Fatalf("RankFor(%d) = %q, not a known rank", xp, RankFor(xp))
		}
		if idx < prev {
			t.Fatalf("RankFor(%d) went down from band %d to %d", xp, prev, idx)
		}
		prev = idx
	}
}

func TestNextThreshold(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{xp: 0, want: 100},
		{xp: 99, want: 100},
		{xp: 100, want: 500},
		{xp: 500, want: 1500},
		{xp: 1500, want: 3000},
		{xp: 3000, want: 5000},
		{xp: 4999, want: 5000},
		{xp: 5000, want: 5000},
		{xp: 12000, want: 5000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NextThreshold(tt.xp), "NextThreshold(%d)", tt.xp)
	}
}

func TestResolveRank(t *testing.T) {
	t.Run("backend values win", func(t *testing.T) {
		rank, next := ResolveRank(model.UserStats{XP: 50, Rank: "Code Master", NextRankXP: 3000})
		assert.Equal(t, "Code Master", rank)
		assert.Equal(t, 3000, next)
	})

	t.Run("missing values fall back to bands", func(t *testing.T) {
		rank, next := ResolveRank(model.UserStats{XP: 750})
		assert.Equal(t, RankContributor, rank)
		assert.Equal(t, 1500, next)
	})

	t.Run("only next threshold missing", func(t *testing.T) {
		rank, next := ResolveRank(model.UserStats{XP: 120, Rank: "Custom"})
		assert.Equal(t, "Custom", rank)
		assert.Equal(t, 500, next)
	})
}

func TestProgressFor(t *testing.T) {
	tests := []struct {
		name string
		xp   int
		next int
		want Progress
	}{
		{
			name: "halfway",
			xp:   250,
			next: 500,
			want: Progress{CurrentXP: 250, NextRankXP: 500, Remaining: 250, Percentage: 50, NextRank: RankContributor, Visible: true},
		},
		{
			name: "reached threshold hides bar",
			xp:   5000,
			next: 5000,
			want: Progress{CurrentXP: 5000, NextRankXP: 5000, NextRank: RankLegend},
		},
		{
			name: "past threshold hides bar",
			xp:   5200,
			next: 5000,
			want: Progress{CurrentXP: 5200, NextRankXP: 5000, NextRank: RankLegend},
		},
		{
			name: "negative xp renders as zero",
			xp:   -20,
			next: 100,
			want: Progress{CurrentXP: 0, NextRankXP: 100, Remaining: 120, Percentage: 0, NextRank: RankApprentice, Visible: true},
		},
		{
			name: "zero threshold hides bar",
			xp:   0,
			next: 0,
			want: Progress{NextRank: RankNovice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressFor(tt.xp, tt.next))
		})
	}
}

func TestRankColor(t *testing.T) {
	assert.Equal(t, "bg-orange-100 text-orange-800", RankColor(RankLegend))
	assert.Equal(t, "bg-gray-100 text-gray-800", RankColor("Galactic Overlord"))
}

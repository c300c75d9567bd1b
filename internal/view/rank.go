// Package view holds the pure presentation logic of the dashboards: rank
// bands, progress math, language shares, stake badges, directory filters and
// the tagged state each data slice is rendered from.
//
// Nothing in this package performs I/O; every function is safe to call from
// templates and tests.
package view

import "github.com/sakif/pullquest-dashboard/internal/model"

// Rank names, lowest first.
const (
	RankNovice      = "Code Novice"
	RankApprentice  = "Code Apprentice"
	RankContributor = "Code Contributor"
	RankMaster      = "Code Master"
	RankExpert      = "Code Expert"
	RankLegend      = "Open Source Legend"
)

// MaxThreshold is the lower bound of the top band. NextThreshold saturates
// here.
const MaxThreshold = 5000

type rankBand struct {
	min   int // inclusive
	max   int // exclusive, 0 for the open top band
	name  string
	color string
}

var rankBands = []rankBand{
	{min: 0, max: 100, name: RankNovice, color: "bg-gray-100 text-gray-800"},
	{min: 100, max: 500, name: RankApprentice, color: "bg-green-100 text-green-800"},
	{min: 500, max: 1500, name: RankContributor, color: "bg-blue-100 text-blue-800"},
	{min: 1500, max: 3000, name: RankMaster, color: "bg-purple-100 text-purple-800"},
	{min: 3000, max: 5000, name: RankExpert, color: "bg-yellow-100 text-yellow-800"},
	{min: 5000, max: 0, name: RankLegend, color: "bg-orange-100 text-orange-800"},
}

const neutralBadge = "bg-gray-100 text-gray-800"

func bandFor(xp int) rankBand {
	if xp < 0 {
		xp = 0
	}
	for _, b := range rankBands {
		if xp >= b.min && (b.max == 0 || xp < b.max) {
			return b
		}
	}
	return rankBands[len(rankBands)-1]
}

// RankFor maps XP to its rank. Bands are closed on the lower bound, so 100
// is already Code Apprentice. Negative XP counts as 0.
func RankFor(xp int) string {
	return bandFor(xp).name
}

// NextThreshold returns the upper bound of xp's band, or MaxThreshold for
// the top band.
func NextThreshold(xp int) int {
	b := bandFor(xp)
	if b.max == 0 {
		return MaxThreshold
	}
	return b.max
}

// RankNames lists every rank, lowest first.
func RankNames() []string {
	names := make([]string, 0, len(rankBands))
	for _, b := range rankBands {
		names = append(names, b.name)
	}
	return names
}

// RankColor returns the badge class for a rank name; unknown names get the
// neutral badge.
func RankColor(rank string) string {
	for _, b := range rankBands {
		if b.name == rank {
			return b.color
		}
	}
	return neutralBadge
}

// ResolveRank prefers the backend's rank and next threshold and falls back
// to the local bands for whichever one is missing.
func ResolveRank(stats model.UserStats) (rank string, nextRankXP int) {
	rank = stats.Rank
	if rank == "" {
		rank = RankFor(stats.XP)
	}
	nextRankXP = stats.NextRankXP
	if nextRankXP == 0 {
		nextRankXP = NextThreshold(stats.XP)
	}
	return rank, nextRankXP
}

// Progress is the XP progress bar toward the next rank.
type Progress struct {
	CurrentXP  int    `json:"currentXp"`
	NextRankXP int    `json:"nextRankXp"`
	Remaining  int    `json:"remaining"`
	Percentage int    `json:"percentage"`
	NextRank   string `json:"nextRank"`
	// Visible is false once the user has reached NextRankXP; the bar is not
	// rendered then.
	Visible bool `json:"visible"`
}

// ProgressFor computes the bar for xp out of nextRankXP. Percentage is
// clamped to [0, 100].
func ProgressFor(xp, nextRankXP int) Progress {
	p := Progress{
		CurrentXP:  NonNegative(xp),
		NextRankXP: NonNegative(nextRankXP),
		NextRank:   RankFor(nextRankXP),
	}
	remaining := nextRankXP - xp
	if remaining <= 0 || nextRankXP <= 0 {
		return p
	}
	p.Remaining = remaining
	p.Visible = true
	p.Percentage = clampPercent(100 * NonNegative(xp) / nextRankXP)
	return p
}

// NonNegative clamps n at zero for display.
func NonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func clampPercent(n int) int {
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	default:
		return n
	}
}

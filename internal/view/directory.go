package view

import (
	"math"
	"net/url"
	"slices"
	"strings"

	"github.com/sakif/pullquest-dashboard/internal/model"
)

// DirectoryFilters are the company directory's search and filter controls.
type DirectoryFilters struct {
	Search    string `json:"search"`
	SortOrder string `json:"sortOrder"` // "desc" or "asc", by XP
	Rank      string `json:"rank"`      // "all" or a rank name
	Status    string `json:"status"`    // "all", "active" or "inactive"
}

// ParseDirectoryFilters reads filters from a query string, replacing
// anything unrecognized with its default.
func ParseDirectoryFilters(q url.Values) DirectoryFilters {
	f := DirectoryFilters{
		Search:    strings.TrimSpace(q.Get("q")),
		SortOrder: "desc",
		Rank:      "all",
		Status:    "all",
	}
	if q.Get("sort") == "asc" {
		f.SortOrder = "asc"
	}
	if r := q.Get("rank"); slices.Contains(RankNames(), r) {
		f.Rank = r
	}
	switch s := q.Get("status"); s {
	case "active", "inactive":
		f.Status = s
	}
	return f
}

// FilterContributors applies f and returns a new, sorted slice.
func FilterContributors(users []model.Contributor, f DirectoryFilters) []model.Contributor {
	needle := strings.ToLower(f.Search)
	out := make([]model.Contributor, 0, len(users))
	for _, u := range users {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Username), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		if f.Rank != "" && f.Rank != "all" && ContributorRank(u) != f.Rank {
			continue
		}
		switch f.Status {
		case "active":
			if !u.IsActive {
				continue
			}
		case "inactive":
			if u.IsActive {
				continue
			}
		}
		out = append(out, u)
	}

	slices.SortStableFunc(out, func(a, b model.Contributor) int {
		if f.SortOrder == "asc" {
			return a.XP - b.XP
		}
		return b.XP - a.XP
	})
	return out
}

// ContributorRank trusts the backend's rank and derives one when missing.
func ContributorRank(u model.Contributor) string {
	if u.Rank != "" {
		return u.Rank
	}
	return RankFor(u.XP)
}

// DirectoryStats summarize the whole directory, before filtering.
type DirectoryStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	AverageXP int `json:"averageXp"`
}

func DirectoryStatsFor(users []model.Contributor) DirectoryStats {
	s := DirectoryStats{Total: len(users)}
	if len(users) == 0 {
		return s
	}
	sum := 0
	for _, u := range users {
		if u.IsActive {
			s.Active++
		}
		sum += NonNegative(u.XP)
	}
	s.AverageXP = int(math.Floor(float64(sum)/float64(len(users)) + 0.5))
	return s
}

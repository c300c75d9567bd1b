package view

import (
	"math"
	"slices"

	"github.com/sakif/pullquest-dashboard/internal/model"
)

// TopLanguageCount is how many languages the profile sidebar shows.
const TopLanguageCount = 5

// NeutralLanguageColor is used for languages missing from languageColors.
const NeutralLanguageColor = "#ccc"

var languageColors = map[string]string{
	"JavaScript": "#f1e05a",
	"Python":     "#3572A5",
	"TypeScript": "#2b7489",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
	"Java":       "#b07219",
	"C++":        "#f34b7d",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"Vue":        "#41b883",
	"React":      "#61dafb",
}

// LanguageShare is one entry of the "top languages" list.
type LanguageShare struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// LanguageColor returns the display color for a language.
func LanguageColor(name string) string {
	if c, ok := languageColors[name]; ok {
		return c
	}
	return NeutralLanguageColor
}

// TopLanguages counts each repository's primary language and returns the
// share of every language among repositories that have one, rounded half
// up, highest first, at most limit entries. Ties keep first-seen order.
func TopLanguages(repos []model.GitHubRepo, limit int) []LanguageShare {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, r := range repos {
		if r.Language == nil || *r.Language == "" {
			continue
		}
		lang := *r.Language
		if _, seen := counts[lang]; !seen {
			order = append(order, lang)
		}
		counts[lang]++
		total++
	}
	if total == 0 {
		return []LanguageShare{}
	}

	shares := make([]LanguageShare, 0, len(order))
	for _, lang := range order {
		shares = append(shares, LanguageShare{
			Name:       lang,
			Percentage: int(math.Floor(100*float64(counts[lang])/float64(total) + 0.5)),
			Color:      LanguageColor(lang),
		})
	}
	slices.SortStableFunc(shares, func(a, b LanguageShare) int {
		return b.Percentage - a.Percentage
	})
	if limit > 0 && len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}

// SortByStars returns a copy of repos ordered by star count, most starred
// first. The input is left untouched.
func SortByStars(repos []model.GitHubRepo) []model.GitHubRepo {
	sorted := slices.Clone(repos)
	slices.SortStableFunc(sorted, func(a, b model.GitHubRepo) int {
		return b.StargazersCount - a.StargazersCount
	})
	return sorted
}

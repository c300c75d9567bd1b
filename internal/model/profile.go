package model

// UserProfile is the GitHub-sourced identity returned by the backend profile
// endpoint. Field names follow GitHub's JSON.
type UserProfile struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	Username        string `json:"username,omitempty"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	Location        string `json:"location"`
	AvatarURL       string `json:"avatar_url"`
	HTMLURL         string `json:"html_url"`
	Blog            string `json:"blog"`
	TwitterUsername string `json:"twitter_username"`
	PublicRepos     int    `json:"public_repos"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
}

// UserStats are the gamification counters for a contributor.
//
// Rank and NextRankXP are optional: the zero value means the backend did not
// supply them and the view derives them from XP.
type UserStats struct {
	Coins          int    `json:"coins"`
	XP             int    `json:"xp"`
	Rank           string `json:"rank"`
	NextRankXP     int    `json:"nextRankXP"`
	Repositories   int    `json:"repositories"`
	MergedPRs      int    `json:"mergedPRs"`
	ActiveBounties int    `json:"activeBounties"`
}

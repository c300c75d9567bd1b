package model

// Contributor is one row of the company hiring directory.
type Contributor struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Avatar        string   `json:"avatar"`
	XP            int      `json:"xp"`
	Coins         int      `json:"coins"`
	Rank          string   `json:"rank"`
	IsActive      bool     `json:"isActive"`
	Languages     []string `json:"languages"`
	Contributions int      `json:"contributions"`
}

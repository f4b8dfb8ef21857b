package models

// LeaderboardEntry is one ranked row on the public leaderboard.
type LeaderboardEntry struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Score  int    `json:"score"`
}

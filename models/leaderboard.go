package models

// LeaderboardEntry — элемент упорядоченного набора очков турнира.
// Живёт только в кеше, графового аналога не имеет.
type LeaderboardEntry struct {
	TeamID string  `json:"teamId"`
	Score  float64 `json:"score"`
}

// LeaderboardRow is a leaderboard entry resolved against the graph data:
// TeamName falls back to "unknown" when the team id is present in the cache
// but absent from both the entries and the applications of the tournament.
type LeaderboardRow struct {
	TeamID   string  `json:"teamId"`
	TeamName string  `json:"teamName"`
	Score    float64 `json:"score"`
}

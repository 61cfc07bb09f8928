package models

// Player — узел :Player. Конвенционально playerId совпадает с username
// залогиненного пользователя (см. DESIGN.md).
type Player struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// Team — узел :Team. У команды в любой момент не более одного капитана.
type Team struct {
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
	Sport  string `json:"sport"`
}

// Host — проекция пользователя, хостящего турнир (ребро HOSTS|COHOSTS).
type Host struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

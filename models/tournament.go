package models

import "strings"

// TournamentStatus представляет статусы турнира.
type TournamentStatus string

const (
	StatusOpen     TournamentStatus = "Open"
	StatusLive     TournamentStatus = "Live"
	StatusFinished TournamentStatus = "Finished"
)

// Equals сравнивает статусы без учёта регистра: данные в графе приходят
// из разных источников и регистр не гарантирован.
func (s TournamentStatus) Equals(other string) bool {
	return strings.EqualFold(string(s), other)
}

// Tournament — узел :Tournament.
type Tournament struct {
	TournamentID string           `json:"tournamentId"`
	Name         string           `json:"name"`
	Sport        string           `json:"sport"`
	Status       TournamentStatus `json:"status"`
}

package models

// TournamentRelations — турнир вместе со всеми его рёбрами, собранными
// одним проходом по графу.
type TournamentRelations struct {
	Tournament
	Hosts        []Host               `json:"hosts"`
	EnteredTeams []Team               `json:"enteredTeams"`
	Applications []ApplicationSummary `json:"applications"`
}

// TournamentSummary — TournamentRelations плюс топ лидерборда из кеша.
type TournamentSummary struct {
	TournamentRelations
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

// HomeView is the aggregated home page: tournaments bucketed by status
// (case-insensitive) with a single global chat tail attached to the whole
// view.
type HomeView struct {
	Open       []TournamentSummary `json:"open"`
	Live       []TournamentSummary `json:"live"`
	Finished   []TournamentSummary `json:"finished"`
	GlobalChat []ChatMessage       `json:"globalChat"`
}

// TournamentView — детальное представление одного турнира с хвостом его
// собственного чат-канала.
type TournamentView struct {
	TournamentSummary
	Chat []ChatMessage `json:"chat"`
}

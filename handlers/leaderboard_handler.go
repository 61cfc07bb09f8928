package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourneymate/tourneymate/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// UpsertScore пишет очки команды в лидерборд турнира; последняя запись
// побеждает.
func (h *LeaderboardHandler) UpsertScore(w http.ResponseWriter, r *http.Request) {
	var input services.UpsertScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = chi.URLParam(r, "tournamentID")

	if err := h.leaderboardService.UpsertScore(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "score recorded"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	n := queryInt(r, "top", 0)

	entries, err := h.leaderboardService.Top(r.Context(), tournamentID, n)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

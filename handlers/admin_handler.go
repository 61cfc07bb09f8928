package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/services"
)

type AdminHandler struct {
	adminService       *services.AdminService
	tournamentService  *services.TournamentService
	leaderboardService *services.LeaderboardService
}

func NewAdminHandler(
	adminService *services.AdminService,
	tournamentService *services.TournamentService,
	leaderboardService *services.LeaderboardService,
) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		tournamentService:  tournamentService,
		leaderboardService: leaderboardService,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetRole меняет роль пользователя. Уже выданные сессии несут старый снапшот
// до перелогина.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var input struct {
		Role string `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	role, err := h.adminService.SetUserRole(r.Context(), username, input.Role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"username": username, "role": role}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) UpsertPlayer(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.UpsertPlayer(r.Context(), input.PlayerID, input.Name); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"playerId": input.PlayerID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) UpsertTeam(w http.ResponseWriter, r *http.Request) {
	var team models.Team
	if err := readJSON(w, r, &team); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.UpsertTeam(r.Context(), team); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// JoinTeam добавляет игрока в команду напрямую, минуя пользовательский поток.
func (h *AdminHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PlayerID string `json:"playerId"`
		TeamID   string `json:"teamId"`
		Captain  bool   `json:"captain"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.JoinTeam(r.Context(), input.PlayerID, input.TeamID, input.Captain); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "player joined team"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EnterTournament создаёт ребро ENTERS напрямую, минуя стадию заявки.
func (h *AdminHandler) EnterTournament(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamID       string `json:"teamId"`
		TournamentID string `json:"tournamentId"`
		Approved     bool   `json:"approved"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.EnterTournament(r.Context(), input.TeamID, input.TournamentID, input.Approved); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "team entered tournament"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Health проверяет обе зависимости и отдаёт счётчики графа. 503, если граф
// или кеш недоступны.
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	graphStatus := "ok"
	cacheStatus := "ok"

	var nodes, relationships int64
	if err := h.tournamentService.Ping(r.Context()); err != nil {
		graphStatus = err.Error()
		status = http.StatusServiceUnavailable
	} else if nodes, relationships, err = h.tournamentService.Counts(r.Context()); err != nil {
		// Пинг прошёл, а счётчики нет: нули рядом с "ok" вводили бы в
		// заблуждение, граф репортим деградировавшим.
		graphStatus = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.leaderboardService.Ping(r.Context()); err != nil {
		cacheStatus = err.Error()
		status = http.StatusServiceUnavailable
	}

	response := jsonResponse{
		"graph": jsonResponse{
			"status":        graphStatus,
			"nodes":         nodes,
			"relationships": relationships,
		},
		"cache": jsonResponse{
			"status": cacheStatus,
		},
	}
	if err := writeJSON(w, status, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

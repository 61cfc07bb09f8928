package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourneymate/tourneymate/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Home отдаёт домашнюю страницу: турниры по статусам с лидербордами и хвост
// глобального чата. ?top= и ?chat= подрезаются сервисом.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	topN := queryInt(r, "top", 0)
	chatN := queryInt(r, "chat", 0)

	view, err := h.dashboardService.Home(r.Context(), topN, chatN)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Tournament отдаёт представление одного турнира с его чат-каналом.
func (h *DashboardHandler) Tournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	topN := queryInt(r, "top", 0)
	chatN := queryInt(r, "chat", 0)

	view, err := h.dashboardService.TournamentDetail(r.Context(), tournamentID, topN, chatN)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

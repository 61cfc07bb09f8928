package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourneymate/tourneymate/middleware"
	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/services"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// Apply подаёт заявку команды на турнир. Вызывающий должен быть капитаном.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "missing or invalid authorization header")
		return
	}

	tournamentID := chi.URLParam(r, "tournamentID")

	var input struct {
		TeamID string `json:"teamId"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.applicationService.Apply(r.Context(), identity, input.TeamID, tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"status": "Pending"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List возвращает заявки турнира. По умолчанию только Pending,
// ?status=approved|rejected|pending|all меняет фильтр.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "missing or invalid authorization header")
		return
	}

	tournamentID := chi.URLParam(r, "tournamentID")
	statusFilter := r.URL.Query().Get("status")

	apps, err := h.applicationService.ListApplications(r.Context(), identity, tournamentID, statusFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ApplicationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.applicationService.Approve, "Approved")
}

func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.applicationService.Reject, "Rejected")
}

type reviewFunc func(ctx context.Context, caller models.Identity, tournamentID, teamID string) error

func (h *ApplicationHandler) review(w http.ResponseWriter, r *http.Request, verdict reviewFunc, status string) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "missing or invalid authorization header")
		return
	}

	tournamentID := chi.URLParam(r, "tournamentID")
	teamID := chi.URLParam(r, "teamID")

	if err := verdict(r.Context(), identity, tournamentID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": status}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

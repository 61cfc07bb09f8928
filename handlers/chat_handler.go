package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourneymate/tourneymate/middleware"
	"github.com/tourneymate/tourneymate/services"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type sendMessageInput struct {
	Text string `json:"text"`
}

func (h *ChatHandler) SendGlobal(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "missing or invalid authorization header")
		return
	}

	var input sendMessageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	msg, err := h.chatService.SendGlobal(r.Context(), identity, input.Text)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"message": msg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChatHandler) SendTournament(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "missing or invalid authorization header")
		return
	}

	tournamentID := chi.URLParam(r, "tournamentID")

	var input sendMessageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	msg, err := h.chatService.SendTournament(r.Context(), identity, tournamentID, input.Text)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"message": msg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGlobal отдаёт хвост глобального канала, oldest-first.
func (h *ChatHandler) GetGlobal(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", 0)

	messages, err := h.chatService.GetGlobal(r.Context(), count)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"messages": messages}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChatHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	count := queryInt(r, "count", 0)

	messages, err := h.chatService.GetTournament(r.Context(), tournamentID, count)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"messages": messages}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tourneymate/tourneymate/chat"
	"github.com/tourneymate/tourneymate/repositories"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin.
		return true
	},
}

type WebSocketHandler struct {
	hub *chat.Hub
}

func NewWebSocketHandler(hub *chat.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeGlobal подписывает соединение на глобальный чат-канал.
func (h *WebSocketHandler) ServeGlobal(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, repositories.ChatGlobalChannel)
}

// ServeTournament подписывает соединение на чат-канал турнира.
func (h *WebSocketHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	if tournamentID == "" {
		http.Error(w, "Missing tournamentID", http.StatusBadRequest)
		return
	}
	h.serve(w, r, repositories.ChatTournamentChannel(tournamentID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту.
		slog.Warn("failed to upgrade websocket connection",
			slog.String("room", room),
			slog.Any("error", err),
		)
		return
	}

	client := chat.NewClient(h.hub, conn, room)
	h.hub.Register(client)
}

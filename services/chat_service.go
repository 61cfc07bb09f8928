package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// Broadcaster рассылает событие подписчикам комнаты. Реализуется чат-хабом.
type Broadcaster interface {
	Broadcast(room string, payload any)
}

// ChatService пишет и читает ограниченные логи каналов и дублирует новые
// сообщения в websocket-хаб. Запись в кеш и рассылка не атомарны: упавшая
// рассылка не откатывает сообщение.
type ChatService struct {
	chat repositories.ChatRepository
	hub  Broadcaster
}

func NewChatService(chat repositories.ChatRepository, hub Broadcaster) *ChatService {
	return &ChatService{chat: chat, hub: hub}
}

// SendGlobal публикует сообщение в глобальный канал.
func (s *ChatService) SendGlobal(ctx context.Context, caller models.Identity, text string) (*models.ChatMessage, error) {
	return s.send(ctx, caller, repositories.ChatGlobalChannel, text)
}

// SendTournament публикует сообщение в канал турнира.
func (s *ChatService) SendTournament(ctx context.Context, caller models.Identity, tournamentID, text string) (*models.ChatMessage, error) {
	if tournamentID == "" {
		return nil, ErrTournamentIDRequired
	}
	return s.send(ctx, caller, repositories.ChatTournamentChannel(tournamentID), text)
}

func (s *ChatService) send(ctx context.Context, caller models.Identity, channel, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	displayName := caller.DisplayName
	if displayName == "" {
		displayName = caller.Username
	}

	msg := models.ChatMessage{
		UserID:       caller.Username,
		DisplayName:  displayName,
		Text:         text,
		TimestampUTC: time.Now().UTC(),
	}
	if err := s.chat.PushMessage(ctx, channel, msg, repositories.DefaultChatKeep); err != nil {
		return nil, fmt.Errorf("failed to push chat message: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast(channel, msg)
	}
	return &msg, nil
}

// GetGlobal возвращает хвост глобального канала, oldest-first.
func (s *ChatService) GetGlobal(ctx context.Context, count int) ([]models.ChatMessage, error) {
	return s.chat.GetLast(ctx, repositories.ChatGlobalChannel, count)
}

// GetTournament возвращает хвост канала турнира, oldest-first.
func (s *ChatService) GetTournament(ctx context.Context, tournamentID string, count int) ([]models.ChatMessage, error) {
	if tournamentID == "" {
		return nil, ErrTournamentIDRequired
	}
	return s.chat.GetLast(ctx, repositories.ChatTournamentChannel(tournamentID), count)
}

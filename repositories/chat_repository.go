package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/tourneymate/tourneymate/models"
)

const (
	// DefaultChatKeep — сколько сообщений держим в канале по умолчанию.
	DefaultChatKeep = 200
	// MaxChatKeep — жёсткий потолок длины лога канала.
	MaxChatKeep = 2000
	// DefaultChatRead / MaxChatRead ограничивают размер одного чтения.
	DefaultChatRead = 50
	MaxChatRead     = 500
)

type ChatRepository interface {
	// PushMessage кладёт сообщение в голову лога и в том же атомарном
	// батче подрезает лог до keepLast записей. Частичное применение
	// (push без trim) невозможно.
	PushMessage(ctx context.Context, channel string, msg models.ChatMessage, keepLast int) error
	// GetLast читает count последних сообщений и возвращает их
	// oldest-first для отображения.
	GetLast(ctx context.Context, channel string, count int) ([]models.ChatMessage, error)
}

type redisChatRepository struct {
	client *redis.Client
	// lenientDecode — явная политика стора (а не скрытая ветка кода):
	// битые записи молча выбрасываются, чтобы одно повреждённое сообщение
	// не валило чтение всего канала.
	lenientDecode bool
}

func NewRedisChatRepository(client *redis.Client, lenientDecode bool) ChatRepository {
	return &redisChatRepository{client: client, lenientDecode: lenientDecode}
}

func (r *redisChatRepository) PushMessage(ctx context.Context, channel string, msg models.ChatMessage, keepLast int) error {
	if channel == "" {
		return fmt.Errorf("chat channel is required")
	}
	keepLast = clampChatKeep(keepLast)

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode chat message: %w", err)
	}

	// LPUSH (newest first) + LTRIM одним TxPipeline (MULTI/EXEC).
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, channel, payload)
	pipe.LTrim(ctx, channel, 0, int64(keepLast)-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push chat message: %w", err)
	}
	return nil
}

func (r *redisChatRepository) GetLast(ctx context.Context, channel string, count int) ([]models.ChatMessage, error) {
	if channel == "" {
		return []models.ChatMessage{}, nil
	}
	count = clampChatRead(count)

	raw, err := r.client.LRange(ctx, channel, 0, int64(count)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat channel: %w", err)
	}

	msgs, err := decodeChatMessages(raw, r.lenientDecode)
	if err != nil {
		return nil, err
	}
	reverseMessages(msgs)
	return msgs, nil
}

// decodeChatMessages декодирует записи в порядке хранения (newest-first).
// При lenient=true битые записи отбрасываются.
func decodeChatMessages(raw []string, lenient bool) ([]models.ChatMessage, error) {
	msgs := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		if item == "" {
			continue
		}
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			if lenient {
				continue
			}
			return nil, fmt.Errorf("failed to decode chat message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// reverseMessages переворачивает newest-first в oldest-first.
func reverseMessages(msgs []models.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}

func clampChatKeep(keepLast int) int {
	if keepLast <= 0 {
		return DefaultChatKeep
	}
	if keepLast > MaxChatKeep {
		return MaxChatKeep
	}
	return keepLast
}

func clampChatRead(count int) int {
	if count <= 0 {
		return DefaultChatRead
	}
	if count > MaxChatRead {
		return MaxChatRead
	}
	return count
}

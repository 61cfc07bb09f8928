package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourneymate/tourneymate/models"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisChatRepository_PushTrimsToKeepLast(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	repo := NewRedisChatRepository(client, true)

	channel := ChatTournamentChannel("wc2026")
	for i := 1; i <= 205; i++ {
		err := repo.PushMessage(ctx, channel, models.ChatMessage{
			UserID: "alice",
			Text:   fmt.Sprintf("message %d", i),
		}, 200)
		require.NoError(t, err)
	}

	// В кеше ровно keepLast записей, пять самых старых подрезаны.
	stored, err := mr.List(channel)
	require.NoError(t, err)
	assert.Len(t, stored, 200)

	msgs, err := repo.GetLast(ctx, channel, MaxChatRead)
	require.NoError(t, err)
	require.Len(t, msgs, 200)
	assert.Equal(t, "message 6", msgs[0].Text)
	assert.Equal(t, "message 205", msgs[len(msgs)-1].Text)
}

func TestRedisChatRepository_GetLast(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the tail oldest-first", func(t *testing.T) {
		_, client := newTestRedis(t)
		repo := NewRedisChatRepository(client, true)

		for _, text := range []string{"first", "second", "third"} {
			require.NoError(t, repo.PushMessage(ctx, ChatGlobalChannel, models.ChatMessage{Text: text}, 200))
		}

		msgs, err := repo.GetLast(ctx, ChatGlobalChannel, 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "second", msgs[0].Text)
		assert.Equal(t, "third", msgs[1].Text)
	})

	t.Run("lenient store drops a corrupt entry", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewRedisChatRepository(client, true)

		require.NoError(t, repo.PushMessage(ctx, ChatGlobalChannel, models.ChatMessage{Text: "ok"}, 200))
		_, err := mr.Lpush(ChatGlobalChannel, "{broken")
		require.NoError(t, err)

		msgs, err := repo.GetLast(ctx, ChatGlobalChannel, 10)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "ok", msgs[0].Text)
	})

	t.Run("strict store fails on a corrupt entry", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewRedisChatRepository(client, false)

		_, err := mr.Lpush(ChatGlobalChannel, "{broken")
		require.NoError(t, err)

		_, err = repo.GetLast(ctx, ChatGlobalChannel, 10)
		assert.Error(t, err)
	})

	t.Run("empty channel reads as empty, not an error", func(t *testing.T) {
		_, client := newTestRedis(t)
		repo := NewRedisChatRepository(client, true)

		msgs, err := repo.GetLast(ctx, ChatGlobalChannel, 10)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestDecodeChatMessages(t *testing.T) {
	valid := `{"userId":"alice","displayName":"Alice","text":"hi","timestampUtc":"2026-08-30T12:00:00Z"}`

	t.Run("lenient drops corrupt entries", func(t *testing.T) {
		msgs, err := decodeChatMessages([]string{valid, "{broken", "", valid}, true)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "alice", msgs[0].UserID)
		assert.Equal(t, "hi", msgs[0].Text)
	})

	t.Run("strict fails on the first corrupt entry", func(t *testing.T) {
		_, err := decodeChatMessages([]string{valid, "{broken"}, false)
		assert.Error(t, err)
	})

	t.Run("timestamp survives the round trip", func(t *testing.T) {
		msgs, err := decodeChatMessages([]string{valid}, false)
		require.NoError(t, err)
		expected := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		assert.True(t, msgs[0].TimestampUTC.Equal(expected))
	})
}

func TestReverseMessages(t *testing.T) {
	msgs := []models.ChatMessage{{Text: "third"}, {Text: "second"}, {Text: "first"}}
	reverseMessages(msgs)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, "third", msgs[2].Text)

	var empty []models.ChatMessage
	reverseMessages(empty) // не должен паниковать
}

func TestClampChat(t *testing.T) {
	assert.Equal(t, DefaultChatKeep, clampChatKeep(0))
	assert.Equal(t, DefaultChatKeep, clampChatKeep(-5))
	assert.Equal(t, 300, clampChatKeep(300))
	assert.Equal(t, MaxChatKeep, clampChatKeep(MaxChatKeep+1))

	assert.Equal(t, DefaultChatRead, clampChatRead(0))
	assert.Equal(t, 100, clampChatRead(100))
	assert.Equal(t, MaxChatRead, clampChatRead(MaxChatRead*2))
}

func TestChatChannelKeys(t *testing.T) {
	assert.Equal(t, "tm:chat:global", ChatGlobalChannel)
	assert.Equal(t, "tm:chat:tournament:wc2026", ChatTournamentChannel("wc2026"))
}

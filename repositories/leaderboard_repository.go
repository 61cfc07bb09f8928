package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"
	"github.com/tourneymate/tourneymate/models"
)

type LeaderboardRepository interface {
	// AddOrUpdateScore — идемпотентный upsert, последняя запись побеждает
	// (очки могут и уменьшаться).
	AddOrUpdateScore(ctx context.Context, tournamentID, teamID string, score float64) error
	// Top возвращает до n записей по убыванию очков; при равных очках
	// порядок детерминирован по teamId.
	Top(ctx context.Context, tournamentID string, n int) ([]models.LeaderboardEntry, error)
	Ping(ctx context.Context) error
}

type redisLeaderboardRepository struct {
	client *redis.Client
}

func NewRedisLeaderboardRepository(client *redis.Client) LeaderboardRepository {
	return &redisLeaderboardRepository{client: client}
}

func (r *redisLeaderboardRepository) AddOrUpdateScore(ctx context.Context, tournamentID, teamID string, score float64) error {
	err := r.client.ZAdd(ctx, leaderboardKey(tournamentID), &redis.Z{
		Score:  score,
		Member: teamID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard score: %w", err)
	}
	return nil
}

func (r *redisLeaderboardRepository) Top(ctx context.Context, tournamentID string, n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		return []models.LeaderboardEntry{}, nil
	}

	zs, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey(tournamentID), 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		teamID, _ := z.Member.(string)
		entries = append(entries, models.LeaderboardEntry{TeamID: teamID, Score: z.Score})
	}
	sortLeaderboard(entries)
	return entries, nil
}

// sortLeaderboard enforces the deterministic order: score descending, then
// team id ascending. Redis already returns score-descending, but its tie
// order is reversed-lexicographic, which would flip between reads of equal
// scores pushed in different order.
func sortLeaderboard(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TeamID < entries[j].TeamID
	})
}

func (r *redisLeaderboardRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache ping failed: %w", err)
	}
	return nil
}

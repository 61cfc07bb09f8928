package services

import (
	"context"
	"fmt"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// LeaderboardService — тонкая обёртка над стором очков. Лидерборд живёт
// только в кеше; запись очков и графовые мутации никогда не атомарны.
type LeaderboardService struct {
	leaderboard repositories.LeaderboardRepository
}

func NewLeaderboardService(leaderboard repositories.LeaderboardRepository) *LeaderboardService {
	return &LeaderboardService{leaderboard: leaderboard}
}

type UpsertScoreInput struct {
	TournamentID string  `json:"tournamentId"`
	TeamID       string  `json:"teamId"`
	Score        float64 `json:"score"`
}

// UpsertScore пишет очки команды; последняя запись побеждает.
func (s *LeaderboardService) UpsertScore(ctx context.Context, input UpsertScoreInput) error {
	if input.TournamentID == "" {
		return ErrTournamentIDRequired
	}
	if input.TeamID == "" {
		return ErrTeamIDRequired
	}
	if err := s.leaderboard.AddOrUpdateScore(ctx, input.TournamentID, input.TeamID, input.Score); err != nil {
		return fmt.Errorf("failed to upsert score: %w", err)
	}
	return nil
}

// Top возвращает до n лучших записей турнира.
func (s *LeaderboardService) Top(ctx context.Context, tournamentID string, n int) ([]models.LeaderboardEntry, error) {
	if tournamentID == "" {
		return nil, ErrTournamentIDRequired
	}
	return s.leaderboard.Top(ctx, tournamentID, clampTopN(n, DetailTopNDefault))
}

// Ping проверяет соединение с кешем.
func (s *LeaderboardService) Ping(ctx context.Context) error {
	return s.leaderboard.Ping(ctx)
}

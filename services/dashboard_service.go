package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// Клампы размеров представлений. Сервис подрезает пользовательские
// параметры до этих диапазонов прежде, чем идти в сторы.
const (
	HomeTopNDefault   = 5
	DetailTopNDefault = 10
	MaxTopN           = 50

	HomeChatNDefault   = 30
	DetailChatNDefault = 50
	MaxChatN           = 200
)

// Сколько лидербордов тянем из кеша параллельно при сборке домашней
// страницы.
const leaderboardFetchParallelism = 8

// DashboardService собирает read-представления, соединяя рёбра графа с
// лидербордами и чатом из кеша. Зависимости от свежести кеша нет: недавние
// мутации workflow могут быть ещё не отражены в лидерборде.
type DashboardService struct {
	tournaments repositories.TournamentRepository
	leaderboard repositories.LeaderboardRepository
	chat        repositories.ChatRepository
}

func NewDashboardService(
	tournaments repositories.TournamentRepository,
	leaderboard repositories.LeaderboardRepository,
	chat repositories.ChatRepository,
) *DashboardService {
	return &DashboardService{
		tournaments: tournaments,
		leaderboard: leaderboard,
		chat:        chat,
	}
}

// Home строит домашнюю страницу: все турниры с рёбрами одним проходом по
// графу, топ лидерборда на каждый турнир, бакеты по статусу и хвост
// глобального чата на всё представление.
func (s *DashboardService) Home(ctx context.Context, topN, chatN int) (*models.HomeView, error) {
	topN = clampTopN(topN, HomeTopNDefault)
	chatN = clampChatN(chatN, HomeChatNDefault)

	relations, err := s.tournaments.ListWithRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournaments: %w", err)
	}

	summaries := make([]models.TournamentSummary, len(relations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(leaderboardFetchParallelism)
	for i, rel := range relations {
		i, rel := i, rel
		g.Go(func() error {
			leaderboard, err := s.resolveLeaderboard(gctx, rel, topN)
			if err != nil {
				return err
			}
			summaries[i] = models.TournamentSummary{
				TournamentRelations: rel,
				Leaderboard:         leaderboard,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &models.HomeView{
		Open:       []models.TournamentSummary{},
		Live:       []models.TournamentSummary{},
		Finished:   []models.TournamentSummary{},
		GlobalChat: []models.ChatMessage{},
	}
	for _, summary := range summaries {
		switch {
		case summary.Status.Equals(string(models.StatusOpen)):
			view.Open = append(view.Open, summary)
		case summary.Status.Equals(string(models.StatusLive)):
			view.Live = append(view.Live, summary)
		case summary.Status.Equals(string(models.StatusFinished)):
			view.Finished = append(view.Finished, summary)
		}
	}

	globalChat, err := s.chat.GetLast(ctx, repositories.ChatGlobalChannel, chatN)
	if err != nil {
		return nil, fmt.Errorf("failed to load global chat: %w", err)
	}
	view.GlobalChat = globalChat

	return view, nil
}

// TournamentDetail строит представление одного турнира с хвостом его
// собственного чат-канала.
func (s *DashboardService) TournamentDetail(ctx context.Context, tournamentID string, topN, chatN int) (*models.TournamentView, error) {
	if strings.TrimSpace(tournamentID) == "" {
		return nil, ErrTournamentIDRequired
	}
	topN = clampTopN(topN, DetailTopNDefault)
	chatN = clampChatN(chatN, DetailChatNDefault)

	rel, err := s.tournaments.RelationsByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}

	leaderboard, err := s.resolveLeaderboard(ctx, *rel, topN)
	if err != nil {
		return nil, err
	}

	chat, err := s.chat.GetLast(ctx, repositories.ChatTournamentChannel(tournamentID), chatN)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament chat: %w", err)
	}

	return &models.TournamentView{
		TournamentSummary: models.TournamentSummary{
			TournamentRelations: *rel,
			Leaderboard:         leaderboard,
		},
		Chat: chat,
	}, nil
}

// resolveLeaderboard тянет топ из кеша и резолвит имена команд по рёбрам
// турнира. Команда, которой нет ни среди вошедших, ни среди заявок,
// получает имя "unknown": лидерборд графового аналога не имеет.
func (s *DashboardService) resolveLeaderboard(ctx context.Context, rel models.TournamentRelations, topN int) ([]models.LeaderboardRow, error) {
	entries, err := s.leaderboard.Top(ctx, rel.TournamentID, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard for %s: %w", rel.TournamentID, err)
	}

	nameByID := make(map[string]string, len(rel.EnteredTeams)+len(rel.Applications))
	for _, team := range rel.EnteredTeams {
		nameByID[strings.ToLower(team.TeamID)] = team.Name
	}
	for _, app := range rel.Applications {
		key := strings.ToLower(app.TeamID)
		if _, ok := nameByID[key]; !ok {
			nameByID[key] = app.Name
		}
	}

	rows := make([]models.LeaderboardRow, 0, len(entries))
	for _, entry := range entries {
		name, ok := nameByID[strings.ToLower(entry.TeamID)]
		if !ok {
			name = "unknown"
		}
		rows = append(rows, models.LeaderboardRow{
			TeamID:   entry.TeamID,
			TeamName: name,
			Score:    entry.Score,
		})
	}
	return rows, nil
}

func clampTopN(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}

func clampChatN(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > MaxChatN {
		return MaxChatN
	}
	return n
}

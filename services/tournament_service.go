package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// TournamentService покрывает операционные ручки над графом: upsert-ы с
// merge-on-create семантикой, списки и смоук-проверки.
type TournamentService struct {
	tournaments repositories.TournamentRepository
	teams       repositories.TeamRepository
}

func NewTournamentService(tournaments repositories.TournamentRepository, teams repositories.TeamRepository) *TournamentService {
	return &TournamentService{tournaments: tournaments, teams: teams}
}

type UpsertTournamentInput struct {
	TournamentID string `json:"tournamentId"`
	Name         string `json:"name"`
	Sport        string `json:"sport"`
	Status       string `json:"status"`
}

// Upsert создаёт турнир, если его ещё нет; существующий не трогает.
func (s *TournamentService) Upsert(ctx context.Context, input UpsertTournamentInput) (*models.Tournament, error) {
	if strings.TrimSpace(input.TournamentID) == "" {
		return nil, ErrTournamentIDRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(input.Sport) == "" {
		return nil, ErrSportRequired
	}

	status := models.StatusOpen
	for _, known := range []models.TournamentStatus{models.StatusOpen, models.StatusLive, models.StatusFinished} {
		if known.Equals(input.Status) {
			status = known
		}
	}

	tournament := models.Tournament{
		TournamentID: strings.TrimSpace(input.TournamentID),
		Name:         strings.TrimSpace(input.Name),
		Sport:        strings.TrimSpace(input.Sport),
		Status:       status,
	}
	if err := s.tournaments.Upsert(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to upsert tournament: %w", err)
	}
	return &tournament, nil
}

// List возвращает все турниры.
func (s *TournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournaments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

// Teams возвращает команды, вошедшие в турнир (ребро ENTERS).
func (s *TournamentService) Teams(ctx context.Context, tournamentID string) ([]models.Team, error) {
	if tournamentID == "" {
		return nil, ErrTournamentIDRequired
	}
	if _, err := s.tournaments.FindByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	teams, err := s.tournaments.ListTeams(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entered teams: %w", err)
	}
	return teams, nil
}

// Counts возвращает количество узлов и рёбер графа.
func (s *TournamentService) Counts(ctx context.Context) (nodes int64, relationships int64, err error) {
	return s.tournaments.Counts(ctx)
}

// Ping выполняет тривиальный запрос для проверки соединения с графом.
func (s *TournamentService) Ping(ctx context.Context) error {
	return s.tournaments.Ping(ctx)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// TeamService инкапсулирует операции над командами.
type TeamService struct {
	teams repositories.TeamRepository
	users repositories.UserRepository
}

func NewTeamService(teams repositories.TeamRepository, users repositories.UserRepository) *TeamService {
	return &TeamService{teams: teams, users: users}
}

type CreateTeamInput struct {
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

// CreateTeam создаёт команду и сразу ставит вызывающего капитаном. Узел
// :Player для залогиненного пользователя создаётся merge-ом, если его ещё
// нет: playerId конвенционально совпадает с username.
func (s *TeamService) CreateTeam(ctx context.Context, caller models.Identity, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	sport := strings.TrimSpace(input.Sport)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if sport == "" {
		return nil, ErrSportRequired
	}

	player := models.Player{PlayerID: caller.Username, Name: caller.DisplayName}
	if err := s.users.UpsertPlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to ensure player node: %w", err)
	}

	team := models.Team{
		TeamID: "team_" + xid.New().String(),
		Name:   name,
		Sport:  sport,
	}
	if err := s.teams.CreateWithCaptain(ctx, team, caller.Username); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return &team, nil
}

// MyTeams возвращает команды, где вызывающий — капитан.
func (s *TeamService) MyTeams(ctx context.Context, caller models.Identity) ([]models.Team, error) {
	teams, err := s.teams.ListByCaptain(ctx, caller.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// Captain возвращает капитана команды.
func (s *TeamService) Captain(ctx context.Context, teamID string) (*models.Player, error) {
	if teamID == "" {
		return nil, ErrTeamIDRequired
	}
	captain, err := s.teams.Captain(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptainNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to find captain: %w", err)
	}
	return captain, nil
}

// List возвращает все команды.
func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

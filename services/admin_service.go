package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// AdminService — административные шорткаты для операционных правок.
// Прямые JoinTeam/EnterTournament обходят машину состояний заявок и не
// участвуют в её инвариантах; для обычного потока есть Apply/Approve.
type AdminService struct {
	users        repositories.UserRepository
	teams        repositories.TeamRepository
	tournaments  repositories.TournamentRepository
	applications repositories.ApplicationRepository
}

func NewAdminService(
	users repositories.UserRepository,
	teams repositories.TeamRepository,
	tournaments repositories.TournamentRepository,
	applications repositories.ApplicationRepository,
) *AdminService {
	return &AdminService{
		users:        users,
		teams:        teams,
		tournaments:  tournaments,
		applications: applications,
	}
}

// ListUsers возвращает всех пользователей, отсортированных по username.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetUserRole меняет роль на узле :User. Уже выданные сессии сохраняют
// старый снапшот до перелогина.
func (s *AdminService) SetUserRole(ctx context.Context, username, role string) (models.Role, error) {
	if strings.TrimSpace(username) == "" {
		return "", ErrUsernameRequired
	}
	parsed, ok := models.ParseRole(role)
	if !ok {
		return "", ErrInvalidRole
	}

	if err := s.users.SetRole(ctx, username, parsed); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to set role: %w", err)
	}
	return parsed, nil
}

// UpsertPlayer создаёт узел :Player, если его ещё нет.
func (s *AdminService) UpsertPlayer(ctx context.Context, playerID, name string) error {
	if strings.TrimSpace(playerID) == "" {
		return ErrPlayerIDRequired
	}
	if err := s.users.UpsertPlayer(ctx, models.Player{PlayerID: playerID, Name: name}); err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// UpsertTeam создаёт команду, если её ещё нет (merge-on-create).
func (s *AdminService) UpsertTeam(ctx context.Context, team models.Team) error {
	if strings.TrimSpace(team.TeamID) == "" {
		return ErrTeamIDRequired
	}
	if err := s.teams.Upsert(ctx, team); err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// JoinTeam добавляет игрока в команду (MEMBER_OF, опционально CAPTAIN_OF).
func (s *AdminService) JoinTeam(ctx context.Context, playerID, teamID string, captain bool) error {
	if playerID == "" {
		return ErrPlayerIDRequired
	}
	if teamID == "" {
		return ErrTeamIDRequired
	}

	exists, err := s.users.PlayerExists(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to check player: %w", err)
	}
	if !exists {
		return ErrPlayerNotFound
	}

	if _, err := s.teams.FindByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team: %w", err)
	}

	if err := s.teams.AddMember(ctx, playerID, teamID, captain); err != nil {
		return fmt.Errorf("failed to join team: %w", err)
	}
	return nil
}

// EnterTournament создаёт ребро ENTERS напрямую, минуя стадию Pending.
func (s *AdminService) EnterTournament(ctx context.Context, teamID, tournamentID string, approved bool) error {
	if teamID == "" {
		return ErrTeamIDRequired
	}
	if tournamentID == "" {
		return ErrTournamentIDRequired
	}

	if _, err := s.teams.FindByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team: %w", err)
	}
	if _, err := s.tournaments.FindByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament: %w", err)
	}

	if err := s.applications.UpsertEntry(ctx, teamID, tournamentID, approved, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to enter tournament: %w", err)
	}
	return nil
}

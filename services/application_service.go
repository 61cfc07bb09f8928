package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// ApplicationService — машина состояний заявки для пары (команда, турнир):
// NoRelation -> Pending -> {Approved, Rejected}. Approved и Rejected
// терминальны; ребро заявки при ревью сохраняется, а не удаляется.
type ApplicationService struct {
	applications repositories.ApplicationRepository
	teams        repositories.TeamRepository
	tournaments  repositories.TournamentRepository
}

func NewApplicationService(
	applications repositories.ApplicationRepository,
	teams repositories.TeamRepository,
	tournaments repositories.TournamentRepository,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		teams:        teams,
		tournaments:  tournaments,
	}
}

// Apply подаёт заявку от имени команды. Подать может только капитан.
//
// Проверка «нет существующей заявки/входа» и создание ребра — два отдельных
// autocommit-запроса: два конкурентных Apply по одной паре могут оба пройти
// проверку. Гонка принята осознанно — MERGE сводит дубликаты к одному ребру
// APPLIED_FOR, а путь ревью в любом случае сходится к одному терминальному
// статусу.
func (s *ApplicationService) Apply(ctx context.Context, caller models.Identity, teamID, tournamentID string) error {
	if teamID == "" {
		return ErrTeamIDRequired
	}
	if tournamentID == "" {
		return ErrTournamentIDRequired
	}

	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team: %w", err)
	}

	isCaptain, err := s.teams.IsCaptain(ctx, caller.Username, teamID)
	if err != nil {
		return fmt.Errorf("failed to check captaincy: %w", err)
	}
	if !isCaptain {
		return ErrNotTeamCaptain
	}

	tournament, err := s.tournaments.FindByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament: %w", err)
	}

	if !equalFold(team.Sport, tournament.Sport) {
		return ErrSportMismatch
	}
	if !tournament.Status.Equals(string(models.StatusOpen)) {
		return ErrTournamentNotOpen
	}

	exists, err := s.applications.Exists(ctx, teamID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		return ErrApplicationConflict
	}

	if err := s.applications.Create(ctx, teamID, tournamentID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// ListApplications возвращает заявки турнира. Доступно хосту турнира или
// админу; фильтр статуса по умолчанию — Pending, "all" снимает фильтр.
func (s *ApplicationService) ListApplications(ctx context.Context, caller models.Identity, tournamentID, statusFilter string) ([]models.Application, error) {
	if tournamentID == "" {
		return nil, ErrTournamentIDRequired
	}

	if err := s.authorizeReview(ctx, caller, tournamentID); err != nil {
		return nil, err
	}

	status, err := parseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	apps, err := s.applications.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// Approve переводит Pending-заявку в Approved и создаёт/обновляет ребро
// ENTERS с approved=true. Повторный Approve по той же паре падает с
// ErrApplicationNotFound: Pending-заявки больше нет.
func (s *ApplicationService) Approve(ctx context.Context, caller models.Identity, tournamentID, teamID string) error {
	return s.review(ctx, caller, tournamentID, teamID, models.ApplicationApproved)
}

// Reject переводит Pending-заявку в Rejected. Ребро ENTERS не создаётся.
func (s *ApplicationService) Reject(ctx context.Context, caller models.Identity, tournamentID, teamID string) error {
	return s.review(ctx, caller, tournamentID, teamID, models.ApplicationRejected)
}

func (s *ApplicationService) review(ctx context.Context, caller models.Identity, tournamentID, teamID string, verdict models.ApplicationStatus) error {
	if tournamentID == "" {
		return ErrTournamentIDRequired
	}
	if teamID == "" {
		return ErrTeamIDRequired
	}

	if err := s.authorizeReview(ctx, caller, tournamentID); err != nil {
		return err
	}

	pending, err := s.applications.HasPending(ctx, teamID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to check pending application: %w", err)
	}
	if !pending {
		return ErrApplicationNotFound
	}

	now := time.Now().UTC()
	if err := s.applications.SetStatus(ctx, teamID, tournamentID, verdict, now); err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	if verdict == models.ApplicationApproved {
		if err := s.applications.UpsertEntry(ctx, teamID, tournamentID, true, now); err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}
	}
	return nil
}

func (s *ApplicationService) authorizeReview(ctx context.Context, caller models.Identity, tournamentID string) error {
	isHost, err := s.tournaments.IsHost(ctx, caller.Username, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to check hosting: %w", err)
	}
	if !caller.CanReviewApplications(isHost) {
		return ErrNotTournamentHost
	}
	return nil
}

func parseStatusFilter(filter string) (models.ApplicationStatus, error) {
	switch filter {
	case "":
		return models.ApplicationPending, nil
	case "all":
		return "", nil
	}
	for _, status := range []models.ApplicationStatus{
		models.ApplicationPending,
		models.ApplicationApproved,
		models.ApplicationRejected,
	} {
		if equalFold(filter, string(status)) {
			return status, nil
		}
	}
	return "", ErrInvalidStatusFilter
}

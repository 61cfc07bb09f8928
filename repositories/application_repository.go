package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tourneymate/tourneymate/graph"
	"github.com/tourneymate/tourneymate/models"
)

var (
	ErrApplicationNotFound = errors.New("pending application not found")
	ErrApplicationConflict = errors.New("team has already applied or entered this tournament")
)

type ApplicationRepository interface {
	// Exists проверяет любое ребро APPLIED_FOR или ENTERS между парой.
	Exists(ctx context.Context, teamID, tournamentID string) (bool, error)
	Create(ctx context.Context, teamID, tournamentID string, createdAt time.Time) error
	HasPending(ctx context.Context, teamID, tournamentID string) (bool, error)
	// ListByTournament возвращает заявки, соединённые с командой. Пустой
	// status означает «все».
	ListByTournament(ctx context.Context, tournamentID string, status models.ApplicationStatus) ([]models.Application, error)
	SetStatus(ctx context.Context, teamID, tournamentID string, status models.ApplicationStatus, reviewedAt time.Time) error
	// UpsertEntry создаёт/обновляет ребро ENTERS. Используется и при
	// approve, и в административном прямом входе.
	UpsertEntry(ctx context.Context, teamID, tournamentID string, approved bool, approvedAt time.Time) error
}

type neo4jApplicationRepository struct {
	client *graph.Client
}

func NewNeo4jApplicationRepository(client *graph.Client) ApplicationRepository {
	return &neo4jApplicationRepository{client: client}
}

func (r *neo4jApplicationRepository) Exists(ctx context.Context, teamID, tournamentID string) (bool, error) {
	st := graph.NewStatement().
		Match("(t:Team { teamId: $tid })-[r]->(tr:Tournament { tournamentId: $trid })").
		Where("type(r) IN ['APPLIED_FOR', 'ENTERS']").
		Return("count(r) as n").
		Param("tid", teamID).
		Param("trid", tournamentID)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return false, fmt.Errorf("failed to check existing relation: %w", err)
	}
	return rec != nil && recordInt(rec, "n") > 0, nil
}

func (r *neo4jApplicationRepository) Create(ctx context.Context, teamID, tournamentID string, createdAt time.Time) error {
	st := graph.NewStatement().
		Match("(t:Team { teamId: $tid })", "(tr:Tournament { tournamentId: $trid })").
		Merge("(t)-[ap:APPLIED_FOR]->(tr)").
		OnCreateSet("ap.status = $status, ap.createdAt = $now").
		Param("tid", teamID).
		Param("trid", tournamentID).
		Param("status", string(models.ApplicationPending)).
		Param("now", createdAt.UTC())

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *neo4jApplicationRepository) HasPending(ctx context.Context, teamID, tournamentID string) (bool, error) {
	st := graph.NewStatement().
		Match("(t:Team { teamId: $tid })-[ap:APPLIED_FOR { status: $status }]->(tr:Tournament { tournamentId: $trid })").
		Return("count(ap) as n").
		Param("tid", teamID).
		Param("trid", tournamentID).
		Param("status", string(models.ApplicationPending))

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return false, fmt.Errorf("failed to check pending application: %w", err)
	}
	return rec != nil && recordInt(rec, "n") > 0, nil
}

func (r *neo4jApplicationRepository) ListByTournament(ctx context.Context, tournamentID string, status models.ApplicationStatus) ([]models.Application, error) {
	st := graph.NewStatement().
		Match("(t:Team)-[ap:APPLIED_FOR]->(tr:Tournament { tournamentId: $trid })").
		Param("trid", tournamentID)

	if status != "" {
		st.Where("ap.status = $status").Param("status", string(status))
	}

	st.Return("t.teamId as teamId, t.name as name, t.sport as sport, ap.status as status, ap.createdAt as createdAt").
		OrderBy("ap.createdAt")

	records, err := r.client.Read(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	apps := make([]models.Application, 0, len(records))
	for _, rec := range records {
		apps = append(apps, models.Application{
			TeamID:    recordString(rec, "teamId"),
			TeamName:  recordString(rec, "name"),
			Sport:     recordString(rec, "sport"),
			Status:    models.ApplicationStatus(recordString(rec, "status")),
			CreatedAt: asTime(recordValue(rec, "createdAt")),
		})
	}
	return apps, nil
}

func (r *neo4jApplicationRepository) SetStatus(ctx context.Context, teamID, tournamentID string, status models.ApplicationStatus, reviewedAt time.Time) error {
	st := graph.NewStatement().
		Match("(t:Team { teamId: $tid })-[ap:APPLIED_FOR]->(tr:Tournament { tournamentId: $trid })").
		Set("ap.status = $status, ap.reviewedAt = $now").
		Param("tid", teamID).
		Param("trid", tournamentID).
		Param("status", string(status)).
		Param("now", reviewedAt.UTC())

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to set application status: %w", err)
	}
	return nil
}

func (r *neo4jApplicationRepository) UpsertEntry(ctx context.Context, teamID, tournamentID string, approved bool, approvedAt time.Time) error {
	st := graph.NewStatement().
		Match("(t:Team { teamId: $tid })", "(tr:Tournament { tournamentId: $trid })").
		Merge("(t)-[e:ENTERS]->(tr)").
		Set("e.approved = $approved, e.approvedAt = $now").
		Param("tid", teamID).
		Param("trid", tournamentID).
		Param("approved", approved).
		Param("now", approvedAt.UTC())

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/tourneymate/tourneymate/graph"
	"github.com/tourneymate/tourneymate/models"
)

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrCaptainNotFound = errors.New("no captain found for team")
)

type TeamRepository interface {
	// CreateWithCaptain создаёт команду и сразу ставит капитана одним
	// запросом. Капитан должен существовать как :Player.
	CreateWithCaptain(ctx context.Context, team models.Team, captainID string) error
	Upsert(ctx context.Context, team models.Team) error
	FindByID(ctx context.Context, teamID string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	ListByCaptain(ctx context.Context, playerID string) ([]models.Team, error)
	IsCaptain(ctx context.Context, playerID, teamID string) (bool, error)
	Captain(ctx context.Context, teamID string) (*models.Player, error)
	AddMember(ctx context.Context, playerID, teamID string, captain bool) error
}

type neo4jTeamRepository struct {
	client *graph.Client
}

func NewNeo4jTeamRepository(client *graph.Client) TeamRepository {
	return &neo4jTeamRepository{client: client}
}

func teamFromRecord(rec *neo4j.Record) models.Team {
	return models.Team{
		TeamID: recordString(rec, "teamId"),
		Name:   recordString(rec, "name"),
		Sport:  recordString(rec, "sport"),
	}
}

const teamReturn = "t.teamId as teamId, t.name as name, t.sport as sport"

func (r *neo4jTeamRepository) CreateWithCaptain(ctx context.Context, team models.Team, captainID string) error {
	st := graph.NewStatement().
		Match("(p:Player { playerId: $pid })").
		Create("(t:Team { teamId: $tid, name: $name, sport: $sport })").
		Create("(p)-[:CAPTAIN_OF]->(t)").
		Param("pid", captainID).
		Param("tid", team.TeamID).
		Param("name", team.Name).
		Param("sport", team.Sport)

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *neo4jTeamRepository) Upsert(ctx context.Context, team models.Team) error {
	st := graph.NewStatement().
		Merge("(t:Team { teamId: $tid })").
		OnCreateSet("t.name = $name, t.sport = $sport").
		Param("tid", team.TeamID).
		Param("name", team.Name).
		Param("sport", team.Sport)

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

func (r *neo4jTeamRepository) FindByID(ctx context.Context, teamID string) (*models.Team, error) {
	st := graph.NewStatement().
		Match("(t:Team { teamId: $tid })").
		Return(teamReturn).
		Param("tid", teamID)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	if rec == nil {
		return nil, ErrTeamNotFound
	}
	team := teamFromRecord(rec)
	return &team, nil
}

func (r *neo4jTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	st := graph.NewStatement().
		Match("(t:Team)").
		Return(teamReturn).
		OrderBy("t.teamId")

	records, err := r.client.Read(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	teams := make([]models.Team, 0, len(records))
	for _, rec := range records {
		teams = append(teams, teamFromRecord(rec))
	}
	return teams, nil
}

func (r *neo4jTeamRepository) ListByCaptain(ctx context.Context, playerID string) ([]models.Team, error) {
	st := graph.NewStatement().
		Match("(p:Player { playerId: $pid })-[:CAPTAIN_OF]->(t:Team)").
		Return(teamReturn).
		Param("pid", playerID)

	records, err := r.client.Read(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to list captain teams: %w", err)
	}

	teams := make([]models.Team, 0, len(records))
	for _, rec := range records {
		teams = append(teams, teamFromRecord(rec))
	}
	return teams, nil
}

func (r *neo4jTeamRepository) IsCaptain(ctx context.Context, playerID, teamID string) (bool, error) {
	st := graph.NewStatement().
		Match("(p:Player { playerId: $pid })-[:CAPTAIN_OF]->(t:Team { teamId: $tid })").
		Return("count(t) as n").
		Param("pid", playerID).
		Param("tid", teamID)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return false, fmt.Errorf("failed to check captaincy: %w", err)
	}
	return rec != nil && recordInt(rec, "n") > 0, nil
}

func (r *neo4jTeamRepository) Captain(ctx context.Context, teamID string) (*models.Player, error) {
	st := graph.NewStatement().
		Match("(p:Player)-[:CAPTAIN_OF]->(t:Team { teamId: $tid })").
		Return("p.playerId as playerId, p.name as name").
		Param("tid", teamID)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to find captain: %w", err)
	}
	if rec == nil {
		return nil, ErrCaptainNotFound
	}
	return &models.Player{
		PlayerID: recordString(rec, "playerId"),
		Name:     recordString(rec, "name"),
	}, nil
}

func (r *neo4jTeamRepository) AddMember(ctx context.Context, playerID, teamID string, captain bool) error {
	st := graph.NewStatement().
		Match("(p:Player { playerId: $pid })", "(t:Team { teamId: $tid })").
		Merge("(p)-[:MEMBER_OF]->(t)").
		Param("pid", playerID).
		Param("tid", teamID)

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}

	if captain {
		st := graph.NewStatement().
			Match("(p:Player { playerId: $pid })", "(t:Team { teamId: $tid })").
			Merge("(p)-[:CAPTAIN_OF]->(t)").
			Param("pid", playerID).
			Param("tid", teamID)
		if err := r.client.Write(ctx, st); err != nil {
			return fmt.Errorf("failed to set captain: %w", err)
		}
	}
	return nil
}

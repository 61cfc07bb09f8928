package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/tourneymate/tourneymate/graph"
	"github.com/tourneymate/tourneymate/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Upsert(ctx context.Context, t models.Tournament) error
	FindByID(ctx context.Context, tournamentID string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	// IsHost проверяет ребро HOSTS|COHOSTS от пользователя к турниру.
	IsHost(ctx context.Context, username, tournamentID string) (bool, error)
	ListTeams(ctx context.Context, tournamentID string) ([]models.Team, error)
	// ListWithRelations собирает каждый турнир вместе с хостами, вошедшими
	// командами и заявками одним проходом.
	ListWithRelations(ctx context.Context) ([]models.TournamentRelations, error)
	RelationsByID(ctx context.Context, tournamentID string) (*models.TournamentRelations, error)
	Counts(ctx context.Context) (nodes int64, relationships int64, err error)
	Ping(ctx context.Context) error
}

type neo4jTournamentRepository struct {
	client *graph.Client
}

func NewNeo4jTournamentRepository(client *graph.Client) TournamentRepository {
	return &neo4jTournamentRepository{client: client}
}

const tournamentReturn = "tr.tournamentId as tournamentId, tr.name as name, tr.sport as sport, tr.status as status"

func tournamentFromRecord(rec *neo4j.Record) models.Tournament {
	return models.Tournament{
		TournamentID: recordString(rec, "tournamentId"),
		Name:         recordString(rec, "name"),
		Sport:        recordString(rec, "sport"),
		Status:       models.TournamentStatus(recordString(rec, "status")),
	}
}

func (r *neo4jTournamentRepository) Upsert(ctx context.Context, t models.Tournament) error {
	st := graph.NewStatement().
		Merge("(tr:Tournament { tournamentId: $id })").
		OnCreateSet("tr.name = $name, tr.sport = $sport, tr.status = $status").
		Param("id", t.TournamentID).
		Param("name", t.Name).
		Param("sport", t.Sport).
		Param("status", string(t.Status))

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to upsert tournament: %w", err)
	}
	return nil
}

func (r *neo4jTournamentRepository) FindByID(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	st := graph.NewStatement().
		Match("(tr:Tournament { tournamentId: $trid })").
		Return(tournamentReturn).
		Param("trid", tournamentID)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to find tournament: %w", err)
	}
	if rec == nil {
		return nil, ErrTournamentNotFound
	}
	t := tournamentFromRecord(rec)
	return &t, nil
}

func (r *neo4jTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	st := graph.NewStatement().
		Match("(tr:Tournament)").
		Return(tournamentReturn).
		OrderBy("tr.tournamentId")

	records, err := r.client.Read(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	tournaments := make([]models.Tournament, 0, len(records))
	for _, rec := range records {
		tournaments = append(tournaments, tournamentFromRecord(rec))
	}
	return tournaments, nil
}

func (r *neo4jTournamentRepository) IsHost(ctx context.Context, username, tournamentID string) (bool, error) {
	st := graph.NewStatement().
		Match("(h:User { username: $un })-[:HOSTS|COHOSTS]->(tr:Tournament { tournamentId: $trid })").
		Return("count(h) as n").
		Param("un", username).
		Param("trid", tournamentID)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return false, fmt.Errorf("failed to check hosting: %w", err)
	}
	return rec != nil && recordInt(rec, "n") > 0, nil
}

func (r *neo4jTournamentRepository) ListTeams(ctx context.Context, tournamentID string) ([]models.Team, error) {
	st := graph.NewStatement().
		Match("(t:Team)-[:ENTERS]->(tr:Tournament { tournamentId: $trid })").
		Return(teamReturn).
		Param("trid", tournamentID)

	records, err := r.client.Read(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to list entered teams: %w", err)
	}

	teams := make([]models.Team, 0, len(records))
	for _, rec := range records {
		teams = append(teams, teamFromRecord(rec))
	}
	return teams, nil
}

// withRelations дописывает к уже заматченному tr сбор всех его рёбер.
// Map-проекции collect(distinct ...) приходят как списки карт.
func withRelations(st *graph.Statement) *graph.Statement {
	return st.
		OptionalMatch("(h:User)-[:HOSTS|COHOSTS]->(tr)").
		OptionalMatch("(et:Team)-[:ENTERS]->(tr)").
		OptionalMatch("(at:Team)-[ap:APPLIED_FOR]->(tr)").
		With("tr, collect(distinct h { .username, .displayName }) as hosts, collect(distinct et { .teamId, .name, .sport }) as enteredTeams, collect(distinct at { .teamId, .name, .sport, status: ap.status }) as applications").
		Return(tournamentReturn + ", hosts, enteredTeams, applications")
}

func relationsFromRecord(rec *neo4j.Record) models.TournamentRelations {
	rel := models.TournamentRelations{
		Tournament:   tournamentFromRecord(rec),
		Hosts:        []models.Host{},
		EnteredTeams: []models.Team{},
		Applications: []models.ApplicationSummary{},
	}

	for _, m := range recordMaps(rec, "hosts") {
		username := mapString(m, "username")
		if username == "" {
			continue
		}
		displayName := mapString(m, "displayName")
		if displayName == "" {
			displayName = username
		}
		rel.Hosts = append(rel.Hosts, models.Host{Username: username, DisplayName: displayName})
	}

	for _, m := range recordMaps(rec, "enteredTeams") {
		teamID := mapString(m, "teamId")
		if teamID == "" {
			continue
		}
		name := mapString(m, "name")
		if name == "" {
			name = teamID
		}
		rel.EnteredTeams = append(rel.EnteredTeams, models.Team{
			TeamID: teamID,
			Name:   name,
			Sport:  mapString(m, "sport"),
		})
	}

	for _, m := range recordMaps(rec, "applications") {
		teamID := mapString(m, "teamId")
		if teamID == "" {
			continue
		}
		name := mapString(m, "name")
		if name == "" {
			name = teamID
		}
		status := mapString(m, "status")
		if status == "" {
			status = string(models.ApplicationPending)
		}
		rel.Applications = append(rel.Applications, models.ApplicationSummary{
			TeamID: teamID,
			Name:   name,
			Sport:  mapString(m, "sport"),
			Status: status,
		})
	}

	return rel
}

func (r *neo4jTournamentRepository) ListWithRelations(ctx context.Context) ([]models.TournamentRelations, error) {
	st := withRelations(graph.NewStatement().Match("(tr:Tournament)"))
	records, err := r.client.Read(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournaments with relations: %w", err)
	}

	relations := make([]models.TournamentRelations, 0, len(records))
	for _, rec := range records {
		relations = append(relations, relationsFromRecord(rec))
	}
	return relations, nil
}

func (r *neo4jTournamentRepository) RelationsByID(ctx context.Context, tournamentID string) (*models.TournamentRelations, error) {
	st := withRelations(graph.NewStatement().
		Match("(tr:Tournament { tournamentId: $trid })").
		Param("trid", tournamentID))

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament relations: %w", err)
	}
	if rec == nil {
		return nil, ErrTournamentNotFound
	}
	rel := relationsFromRecord(rec)
	return &rel, nil
}

func (r *neo4jTournamentRepository) Counts(ctx context.Context) (int64, int64, error) {
	nodesRec, err := r.client.ReadOne(ctx, graph.NewStatement().
		Match("(n)").
		Return("count(n) as n"))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count nodes: %w", err)
	}

	relsRec, err := r.client.ReadOne(ctx, graph.NewStatement().
		Match("()-[r]->()").
		Return("count(r) as n"))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count relationships: %w", err)
	}

	var nodes, rels int64
	if nodesRec != nil {
		nodes = recordInt(nodesRec, "n")
	}
	if relsRec != nil {
		rels = recordInt(relsRec, "n")
	}
	return nodes, rels, nil
}

func (r *neo4jTournamentRepository) Ping(ctx context.Context) error {
	_, err := r.client.ReadOne(ctx, graph.NewStatement().Return("1 as ok"))
	if err != nil {
		return fmt.Errorf("graph ping failed: %w", err)
	}
	return nil
}

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
	ErrUserNotFound   = errors.New("user not found")
	ErrPlayerNotFound = errors.New("player not found")
)

type UserRepository interface {
	// FindByCredentials сверяет пароль сравнением строк. Известная слабость
	// исходной системы, сохранена как есть (см. DESIGN.md).
	FindByCredentials(ctx context.Context, username, password string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, username string, role models.Role) error
	UpsertPlayer(ctx context.Context, player models.Player) error
	PlayerExists(ctx context.Context, playerID string) (bool, error)
}

type neo4jUserRepository struct {
	client *graph.Client
}

func NewNeo4jUserRepository(client *graph.Client) UserRepository {
	return &neo4jUserRepository{client: client}
}

func userFromRecord(rec *neo4j.Record) *models.User {
	role, _ := models.ParseRole(recordString(rec, "role"))
	return &models.User{
		Username:    recordString(rec, "username"),
		DisplayName: recordString(rec, "displayName"),
		Role:        role,
	}
}

func (r *neo4jUserRepository) FindByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	st := graph.NewStatement().
		Match("(u:User { username: $un })").
		Where("u.password = $pw").
		Return("u.username as username, u.displayName as displayName, u.role as role").
		Param("un", username).
		Param("pw", password)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to check credentials: %w", err)
	}
	if rec == nil {
		return nil, ErrUserNotFound
	}
	return userFromRecord(rec), nil
}

func (r *neo4jUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	st := graph.NewStatement().
		Match("(u:User { username: $un })").
		Return("u.username as username, u.displayName as displayName, u.role as role").
		Param("un", username)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if rec == nil {
		return nil, ErrUserNotFound
	}
	return userFromRecord(rec), nil
}

func (r *neo4jUserRepository) List(ctx context.Context) ([]models.User, error) {
	st := graph.NewStatement().
		Match("(u:User)").
		Return("u.username as username, u.displayName as displayName, u.role as role").
		OrderBy("u.username")

	records, err := r.client.Read(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]models.User, 0, len(records))
	for _, rec := range records {
		users = append(users, *userFromRecord(rec))
	}
	return users, nil
}

func (r *neo4jUserRepository) SetRole(ctx context.Context, username string, role models.Role) error {
	exists, err := r.client.ReadOne(ctx, graph.NewStatement().
		Match("(u:User { username: $un })").
		Return("u.username as username").
		Param("un", username))
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if exists == nil {
		return ErrUserNotFound
	}

	st := graph.NewStatement().
		Match("(u:User { username: $un })").
		Set("u.role = $role").
		Param("un", username).
		Param("role", string(role))

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}
	return nil
}

func (r *neo4jUserRepository) UpsertPlayer(ctx context.Context, player models.Player) error {
	st := graph.NewStatement().
		Merge("(p:Player { playerId: $id })").
		OnCreateSet("p.name = $name").
		Param("id", player.PlayerID).
		Param("name", player.Name)

	if err := r.client.Write(ctx, st); err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

func (r *neo4jUserRepository) PlayerExists(ctx context.Context, playerID string) (bool, error) {
	st := graph.NewStatement().
		Match("(p:Player { playerId: $pid })").
		Return("count(p) as n").
		Param("pid", playerID)

	rec, err := r.client.ReadOne(ctx, st)
	if err != nil {
		return false, fmt.Errorf("failed to check player: %w", err)
	}
	return rec != nil && recordInt(rec, "n") > 0, nil
}

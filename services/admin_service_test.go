package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourneymate/tourneymate/models"
)

type adminFixture struct {
	service      *AdminService
	users        *fakeUserRepo
	teams        *fakeTeamRepo
	tournaments  *fakeTournamentRepo
	applications *fakeApplicationRepo
}

func newAdminFixture() *adminFixture {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo()
	tournaments := newFakeTournamentRepo()
	applications := newFakeApplicationRepo()
	return &adminFixture{
		service:      NewAdminService(users, teams, tournaments, applications),
		users:        users,
		teams:        teams,
		tournaments:  tournaments,
		applications: applications,
	}
}

func TestAdminService_SetUserRole(t *testing.T) {
	ctx := context.Background()
	fx := newAdminFixture()
	fx.users.users["alice"] = models.User{Username: "alice", Role: models.RoleViewer}

	role, err := fx.service.SetUserRole(ctx, "alice", "host")
	require.NoError(t, err)
	assert.Equal(t, models.RoleHost, role)
	assert.Equal(t, models.RoleHost, fx.users.users["alice"].Role)

	_, err = fx.service.SetUserRole(ctx, "alice", "emperor")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = fx.service.SetUserRole(ctx, "ghost", "admin")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = fx.service.SetUserRole(ctx, " ", "admin")
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestAdminService_JoinTeam(t *testing.T) {
	ctx := context.Background()
	fx := newAdminFixture()
	require.NoError(t, fx.users.UpsertPlayer(ctx, models.Player{PlayerID: "p1", Name: "Pavel"}))
	require.NoError(t, fx.teams.Upsert(ctx, models.Team{TeamID: "t1", Name: "Knights", Sport: "chess"}))

	require.NoError(t, fx.service.JoinTeam(ctx, "p1", "t1", false))
	assert.True(t, fx.teams.members["t1"]["p1"])

	require.NoError(t, fx.service.JoinTeam(ctx, "p1", "t1", true))
	assert.Equal(t, "p1", fx.teams.captains["t1"])

	assert.ErrorIs(t, fx.service.JoinTeam(ctx, "ghost", "t1", false), ErrPlayerNotFound)
	assert.ErrorIs(t, fx.service.JoinTeam(ctx, "p1", "ghost", false), ErrTeamNotFound)
	assert.ErrorIs(t, fx.service.JoinTeam(ctx, "", "t1", false), ErrPlayerIDRequired)
}

func TestAdminService_EnterTournament(t *testing.T) {
	ctx := context.Background()
	fx := newAdminFixture()
	require.NoError(t, fx.teams.Upsert(ctx, models.Team{TeamID: "t1", Name: "Knights", Sport: "chess"}))
	require.NoError(t, fx.tournaments.Upsert(ctx, models.Tournament{
		TournamentID: "wc2026",
		Name:         "World Cup",
		Sport:        "chess",
		Status:       models.StatusOpen,
	}))

	require.NoError(t, fx.service.EnterTournament(ctx, "t1", "wc2026", true))

	entry := fx.applications.entries[pairKey("t1", "wc2026")]
	require.NotNil(t, entry)
	assert.True(t, entry.approved)

	assert.ErrorIs(t, fx.service.EnterTournament(ctx, "ghost", "wc2026", true), ErrTeamNotFound)
	assert.ErrorIs(t, fx.service.EnterTournament(ctx, "t1", "ghost", true), ErrTournamentNotFound)
}

func TestAdminService_UpsertPlayer(t *testing.T) {
	ctx := context.Background()
	fx := newAdminFixture()

	require.NoError(t, fx.service.UpsertPlayer(ctx, "p1", "Pavel"))
	exists, err := fx.users.PlayerExists(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.ErrorIs(t, fx.service.UpsertPlayer(ctx, " ", "x"), ErrPlayerIDRequired)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/services"
)

type stubTournamentRepo struct {
	pingErr   error
	countsErr error
	nodes     int64
	rels      int64
}

func (s *stubTournamentRepo) Upsert(context.Context, models.Tournament) error { return nil }
func (s *stubTournamentRepo) FindByID(context.Context, string) (*models.Tournament, error) {
	return nil, nil
}
func (s *stubTournamentRepo) List(context.Context) ([]models.Tournament, error) { return nil, nil }
func (s *stubTournamentRepo) IsHost(context.Context, string, string) (bool, error) {
	return false, nil
}
func (s *stubTournamentRepo) ListTeams(context.Context, string) ([]models.Team, error) {
	return nil, nil
}
func (s *stubTournamentRepo) ListWithRelations(context.Context) ([]models.TournamentRelations, error) {
	return nil, nil
}
func (s *stubTournamentRepo) RelationsByID(context.Context, string) (*models.TournamentRelations, error) {
	return nil, nil
}
func (s *stubTournamentRepo) Counts(context.Context) (int64, int64, error) {
	return s.nodes, s.rels, s.countsErr
}
func (s *stubTournamentRepo) Ping(context.Context) error { return s.pingErr }

type stubLeaderboardRepo struct {
	pingErr error
}

func (s *stubLeaderboardRepo) AddOrUpdateScore(context.Context, string, string, float64) error {
	return nil
}
func (s *stubLeaderboardRepo) Top(context.Context, string, int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}
func (s *stubLeaderboardRepo) Ping(context.Context) error { return s.pingErr }

func healthRecorder(tournaments *stubTournamentRepo, leaderboard *stubLeaderboardRepo) *httptest.ResponseRecorder {
	handler := NewAdminHandler(
		services.NewAdminService(nil, nil, nil, nil),
		services.NewTournamentService(tournaments, nil),
		services.NewLeaderboardService(leaderboard),
	)
	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec
}

func TestAdminHandler_Health(t *testing.T) {
	t.Run("healthy stores report counts", func(t *testing.T) {
		rec := healthRecorder(&stubTournamentRepo{nodes: 7, rels: 3}, &stubLeaderboardRepo{})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"nodes": 7`)
		assert.Contains(t, rec.Body.String(), `"relationships": 3`)
	})

	t.Run("graph ping failure is 503", func(t *testing.T) {
		rec := healthRecorder(&stubTournamentRepo{pingErr: errors.New("graph down")}, &stubLeaderboardRepo{})

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "graph down")
	})

	t.Run("counts failure degrades graph status instead of reporting zeros as ok", func(t *testing.T) {
		rec := healthRecorder(&stubTournamentRepo{countsErr: errors.New("counts failed")}, &stubLeaderboardRepo{})

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "counts failed")
	})

	t.Run("cache ping failure is 503", func(t *testing.T) {
		rec := healthRecorder(&stubTournamentRepo{}, &stubLeaderboardRepo{pingErr: errors.New("cache down")})

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "cache down")
	})
}

package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// In-memory фейки репозиториев. Ключ пары заявки — teamID + "|" + tournamentID.

type fakeUserRepo struct {
	users   map[string]models.User
	players map[string]models.Player
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]models.User),
		players: make(map[string]models.Player),
	}
}

func (r *fakeUserRepo) FindByCredentials(_ context.Context, username, password string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok || user.Password != password {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *fakeUserRepo) SetRole(_ context.Context, username string, role models.Role) error {
	user, ok := r.users[username]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Role = role
	r.users[username] = user
	return nil
}

func (r *fakeUserRepo) UpsertPlayer(_ context.Context, player models.Player) error {
	if _, ok := r.players[player.PlayerID]; !ok {
		r.players[player.PlayerID] = player
	}
	return nil
}

func (r *fakeUserRepo) PlayerExists(_ context.Context, playerID string) (bool, error) {
	_, ok := r.players[playerID]
	return ok, nil
}

type fakeTeamRepo struct {
	teams    map[string]models.Team
	captains map[string]string            // teamID -> playerID
	members  map[string]map[string]bool   // teamID -> playerIDs
	names    map[string]string            // playerID -> display name
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:    make(map[string]models.Team),
		captains: make(map[string]string),
		members:  make(map[string]map[string]bool),
		names:    make(map[string]string),
	}
}

func (r *fakeTeamRepo) CreateWithCaptain(_ context.Context, team models.Team, captainID string) error {
	r.teams[team.TeamID] = team
	r.captains[team.TeamID] = captainID
	return nil
}

func (r *fakeTeamRepo) Upsert(_ context.Context, team models.Team) error {
	if _, ok := r.teams[team.TeamID]; !ok {
		r.teams[team.TeamID] = team
	}
	return nil
}

func (r *fakeTeamRepo) FindByID(_ context.Context, teamID string) (*models.Team, error) {
	team, ok := r.teams[teamID]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &team, nil
}

func (r *fakeTeamRepo) List(_ context.Context) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })
	return teams, nil
}

func (r *fakeTeamRepo) ListByCaptain(_ context.Context, playerID string) ([]models.Team, error) {
	var teams []models.Team
	for teamID, captain := range r.captains {
		if captain == playerID {
			teams = append(teams, r.teams[teamID])
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })
	return teams, nil
}

func (r *fakeTeamRepo) IsCaptain(_ context.Context, playerID, teamID string) (bool, error) {
	return r.captains[teamID] == playerID, nil
}

func (r *fakeTeamRepo) Captain(_ context.Context, teamID string) (*models.Player, error) {
	captain, ok := r.captains[teamID]
	if !ok {
		return nil, repositories.ErrCaptainNotFound
	}
	return &models.Player{PlayerID: captain, Name: r.names[captain]}, nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, playerID, teamID string, captain bool) error {
	if r.members[teamID] == nil {
		r.members[teamID] = make(map[string]bool)
	}
	r.members[teamID][playerID] = true
	if captain {
		r.captains[teamID] = playerID
	}
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[string]models.Tournament
	hosts       map[string]map[string]bool // tournamentID -> usernames
	relations   []models.TournamentRelations
	entered     map[string][]models.Team
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{
		tournaments: make(map[string]models.Tournament),
		hosts:       make(map[string]map[string]bool),
		entered:     make(map[string][]models.Team),
	}
}

func (r *fakeTournamentRepo) addHost(username, tournamentID string) {
	if r.hosts[tournamentID] == nil {
		r.hosts[tournamentID] = make(map[string]bool)
	}
	r.hosts[tournamentID][username] = true
}

func (r *fakeTournamentRepo) Upsert(_ context.Context, t models.Tournament) error {
	if _, ok := r.tournaments[t.TournamentID]; !ok {
		r.tournaments[t.TournamentID] = t
	}
	return nil
}

func (r *fakeTournamentRepo) FindByID(_ context.Context, tournamentID string) (*models.Tournament, error) {
	t, ok := r.tournaments[tournamentID]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r *fakeTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	list := make([]models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TournamentID < list[j].TournamentID })
	return list, nil
}

func (r *fakeTournamentRepo) IsHost(_ context.Context, username, tournamentID string) (bool, error) {
	return r.hosts[tournamentID][username], nil
}

func (r *fakeTournamentRepo) ListTeams(_ context.Context, tournamentID string) ([]models.Team, error) {
	return r.entered[tournamentID], nil
}

func (r *fakeTournamentRepo) ListWithRelations(_ context.Context) ([]models.TournamentRelations, error) {
	return r.relations, nil
}

func (r *fakeTournamentRepo) RelationsByID(_ context.Context, tournamentID string) (*models.TournamentRelations, error) {
	for _, rel := range r.relations {
		if rel.TournamentID == tournamentID {
			return &rel, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) Counts(_ context.Context) (int64, int64, error) {
	return int64(len(r.tournaments)), 0, nil
}

func (r *fakeTournamentRepo) Ping(_ context.Context) error { return nil }

type applicationEdge struct {
	status    models.ApplicationStatus
	createdAt time.Time
}

type entryEdge struct {
	approved   bool
	approvedAt time.Time
}

type fakeApplicationRepo struct {
	edges   map[string]*applicationEdge
	entries map[string]*entryEdge
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		edges:   make(map[string]*applicationEdge),
		entries: make(map[string]*entryEdge),
	}
}

func pairKey(teamID, tournamentID string) string {
	return teamID + "|" + tournamentID
}

func (r *fakeApplicationRepo) Exists(_ context.Context, teamID, tournamentID string) (bool, error) {
	key := pairKey(teamID, tournamentID)
	_, hasEdge := r.edges[key]
	_, hasEntry := r.entries[key]
	return hasEdge || hasEntry, nil
}

func (r *fakeApplicationRepo) Create(_ context.Context, teamID, tournamentID string, createdAt time.Time) error {
	r.edges[pairKey(teamID, tournamentID)] = &applicationEdge{
		status:    models.ApplicationPending,
		createdAt: createdAt,
	}
	return nil
}

func (r *fakeApplicationRepo) HasPending(_ context.Context, teamID, tournamentID string) (bool, error) {
	edge, ok := r.edges[pairKey(teamID, tournamentID)]
	return ok && edge.status == models.ApplicationPending, nil
}

func (r *fakeApplicationRepo) ListByTournament(_ context.Context, tournamentID string, status models.ApplicationStatus) ([]models.Application, error) {
	apps := make([]models.Application, 0)
	suffix := "|" + tournamentID
	for key, edge := range r.edges {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		teamID := strings.TrimSuffix(key, suffix)
		if status != "" && edge.status != status {
			continue
		}
		apps = append(apps, models.Application{
			TeamID:    teamID,
			Status:    edge.status,
			CreatedAt: edge.createdAt,
		})
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].TeamID < apps[j].TeamID })
	return apps, nil
}

func (r *fakeApplicationRepo) SetStatus(_ context.Context, teamID, tournamentID string, status models.ApplicationStatus, _ time.Time) error {
	edge, ok := r.edges[pairKey(teamID, tournamentID)]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	edge.status = status
	return nil
}

func (r *fakeApplicationRepo) UpsertEntry(_ context.Context, teamID, tournamentID string, approved bool, approvedAt time.Time) error {
	r.entries[pairKey(teamID, tournamentID)] = &entryEdge{approved: approved, approvedAt: approvedAt}
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]models.Identity
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]models.Identity)}
}

func (r *fakeSessionRepo) Set(_ context.Context, token string, identity models.Identity, _ time.Duration) error {
	r.sessions[token] = identity
	return nil
}

func (r *fakeSessionRepo) Get(_ context.Context, token string) (*models.Identity, error) {
	identity, ok := r.sessions[token]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	return &identity, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type fakeChatRepo struct {
	logs map[string][]models.ChatMessage // oldest-first
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{logs: make(map[string][]models.ChatMessage)}
}

func (r *fakeChatRepo) PushMessage(_ context.Context, channel string, msg models.ChatMessage, keepLast int) error {
	log := append(r.logs[channel], msg)
	if len(log) > keepLast {
		log = log[len(log)-keepLast:]
	}
	r.logs[channel] = log
	return nil
}

func (r *fakeChatRepo) GetLast(_ context.Context, channel string, count int) ([]models.ChatMessage, error) {
	log := r.logs[channel]
	if count > 0 && len(log) > count {
		log = log[len(log)-count:]
	}
	if log == nil {
		// Реальный repository всегда возвращает non-nil срез.
		log = []models.ChatMessage{}
	}
	return log, nil
}

type fakeLeaderboardRepo struct {
	scores     map[string]map[string]float64 // tournamentID -> teamID -> score
	requestedN int
}

func newFakeLeaderboardRepo() *fakeLeaderboardRepo {
	return &fakeLeaderboardRepo{scores: make(map[string]map[string]float64)}
}

func (r *fakeLeaderboardRepo) AddOrUpdateScore(_ context.Context, tournamentID, teamID string, score float64) error {
	if r.scores[tournamentID] == nil {
		r.scores[tournamentID] = make(map[string]float64)
	}
	r.scores[tournamentID][teamID] = score
	return nil
}

func (r *fakeLeaderboardRepo) Top(_ context.Context, tournamentID string, n int) ([]models.LeaderboardEntry, error) {
	r.requestedN = n
	entries := make([]models.LeaderboardEntry, 0)
	for teamID, score := range r.scores[tournamentID] {
		entries = append(entries, models.LeaderboardEntry{TeamID: teamID, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TeamID < entries[j].TeamID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (r *fakeLeaderboardRepo) Ping(_ context.Context) error { return nil }

type fakeBroadcaster struct {
	rooms    []string
	payloads []any
}

func (b *fakeBroadcaster) Broadcast(room string, payload any) {
	b.rooms = append(b.rooms, room)
	b.payloads = append(b.payloads, payload)
}

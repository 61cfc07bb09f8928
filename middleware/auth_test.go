package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

type fakeResolver struct {
	sessions map[string]models.Identity
}

func (r *fakeResolver) Resolve(_ context.Context, token string) (*models.Identity, error) {
	identity, ok := r.sessions[token]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	return &identity, nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	scope   string
	id      string
}

func (l *fakeLimiter) Allow(_ context.Context, scope, id string, _ int64, _ time.Duration) (bool, error) {
	l.scope = scope
	l.id = id
	return l.allowed, l.err
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestQueryToken(t *testing.T) {
	t.Run("rewrites token query into the header", func(t *testing.T) {
		var got string
		handler := QueryToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		}))

		req := httptest.NewRequest(http.MethodGet, "/ws/chat?token=abc123", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "Bearer abc123", got)
	})

	t.Run("existing header wins", func(t *testing.T) {
		var got string
		handler := QueryToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		}))

		req := httptest.NewRequest(http.MethodGet, "/ws/chat?token=abc123", nil)
		req.Header.Set("Authorization", "Bearer original")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "Bearer original", got)
	})
}

func TestAuthenticate(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]models.Identity{
		"good": {Username: "alice", DisplayName: "Alice", Role: models.RoleHost},
	}}

	t.Run("valid token puts identity and token into context", func(t *testing.T) {
		var identity models.Identity
		var token string
		handler := Authenticate(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ = IdentityFromContext(r.Context())
			token, _ = TokenFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", identity.Username)
		assert.Equal(t, models.RoleHost, identity.Role)
		assert.Equal(t, "good", token)
	})

	t.Run("missing header is 401", func(t *testing.T) {
		called := false
		handler := Authenticate(resolver)(okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
		assert.Contains(t, rec.Body.String(), "error")
	})

	t.Run("unknown token is 401", func(t *testing.T) {
		called := false
		handler := Authenticate(resolver)(okHandler(&called))

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("malformed header is 401", func(t *testing.T) {
		called := false
		handler := Authenticate(resolver)(okHandler(&called))

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("query token works end to end", func(t *testing.T) {
		called := false
		handler := QueryToken(Authenticate(resolver)(okHandler(&called)))

		req := httptest.NewRequest(http.MethodGet, "/ws/chat?token=good", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}

func TestAuthorize(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]models.Identity{
		"viewer": {Username: "v", Role: models.RoleViewer},
		"admin":  {Username: "a", Role: models.RoleAdmin},
	}}

	protect := func(next http.Handler) http.Handler {
		return Authenticate(resolver)(Authorize(models.RoleHost, models.RoleAdmin)(next))
	}

	t.Run("allowed role passes", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer admin")
		rec := httptest.NewRecorder()
		protect(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("disallowed role is 403", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer viewer")
		rec := httptest.NewRecorder()
		protect(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, called)
	})

	t.Run("without authenticate it is 401", func(t *testing.T) {
		called := false
		rec := httptest.NewRecorder()
		Authorize(models.RoleAdmin)(okHandler(&called)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("over the limit is 429", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: false}
		called := false
		handler := RateLimit(limiter, "login", 5, time.Minute)(okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.False(t, called)
		assert.Equal(t, "login", limiter.scope)
	})

	t.Run("under the limit passes", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: true}
		called := false
		handler := RateLimit(limiter, "login", 5, time.Minute)(okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

		assert.True(t, called)
	})

	t.Run("identity scopes the counter, not the address", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: true}
		called := false
		handler := RateLimit(limiter, "chat", 10, time.Second)(okHandler(&called))

		req := httptest.NewRequest(http.MethodPost, "/chat/global", nil)
		ctx := context.WithValue(req.Context(), identityContextKey, models.Identity{Username: "alice"})
		handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

		assert.Equal(t, "alice", limiter.id)
	})

	t.Run("limiter failure does not block the request and is logged", func(t *testing.T) {
		var logs bytes.Buffer
		previous := slog.Default()
		slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
		defer slog.SetDefault(previous)

		limiter := &fakeLimiter{allowed: false, err: assert.AnError}
		called := false
		handler := RateLimit(limiter, "login", 5, time.Minute)(okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

		assert.True(t, called)
		assert.Contains(t, logs.String(), "rate limiter unavailable")
		assert.Contains(t, logs.String(), "scope=login")
	})
}

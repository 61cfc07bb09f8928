package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

// IdentityResolver резолвит непрозрачный токен в снапшот identity.
// Реализуется AuthService.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
}

// QueryToken переписывает ?token=... в заголовок Authorization до резолва
// identity. Заголовок, если он уже есть, имеет приоритет. Нужно для
// websocket-клиентов, которые не могут выставлять заголовки.
func QueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate извлекает bearer-токен, резолвит сессию и кладёт identity и
// токен в контекст запроса. Отсутствующая, истёкшая и нечитаемая сессии дают
// одинаковый 401.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, repositories.ErrSessionNotFound) {
					writeError(w, http.StatusUnauthorized, "session expired or invalid")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to resolve session")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, *identity)
			ctx = context.WithValue(ctx, tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize пропускает запрос, только если роль identity входит в roles.
// Вешается после Authenticate.
func Authorize(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "insufficient role")
		})
	}
}

// RateLimit ограничивает запросы фиксированным окном по ключу scope плюс
// identity (или удалённый адрес, если запрос анонимный). Ошибка кеша
// пропускает запрос: лимитер не должен ронять доступность.
func RateLimit(limiter repositories.RateLimitRepository, scope string, max int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.RemoteAddr
			if identity, ok := IdentityFromContext(r.Context()); ok {
				id = identity.Username
			}

			allowed, err := limiter.Allow(r.Context(), scope, id, max, window)
			if err != nil {
				slog.Warn("rate limiter unavailable, request allowed",
					slog.String("scope", scope),
					slog.String("error", err.Error()),
				)
			} else if !allowed {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext достаёт снапшот identity, положенный Authenticate.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(models.Identity)
	return identity, ok
}

// TokenFromContext достаёт исходный токен сессии (нужен logout).
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"error": message})
}

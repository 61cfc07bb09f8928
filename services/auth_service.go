package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// DefaultSessionTTL — время жизни сессии по умолчанию.
const DefaultSessionTTL = time.Hour

type LoginResult struct {
	Token            string          `json:"token"`
	ExpiresInSeconds int             `json:"expiresInSeconds"`
	User             models.Identity `json:"user"`
}

// AuthService выпускает и резолвит сессии. Снапшот identity неизменяем:
// смена роли пользователя не влияет на уже выданные сессии до перелогина.
type AuthService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	ttl      time.Duration
}

func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{users: users, sessions: sessions, ttl: ttl}
}

// Login сверяет учётные данные с узлом :User и выпускает непрозрачный токен.
// Пароль сравнивается как строка — поведение исходной системы, сохранено
// сознательно (см. DESIGN.md).
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.users.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	identity := models.Identity{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}
	if err := s.sessions.Set(ctx, token, identity, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &LoginResult{
		Token:            token,
		ExpiresInSeconds: int(s.ttl.Seconds()),
		User:             identity,
	}, nil
}

// Resolve возвращает снапшот identity по токену. Истёкшая и отсутствующая
// сессии неразличимы.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, repositories.ErrSessionNotFound
	}
	return s.sessions.Get(ctx, token)
}

// Logout немедленно удаляет сессию, не дожидаясь истечения TTL.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

func generateToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-master/internal/metrics"
)

var ErrInvalidCredentials = errors.New("invalid username or passkey")

// AuthService logs users in and out and gives access to their sessions.
type AuthService struct {
	users    UserRepository
	sessions SessionStore
	logger   *zap.Logger

	now      func() time.Time
	newToken func() string
}

func NewAuthService(users UserRepository, sessions SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Login checks the passkey and opens a new session.
func (s *AuthService) Login(ctx context.Context, username, passkey string) (*entities.UserSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || passkey == "" {
		metrics.LoginAttempts.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.LoginAttempts.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasskeyHash), []byte(passkey)); err != nil {
		metrics.LoginAttempts.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	sess := entities.NewUserSession(s.newToken(), user, s.now())
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))

	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Session returns the session behind a cookie token.
func (s *AuthService) Session(ctx context.Context, token string) (*entities.UserSession, error) {
	return s.sessions.Get(ctx, token)
}

// SaveSession writes back flashes and other session changes.
func (s *AuthService) SaveSession(ctx context.Context, sess *entities.UserSession) error {
	return s.sessions.Update(ctx, sess)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrCredentialsMissing = errors.New("username and passkey are required")
)

type UserService struct {
	repository UserRepository
	logger     *zap.Logger
}

func NewUserService(repository UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repository: repository, logger: logger}
}

// EnsureAdmin creates the administrator account if it does not exist yet.
func (s *UserService) EnsureAdmin(ctx context.Context, username, passkey string) error {
	_, err := s.repository.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := hashPasskey(passkey)
	if err != nil {
		return err
	}

	admin := entities.NewUser(username, hash, entities.RoleAdmin, "seeded administrator")
	if err := s.repository.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("administrator account created", zap.String("username", username))
	return nil
}

// CreateUser registers a quiz taker.
func (s *UserService) CreateUser(ctx context.Context, username, passkey, remarks string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || passkey == "" {
		return nil, ErrCredentialsMissing
	}

	hash, err := hashPasskey(passkey)
	if err != nil {
		return nil, err
	}

	user := entities.NewUser(username, hash, entities.RoleUser, strings.TrimSpace(remarks))
	if err := s.repository.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

// UpdateUser changes remarks and, when passkey is not empty, the passkey.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, passkey, remarks string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if passkey != "" {
		hash, err := hashPasskey(passkey)
		if err != nil {
			return err
		}
		user.PasskeyHash = hash
	}
	user.Remarks = strings.TrimSpace(remarks)

	return s.repository.Update(ctx, user)
}

// GetUser returns a quiz taker; administrators are not managed here.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	user, err := s.repository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != entities.RoleUser {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, search string) ([]*entities.User, error) {
	return s.repository.List(ctx, entities.RoleUser, strings.TrimSpace(search))
}

func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	return s.repository.Delete(ctx, userID, entities.RoleUser)
}

func hashPasskey(passkey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passkey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash passkey: %w", err)
	}
	return string(hash), nil
}

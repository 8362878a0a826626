package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

// Service defines the interface for user-related business logic.
type Service interface {
	// RegisterUser creates an account on behalf of a signed-in user with
	// role creator, who may only grant roles CanGrant allows.
	RegisterUser(ctx context.Context, creator Role, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	// EnsureAdmin creates an admin account for email unless one exists.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) RegisterUser(ctx context.Context, creator Role, req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if !creator.CanGrant(role) {
		s.log.Warn("account creation refused",
			zap.String("creator_role", string(creator)),
			zap.String("requested_role", string(role)))
		return nil, ErrRoleNotGrantable
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, apperr.Persistence("user_create_failed", "failed to create user", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(role)))
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("user_lookup_failed", "failed to load user", err)
	}
	return user, nil
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("look up admin: %w", err)
	}
	_, err = s.RegisterUser(ctx, RoleAdmin, RegisterRequest{Email: email, Password: password, Role: string(RoleAdmin)})
	return err
}

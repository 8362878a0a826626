package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/modules/user"
)

type service struct {
	userRepo user.Repository
	jwtKey   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new auth service signing HS256 tokens with secret.
func NewService(userRepo user.Repository, secret string, ttl time.Duration) Service {
	return &service{userRepo: userRepo, jwtKey: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *service) Login(ctx context.Context, email, password string) (*Token, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Persistence("user_lookup_failed", "failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expirationTime := s.now().Add(s.ttl)
	c := &claims{
		Role: string(u.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			IssuedAt:  s.now().Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		AccessToken: tokenString,
		ExpiresAt:   expirationTime.Unix(),
		Identity:    Identity{CashierID: u.ID, Role: u.Role},
	}, nil
}

func (s *service) Verify(tokenString string) (Identity, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	role, err := user.ParseRole(c.Role)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{CashierID: id, Role: role}, nil
}

package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/modules/user"
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid_credentials", "invalid credentials")
	ErrInvalidToken       = apperr.Unauthorized("invalid_token", "missing or invalid access token")
	ErrForbidden          = apperr.Unauthorized("forbidden", "role is not allowed to perform this action")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*Token, error)
	// Verify parses an access token into the identity it was issued for.
	Verify(token string) (Identity, error)
}

// Identity is the signed-in cashier a request acts for.
type Identity struct {
	CashierID uuid.UUID `json:"cashier_id"`
	Role      user.Role `json:"role"`
}

func (i Identity) IsPrivileged() bool { return i.Role.Privileged() }

// Token is the login response.
type Token struct {
	AccessToken string   `json:"access_token"`
	ExpiresAt   int64    `json:"expires_at"`
	Identity    Identity `json:"identity"`
}

type claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

// Role decides what a signed-in account may do at the till.
type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Privileged roles are exempt from the discount cap and may create accounts.
func (r Role) Privileged() bool { return r == RoleManager || r == RoleAdmin }

// CanGrant reports whether an account with role r may create an account
// with role target. Admins may grant any role; everyone else only roles
// below their own.
func (r Role) CanGrant(target Role) bool {
	return r == RoleAdmin || target.rank() < r.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleCashier:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCashier, RoleManager, RoleAdmin:
		return r, nil
	case "":
		return RoleCashier, nil
	}
	return "", ErrUnknownRole
}

var (
	ErrUserNotFound     = apperr.NotFound("user_not_found", "user not found")
	ErrEmailTaken       = apperr.Validation("email_taken", "an account with this email already exists")
	ErrUnknownRole      = apperr.Validation("unknown_role", "role must be one of cashier, manager, admin")
	ErrWeakPassword     = apperr.Validation("weak_password", "password must be at least 8 characters")
	ErrEmailRequired    = apperr.Validation("email_required", "email is required")
	ErrRoleNotGrantable = apperr.Unauthorized("role_not_grantable", "your role cannot create accounts with this role")
)

// User is a till operator account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

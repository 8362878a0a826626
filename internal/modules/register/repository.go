package register

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for register sessions.
type Repository interface {
	// Insert stores a new open session; ErrAlreadyOpen if the cashier has one.
	Insert(ctx context.Context, s *Session) error
	// GetOpen returns the cashier's open session or sql.ErrNoRows.
	GetOpen(ctx context.Context, cashierID uuid.UUID) (*Session, error)
	// Close writes the closing fields; ErrNotOpen if s is no longer open.
	Close(ctx context.Context, s *Session) error
	ListClosed(ctx context.Context, cashierID uuid.UUID, limit int) ([]*Session, error)
	// SalesSince returns the cashier's sales committed at or after since.
	SalesSince(ctx context.Context, cashierID uuid.UUID, since time.Time) ([]SaleTally, error)
}

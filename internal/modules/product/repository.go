package product

import (
	"context"

	"github.com/google/uuid"
)

// Repository reads products. Product maintenance belongs to the catalogue
// service; the till never writes here.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Search(ctx context.Context, term string, limit int) ([]*Product, error)
}

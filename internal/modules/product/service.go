package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

// Service looks up sellable products for the till.
type Service interface {
	// Sellable returns an active product with its current stock.
	Sellable(ctx context.Context, id uuid.UUID) (*Product, error)
	Search(ctx context.Context, term string, limit int) ([]*Product, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Sellable(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrProductNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("product_lookup_failed", "failed to load product", err)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("product %s: %w", id, ErrProductInactive)
	}
	return p, nil
}

func (s *service) Search(ctx context.Context, term string, limit int) ([]*Product, error) {
	if limit < 1 || limit > 100 {
		limit = 25
	}
	products, err := s.repo.Search(ctx, strings.TrimSpace(term), limit)
	if err != nil {
		return nil, apperr.Persistence("product_search_failed", "failed to search products", err)
	}
	return products, nil
}

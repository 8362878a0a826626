package product

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p := &Product{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, selling_price, stock_quantity, is_active, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.SellingPrice, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Search(ctx context.Context, term string, limit int) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, selling_price, stock_quantity, is_active, created_at, updated_at
		FROM products
		WHERE is_active AND name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2`, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.SellingPrice, &p.StockQuantity,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

package customer

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c := &Customer{}
	var phone, email sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, outstanding_balance, created_at, updated_at
		FROM customers WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &phone, &email, &c.OutstandingBalance, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Phone, c.Email = phone.String, email.String
	return c, nil
}

func (r *postgresRepo) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		UPDATE customers
		SET outstanding_balance = GREATEST(0, outstanding_balance + $1), updated_at = NOW()
		WHERE id=$2
		RETURNING outstanding_balance`, delta, id).Scan(&balance)
	return balance, err
}

package suspend

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Insert(ctx context.Context, o *Order) error {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshal lines: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO suspended_orders (id, cashier_id, label, lines, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		o.ID, o.CashierID, o.Label, lines, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert suspended_order: %w", err)
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, cashierID, id uuid.UUID) (*Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx, `
		SELECT id, cashier_id, label, lines, created_at
		FROM suspended_orders WHERE id=$1 AND cashier_id=$2`, id, cashierID))
}

func (r *postgresRepo) ListByCashier(ctx context.Context, cashierID uuid.UUID) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cashier_id, label, lines, created_at
		FROM suspended_orders WHERE cashier_id=$1 ORDER BY created_at ASC`, cashierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) Delete(ctx context.Context, cashierID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM suspended_orders WHERE id=$1 AND cashier_id=$2`, id, cashierID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type scanner interface{ Scan(dest ...interface{}) error }

func scanOrder(row scanner) (*Order, error) {
	o := &Order{}
	var lines []byte
	if err := row.Scan(&o.ID, &o.CashierID, &o.Label, &lines, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal lines of %s: %w", o.ID, err)
	}
	return o, nil
}

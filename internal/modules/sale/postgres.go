package sale

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const saleColumns = `id, cashier_id, customer_id, subtotal, discount_amount, tax_amount,
	total_amount, payment_method, amount_paid, change_given, created_at`

func (r *postgresRepo) InsertSale(ctx context.Context, s *Sale) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		s.ID, s.CashierID, s.CustomerID, s.Subtotal, s.DiscountAmount, s.TaxAmount,
		s.TotalAmount, s.PaymentMethod, s.AmountPaid, s.ChangeGiven, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// InsertItems writes all items inside one transaction.
func (r *postgresRepo) InsertItems(ctx context.Context, items []Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, it := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items
			  (id, sale_id, product_id, product_name, quantity, unit_price, total_price, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			it.ID, it.SaleID, it.ProductID, it.ProductName,
			it.Quantity, it.UnitPrice, it.TotalPrice, it.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert sale_item: %w", err)
		}
	}
	return tx.Commit()
}

// InsertPayments writes all payments inside one transaction.
func (r *postgresRepo) InsertPayments(ctx context.Context, payments []Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range payments {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_payments (id, sale_id, method, amount, created_at)
			VALUES ($1,$2,$3,$4,$5)`,
			p.ID, p.SaleID, p.Method, p.Amount, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert sale_payment: %w", err)
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id=$1`, saleID)
	return err
}

func (r *postgresRepo) DeleteItems(ctx context.Context, saleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id=$1`, saleID)
	return err
}

func (r *postgresRepo) DeletePayments(ctx context.Context, saleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sale_payments WHERE sale_id=$1`, saleID)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	s, err := scanSale(r.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if s.Items, err = r.listItems(ctx, id); err != nil {
		return nil, err
	}
	if s.Payments, err = r.listPayments(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) ListByCashier(ctx context.Context, cashierID uuid.UUID, limit int) ([]*Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE cashier_id=$1 ORDER BY created_at DESC LIMIT $2`, cashierID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sales []*Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

type scanner interface{ Scan(dest ...interface{}) error }

func scanSale(row scanner) (*Sale, error) {
	s := &Sale{}
	var customerID uuid.NullUUID
	err := row.Scan(&s.ID, &s.CashierID, &customerID, &s.Subtotal, &s.DiscountAmount,
		&s.TaxAmount, &s.TotalAmount, &s.PaymentMethod, &s.AmountPaid, &s.ChangeGiven, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		id := customerID.UUID
		s.CustomerID = &id
	}
	return s, nil
}

func (r *postgresRepo) listItems(ctx context.Context, saleID uuid.UUID) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price, total_price, created_at
		FROM sale_items WHERE sale_id=$1 ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) listPayments(ctx context.Context, saleID uuid.UUID) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_id, method, amount, created_at
		FROM sale_payments WHERE sale_id=$1 ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

package register

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/modules/payment"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const sessionColumns = `id, cashier_id, status, opening_amount, opening_notes, opened_at,
	closing_amount, expected_amount, variance, cash_sales, card_sales, mobile_money_sales,
	credit_sales, transaction_count, closing_notes, closed_at`

func (r *postgresRepo) Insert(ctx context.Context, s *Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cash_registers (id, cashier_id, status, opening_amount, opening_notes, opened_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.CashierID, s.Status, s.OpeningAmount, s.OpeningNotes, s.OpenedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyOpen
	}
	if err != nil {
		return fmt.Errorf("insert cash_register: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetOpen(ctx context.Context, cashierID uuid.UUID) (*Session, error) {
	return scanSession(r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM cash_registers
		WHERE cashier_id=$1 AND status=$2`, cashierID, StatusOpen))
}

func (r *postgresRepo) Close(ctx context.Context, s *Session) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cash_registers SET
		  status=$1, closing_amount=$2, expected_amount=$3, variance=$4,
		  cash_sales=$5, card_sales=$6, mobile_money_sales=$7, credit_sales=$8,
		  transaction_count=$9, closing_notes=$10, closed_at=$11
		WHERE id=$12 AND status=$13`,
		StatusClosed, s.ClosingAmount, s.ExpectedAmount, s.Variance,
		s.CashSales, s.CardSales, s.MobileMoneySales, s.CreditSales,
		s.TransactionCount, s.ClosingNotes, s.ClosedAt, s.ID, StatusOpen)
	if err != nil {
		return fmt.Errorf("close cash_register: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotOpen
	}
	return nil
}

func (r *postgresRepo) ListClosed(ctx context.Context, cashierID uuid.UUID, limit int) ([]*Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM cash_registers
		WHERE cashier_id=$1 AND status=$2
		ORDER BY closed_at DESC LIMIT $3`, cashierID, StatusClosed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *postgresRepo) SalesSince(ctx context.Context, cashierID uuid.UUID, since time.Time) ([]SaleTally, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.payment_method, s.total_amount, s.change_given, p.method, p.amount
		FROM sales s
		LEFT JOIN sale_payments p ON p.sale_id = s.id
		WHERE s.cashier_id=$1 AND s.created_at >= $2
		ORDER BY s.created_at, s.id`, cashierID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tallies []SaleTally
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var t SaleTally
		var method sql.NullString
		var amount decimal.NullDecimal
		if err := rows.Scan(&t.SaleID, &t.PaymentMethod, &t.Total, &t.Change, &method, &amount); err != nil {
			return nil, err
		}
		i, seen := index[t.SaleID]
		if !seen {
			i = len(tallies)
			index[t.SaleID] = i
			tallies = append(tallies, t)
		}
		if method.Valid && amount.Valid {
			tallies[i].Tenders = append(tallies[i].Tenders, Tender{Method: payment.Method(method.String), Amount: amount.Decimal})
		}
	}
	return tallies, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

type scanner interface{ Scan(dest ...interface{}) error }

func scanSession(row scanner) (*Session, error) {
	s := &Session{}
	var (
		closing, expected, variance, cash, card, mobile, credit decimal.NullDecimal
		count                                                   sql.NullInt64
		closedAt                                                sql.NullTime
	)
	err := row.Scan(&s.ID, &s.CashierID, &s.Status, &s.OpeningAmount, &s.OpeningNotes, &s.OpenedAt,
		&closing, &expected, &variance, &cash, &card, &mobile, &credit,
		&count, &s.ClosingNotes, &closedAt)
	if err != nil {
		return nil, err
	}
	s.ClosingAmount = decimalPtr(closing)
	s.ExpectedAmount = decimalPtr(expected)
	s.Variance = decimalPtr(variance)
	s.CashSales = decimalPtr(cash)
	s.CardSales = decimalPtr(card)
	s.MobileMoneySales = decimalPtr(mobile)
	s.CreditSales = decimalPtr(credit)
	if count.Valid {
		n := int(count.Int64)
		s.TransactionCount = &n
	}
	if closedAt.Valid {
		t := closedAt.Time
		s.ClosedAt = &t
	}
	return s, nil
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

package settings

import (
	"context"
	"database/sql"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Get(ctx context.Context) (*Settings, error) {
	s := &Settings{}
	err := r.db.QueryRowContext(ctx, `
		SELECT store_name, address, phone, tax_rate, discount_cap_percent,
		       low_stock_threshold, receipt_footer, currency, updated_at
		FROM store_settings WHERE id = 1`).
		Scan(&s.StoreName, &s.Address, &s.Phone, &s.TaxRatePercent, &s.DiscountCapPercent,
			&s.LowStockThreshold, &s.ReceiptFooter, &s.Currency, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

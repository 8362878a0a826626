package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/money"
	"github.com/georgemunganga/printa-pos/internal/modules/cart"
	"github.com/georgemunganga/printa-pos/internal/modules/payment"
	"github.com/georgemunganga/printa-pos/internal/modules/receipt"
	"github.com/georgemunganga/printa-pos/internal/modules/settings"
	"github.com/georgemunganga/printa-pos/internal/platform/events"
	"github.com/georgemunganga/printa-pos/internal/platform/metrics"
)

const (
	compensationTimeout = 10 * time.Second
	printTimeout        = 3 * time.Second
)

// Service records sales.
type Service interface {
	// Commit validates and durably records a sale, then hands its receipt to
	// the printer. On error nothing the caller holds should be discarded.
	Commit(ctx context.Context, req CommitRequest) (*receipt.Receipt, error)
	Get(ctx context.Context, id uuid.UUID) (*Sale, error)
	Recent(ctx context.Context, cashierID uuid.UUID, limit int) ([]*Sale, error)
}

// CreditLedger raises a customer's outstanding balance.
type CreditLedger interface {
	ChargeCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) error
}

type service struct {
	repo    Repository
	credit  CreditLedger
	store   settings.Service
	printer receipt.Printer
	bus     events.Publisher
	metrics *metrics.Recorder
	log     *zap.Logger
	now     func() time.Time
}

func NewService(
	repo Repository,
	credit CreditLedger,
	store settings.Service,
	printer receipt.Printer,
	bus events.Publisher,
	rec *metrics.Recorder,
	log *zap.Logger,
) Service {
	return &service{
		repo:    repo,
		credit:  credit,
		store:   store,
		printer: printer,
		bus:     bus,
		metrics: rec,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Commit(ctx context.Context, req CommitRequest) (*receipt.Receipt, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	gross := decimal.Zero
	for _, l := range req.Lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("product %s: %w", l.ProductID, cart.ErrInvalidQuantity)
		}
		if err := money.Check(l.UnitPrice); err != nil {
			return nil, fmt.Errorf("product %s: %w", l.ProductID, err)
		}
		if l.UnitPrice.LessThan(l.SellingPrice) {
			return nil, fmt.Errorf("product %s: %w", l.ProductID, cart.ErrBelowFloor)
		}
		gross = gross.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if err := money.Check(req.Discount); err != nil {
		return nil, err
	}
	totals := cart.Compute(gross, req.TaxRate, req.Discount)

	alloc, err := payment.FromEntries(totals.Total, req.Payments)
	if err != nil {
		return nil, err
	}
	if err := alloc.Validate(req.CustomerID != nil); err != nil {
		return nil, err
	}

	store, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}

	sale := s.build(req, totals, alloc)
	if err := s.persist(ctx, sale, alloc.CreditAmount()); err != nil {
		return nil, err
	}

	s.log.Info("sale committed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("cashier_id", sale.CashierID.String()),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
		zap.String("payment_method", sale.PaymentMethod))

	r := projectReceipt(sale, store)
	// The sale is durable; a dropped client must not cancel the hand-off.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), printTimeout)
	defer cancel()
	if err := s.printer.Print(pctx, r); err != nil {
		s.log.Warn("receipt hand-off failed", zap.String("sale_id", sale.ID.String()), zap.Error(err))
	}
	events.PublishAsync(s.bus, s.log, events.Event{
		Type:      events.SaleCommitted,
		CashierID: sale.CashierID,
		SaleID:    sale.ID,
		At:        sale.CreatedAt,
	})
	return r, nil
}

func (s *service) build(req CommitRequest, totals cart.Totals, alloc *payment.Allocator) *Sale {
	now := s.now()
	sale := &Sale{
		ID:             uuid.New(),
		CashierID:      req.CashierID,
		CustomerID:     req.CustomerID,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.Discount,
		TaxAmount:      totals.Tax,
		TotalAmount:    totals.Total,
		PaymentMethod:  alloc.Label(),
		AmountPaid:     alloc.Paid(),
		ChangeGiven:    alloc.Change(),
		CreatedAt:      now,
	}
	for _, l := range req.Lines {
		sale.Items = append(sale.Items, Item{
			ID:          uuid.New(),
			SaleID:      sale.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalPrice:  l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
			CreatedAt:   now,
		})
	}
	// One row per entry, zero amounts included.
	for _, e := range alloc.Entries() {
		sale.Payments = append(sale.Payments, Payment{
			ID:        uuid.New(),
			SaleID:    sale.ID,
			Method:    e.Method,
			Amount:    e.Amount,
			CreatedAt: now,
		})
	}
	return sale
}

// step is one write of the commit and the delete that reverses it.
type step struct {
	name string
	do   func(ctx context.Context) error
	undo func(ctx context.Context) error
}

// persist writes header, items, payments and the credit balance in order.
// A failing write undoes every completed one in reverse.
func (s *service) persist(ctx context.Context, sale *Sale, credit decimal.Decimal) error {
	steps := []step{
		{
			name: StepHeader,
			do:   func(ctx context.Context) error { return s.repo.InsertSale(ctx, sale) },
			undo: func(ctx context.Context) error { return s.repo.DeleteSale(ctx, sale.ID) },
		},
		{
			name: StepItems,
			do:   func(ctx context.Context) error { return s.repo.InsertItems(ctx, sale.Items) },
			undo: func(ctx context.Context) error { return s.repo.DeleteItems(ctx, sale.ID) },
		},
	}
	steps = append(steps, step{
		name: StepPayments,
		do:   func(ctx context.Context) error { return s.repo.InsertPayments(ctx, sale.Payments) },
		undo: func(ctx context.Context) error { return s.repo.DeletePayments(ctx, sale.ID) },
	})
	if credit.IsPositive() && sale.CustomerID != nil {
		steps = append(steps, step{
			name: StepCredit,
			do: func(ctx context.Context) error {
				return s.credit.ChargeCredit(ctx, *sale.CustomerID, credit)
			},
		})
	}

	for i, st := range steps {
		if err := st.do(ctx); err != nil {
			s.metrics.Step(st.name, "failed")
			return s.compensate(ctx, sale.ID, st.name, steps[:i], err)
		}
		s.metrics.Step(st.name, "ok")
	}
	return nil
}

func (s *service) compensate(ctx context.Context, saleID uuid.UUID, failed string, done []step, cause error) error {
	log := s.log.With(zap.String("sale_id", saleID.String()), zap.String("step", failed))

	// The request may already be cancelled; undo must still run.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	for i := len(done) - 1; i >= 0; i-- {
		if err := done[i].undo(ctx); err != nil {
			s.metrics.Step(failed, "reconcile")
			log.Error("sale compensation failed, manual reconciliation required",
				zap.String("undo_step", done[i].name),
				zap.NamedError("cause", cause),
				zap.Error(err))
			return &CommitError{SaleID: saleID, Step: failed, Err: cause, UndoErr: err}
		}
	}
	if len(done) > 0 {
		s.metrics.Step(failed, "compensated")
	}
	log.Warn("sale commit failed", zap.Int("undone_steps", len(done)), zap.Error(cause))
	return &CommitError{SaleID: saleID, Step: failed, Compensated: true, Err: cause}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	sale, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sale %s: %w", id, ErrSaleNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("sale_lookup_failed", "failed to load sale", err)
	}
	return sale, nil
}

func (s *service) Recent(ctx context.Context, cashierID uuid.UUID, limit int) ([]*Sale, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sales, err := s.repo.ListByCashier(ctx, cashierID, limit)
	if err != nil {
		return nil, apperr.Persistence("sale_list_failed", "failed to list sales", err)
	}
	return sales, nil
}

func projectReceipt(sale *Sale, store *settings.Settings) *receipt.Receipt {
	r := &receipt.Receipt{
		SaleID:        sale.ID,
		Store:         receipt.Store{Name: store.StoreName, Address: store.Address, Phone: store.Phone},
		CashierID:     sale.CashierID,
		CustomerID:    sale.CustomerID,
		Subtotal:      sale.Subtotal,
		Discount:      sale.DiscountAmount,
		Tax:           sale.TaxAmount,
		Total:         sale.TotalAmount,
		PaymentMethod: sale.PaymentMethod,
		AmountPaid:    sale.AmountPaid,
		Change:        sale.ChangeGiven,
		Currency:      store.Currency,
		Footer:        store.ReceiptFooter,
		IssuedAt:      sale.CreatedAt,
	}
	for _, it := range sale.Items {
		r.Lines = append(r.Lines, receipt.Line{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.TotalPrice,
		})
	}
	for _, p := range sale.Payments {
		if p.Amount.IsZero() {
			continue
		}
		r.Payments = append(r.Payments, receipt.Payment{Method: string(p.Method), Amount: p.Amount})
	}
	return r
}

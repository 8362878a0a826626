package till

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/money"
	"github.com/georgemunganga/printa-pos/internal/modules/auth"
	"github.com/georgemunganga/printa-pos/internal/modules/cart"
	"github.com/georgemunganga/printa-pos/internal/modules/customer"
	"github.com/georgemunganga/printa-pos/internal/modules/payment"
	"github.com/georgemunganga/printa-pos/internal/modules/product"
	"github.com/georgemunganga/printa-pos/internal/modules/receipt"
	"github.com/georgemunganga/printa-pos/internal/modules/register"
	"github.com/georgemunganga/printa-pos/internal/modules/sale"
	"github.com/georgemunganga/printa-pos/internal/modules/settings"
	"github.com/georgemunganga/printa-pos/internal/modules/suspend"
)

var (
	ErrDiscountExceedsCap = apperr.Validation("discount_exceeds_cap", "discount exceeds the allowed share of the cart for this role")
	ErrNegativeDiscount   = apperr.Validation("negative_discount", "discount cannot be negative")
)

// Collaborators the till drives. Each is satisfied by the matching module
// service.
type (
	Catalog interface {
		Sellable(ctx context.Context, id uuid.UUID) (*product.Product, error)
	}
	Customers interface {
		Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
	}
	Sales interface {
		Commit(ctx context.Context, req sale.CommitRequest) (*receipt.Receipt, error)
	}
	Registers interface {
		Current(ctx context.Context, cashierID uuid.UUID) (*register.Session, error)
		Open(ctx context.Context, cashierID uuid.UUID, req register.OpenRequest) (*register.Session, error)
		Close(ctx context.Context, cashierID uuid.UUID, req register.CloseRequest) (*register.CloseResult, error)
	}
	Suspended interface {
		Suspend(ctx context.Context, cashierID uuid.UUID, label string, lines []cart.Line) (*suspend.Order, error)
		Resume(ctx context.Context, cashierID, id uuid.UUID, c *cart.Engine) (*suspend.Order, error)
	}
	Settings interface {
		Current(ctx context.Context) (*settings.Settings, error)
	}
)

// View is the till as shown to the cashier.
type View struct {
	CashierID   uuid.UUID         `json:"cashier_id"`
	Lines       []cart.Line       `json:"lines"`
	Totals      cart.Totals       `json:"totals"`
	DiscountCap *decimal.Decimal  `json:"discount_cap,omitempty"`
	Payments    payment.Summary   `json:"payments"`
	CustomerID  *uuid.UUID        `json:"customer_id,omitempty"`
	Register    *register.Session `json:"register,omitempty"`
}

// Service runs the till for signed-in cashiers.
type Service interface {
	View(ctx context.Context, id auth.Identity) (*View, error)
	AddItem(ctx context.Context, id auth.Identity, req AddItemRequest) (*View, error)
	UpdateItem(ctx context.Context, id auth.Identity, productID uuid.UUID, req UpdateItemRequest) (*View, error)
	RemoveItem(ctx context.Context, id auth.Identity, productID uuid.UUID) (*View, error)
	SetDiscount(ctx context.Context, id auth.Identity, amount decimal.Decimal) (*View, error)
	SelectCustomer(ctx context.Context, id auth.Identity, customerID *uuid.UUID) (*View, error)
	AddPayment(ctx context.Context, id auth.Identity) (*View, error)
	UpdatePayment(ctx context.Context, id auth.Identity, entryID int, p payment.Patch) (*View, error)
	FillPayment(ctx context.Context, id auth.Identity, entryID int) (*View, error)
	RemovePayment(ctx context.Context, id auth.Identity, entryID int) (*View, error)
	// Clear abandons the current transaction.
	Clear(ctx context.Context, id auth.Identity) (*View, error)
	// Checkout commits the cart. The session is cleared only on success.
	Checkout(ctx context.Context, id auth.Identity) (*receipt.Receipt, error)
	Suspend(ctx context.Context, id auth.Identity, label string) (*suspend.Order, error)
	Resume(ctx context.Context, id auth.Identity, orderID uuid.UUID) (*View, error)
	OpenRegister(ctx context.Context, id auth.Identity, req register.OpenRequest) (*register.Session, error)
	// CloseRegister clears the session's open register only once the close
	// has been recorded and its summary is in hand.
	CloseRegister(ctx context.Context, id auth.Identity, req register.CloseRequest) (*register.CloseResult, error)
}

type AddItemRequest struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type UpdateItemRequest struct {
	Quantity  *int             `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type service struct {
	sessions  *Manager
	catalog   Catalog
	customers Customers
	sales     Sales
	registers Registers
	suspended Suspended
	settings  Settings
	log       *zap.Logger
}

func NewService(
	sessions *Manager,
	catalog Catalog,
	customers Customers,
	sales Sales,
	registers Registers,
	suspended Suspended,
	settings Settings,
	log *zap.Logger,
) Service {
	return &service{
		sessions:  sessions,
		catalog:   catalog,
		customers: customers,
		sales:     sales,
		registers: registers,
		suspended: suspended,
		settings:  settings,
		log:       log,
	}
}

// with runs fn on the cashier's locked session.
func (t *service) with(ctx context.Context, id auth.Identity, fn func(s *Session) error) error {
	s := t.sessions.Acquire(id.CashierID, id.Role)
	defer t.sessions.Release(s)

	if !s.hydrated {
		r, err := t.registers.Current(ctx, id.CashierID)
		switch {
		case err == nil:
			s.Register = r
		case !errors.Is(err, register.ErrNotOpen):
			return err
		}
		s.hydrated = true
	}
	return fn(s)
}

// view prices the session and brings the allocator total up to date.
func (t *service) view(ctx context.Context, s *Session) (*View, error) {
	st, err := t.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	totals := s.Cart.Totals(st.TaxRate(), s.Discount)
	s.Payments.SetTotal(totals.Total)

	v := &View{
		CashierID:  s.CashierID,
		Lines:      s.Cart.Lines(),
		Totals:     totals,
		Payments:   s.Payments.Summary(),
		CustomerID: s.Customer,
		Register:   s.Register,
	}
	if !s.Role.Privileged() {
		c := cart.DiscountCap(totals.Gross, st.DiscountCapPercent)
		v.DiscountCap = &c
	}
	return v, nil
}

func (t *service) viewAfter(ctx context.Context, id auth.Identity, fn func(s *Session) error) (*View, error) {
	var v *View
	err := t.with(ctx, id, func(s *Session) error {
		opErr := fn(s)
		var err error
		if v, err = t.view(ctx, s); err != nil {
			return err
		}
		return opErr
	})
	return v, err
}

func (t *service) View(ctx context.Context, id auth.Identity) (*View, error) {
	return t.viewAfter(ctx, id, func(*Session) error { return nil })
}

func (t *service) AddItem(ctx context.Context, id auth.Identity, req AddItemRequest) (*View, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	p, err := t.catalog.Sellable(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	line := cart.Line{
		ProductID:    p.ID,
		ProductName:  p.Name,
		SellingPrice: p.SellingPrice,
		Quantity:     req.Quantity,
		Stock:        p.StockQuantity,
	}
	if req.UnitPrice != nil {
		line.UnitPrice = *req.UnitPrice
	}
	return t.mutate(ctx, id, func(s *Session) error { return s.Cart.Add(line) })
}

func (t *service) UpdateItem(ctx context.Context, id auth.Identity, productID uuid.UUID, req UpdateItemRequest) (*View, error) {
	return t.viewAfter(ctx, id, func(s *Session) error {
		if req.Quantity != nil {
			if err := s.Cart.SetQuantity(productID, *req.Quantity); err != nil {
				return err
			}
		}
		if req.UnitPrice != nil {
			// The price is clamped even when ErrBelowFloor is returned.
			if _, err := s.Cart.SetUnitPrice(productID, *req.UnitPrice); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t *service) RemoveItem(ctx context.Context, id auth.Identity, productID uuid.UUID) (*View, error) {
	return t.mutate(ctx, id, func(s *Session) error { return s.Cart.Remove(productID) })
}

func (t *service) SetDiscount(ctx context.Context, id auth.Identity, amount decimal.Decimal) (*View, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeDiscount
	}
	if err := money.Check(amount); err != nil {
		return nil, err
	}
	return t.mutate(ctx, id, func(s *Session) error {
		if err := t.checkCap(ctx, s, amount); err != nil {
			return err
		}
		s.Discount = amount
		return nil
	})
}

func (t *service) SelectCustomer(ctx context.Context, id auth.Identity, customerID *uuid.UUID) (*View, error) {
	if customerID != nil {
		if _, err := t.customers.Get(ctx, *customerID); err != nil {
			return nil, err
		}
	}
	return t.mutate(ctx, id, func(s *Session) error {
		s.Customer = customerID
		return nil
	})
}

func (t *service) AddPayment(ctx context.Context, id auth.Identity) (*View, error) {
	return t.withTotal(ctx, id, func(s *Session) error {
		_, err := s.Payments.Add()
		return err
	})
}

func (t *service) UpdatePayment(ctx context.Context, id auth.Identity, entryID int, p payment.Patch) (*View, error) {
	return t.withTotal(ctx, id, func(s *Session) error {
		_, err := s.Payments.Update(entryID, p)
		return err
	})
}

func (t *service) FillPayment(ctx context.Context, id auth.Identity, entryID int) (*View, error) {
	return t.withTotal(ctx, id, func(s *Session) error {
		_, err := s.Payments.FillRemaining(entryID)
		return err
	})
}

func (t *service) RemovePayment(ctx context.Context, id auth.Identity, entryID int) (*View, error) {
	return t.withTotal(ctx, id, func(s *Session) error { return s.Payments.Remove(entryID) })
}

func (t *service) Clear(ctx context.Context, id auth.Identity) (*View, error) {
	return t.mutate(ctx, id, func(s *Session) error {
		s.Clear()
		return nil
	})
}

func (t *service) Checkout(ctx context.Context, id auth.Identity) (*receipt.Receipt, error) {
	var r *receipt.Receipt
	err := t.with(ctx, id, func(s *Session) error {
		if s.Register == nil {
			return register.ErrNotOpen
		}
		st, err := t.settings.Current(ctx)
		if err != nil {
			return err
		}
		if err := t.checkCap(ctx, s, s.Discount); err != nil {
			return err
		}
		r, err = t.sales.Commit(ctx, sale.CommitRequest{
			CashierID:  s.CashierID,
			CustomerID: s.Customer,
			Lines:      s.Cart.Lines(),
			Payments:   s.Payments.Entries(),
			Discount:   s.Discount,
			TaxRate:    st.TaxRate(),
		})
		if err != nil {
			return err
		}
		s.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (t *service) Suspend(ctx context.Context, id auth.Identity, label string) (*suspend.Order, error) {
	var o *suspend.Order
	err := t.with(ctx, id, func(s *Session) error {
		var err error
		o, err = t.suspended.Suspend(ctx, s.CashierID, label, s.Cart.Lines())
		if err != nil {
			return err
		}
		if o != nil {
			s.Clear()
		}
		return nil
	})
	return o, err
}

func (t *service) Resume(ctx context.Context, id auth.Identity, orderID uuid.UUID) (*View, error) {
	return t.mutate(ctx, id, func(s *Session) error {
		_, err := t.suspended.Resume(ctx, s.CashierID, orderID, s.Cart)
		return err
	})
}

func (t *service) OpenRegister(ctx context.Context, id auth.Identity, req register.OpenRequest) (*register.Session, error) {
	var opened *register.Session
	err := t.with(ctx, id, func(s *Session) error {
		r, err := t.registers.Open(ctx, s.CashierID, req)
		if err != nil {
			return err
		}
		s.Register = r
		opened = r
		return nil
	})
	return opened, err
}

func (t *service) CloseRegister(ctx context.Context, id auth.Identity, req register.CloseRequest) (*register.CloseResult, error) {
	var res *register.CloseResult
	err := t.with(ctx, id, func(s *Session) error {
		var err error
		res, err = t.registers.Close(ctx, s.CashierID, req)
		if err != nil {
			if errors.Is(err, register.ErrNotOpen) {
				s.Register = nil
			}
			return err
		}
		s.Register = nil
		return nil
	})
	return res, err
}

// mutate applies fn and returns the updated view, or only the error.
func (t *service) mutate(ctx context.Context, id auth.Identity, fn func(s *Session) error) (*View, error) {
	v, err := t.viewAfter(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// withTotal refreshes the allocator total before fn so pre-filled amounts
// reflect the current cart.
func (t *service) withTotal(ctx context.Context, id auth.Identity, fn func(s *Session) error) (*View, error) {
	return t.mutate(ctx, id, func(s *Session) error {
		if _, err := t.view(ctx, s); err != nil {
			return err
		}
		return fn(s)
	})
}

// checkCap rejects discounts above the role's cap. Privileged roles are
// exempt.
func (t *service) checkCap(ctx context.Context, s *Session, amount decimal.Decimal) error {
	if s.Role.Privileged() || !amount.IsPositive() {
		return nil
	}
	st, err := t.settings.Current(ctx)
	if err != nil {
		return err
	}
	limit := cart.DiscountCap(s.Cart.Gross(), st.DiscountCapPercent)
	if amount.GreaterThan(limit) {
		return fmt.Errorf("discount %s above cap %s: %w", amount.StringFixed(2), limit.StringFixed(2), ErrDiscountExceedsCap)
	}
	return nil
}

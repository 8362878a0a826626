package payment

import (
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/money"
)

// Allocator splits a sale total across payment methods, one entry per method.
// It always holds at least one entry. Like the cart it belongs to a single
// cashier session.
type Allocator struct {
	entries []Entry
	total   decimal.Decimal
	nextID  int
}

// NewAllocator starts with a single zero cash entry.
func NewAllocator() *Allocator {
	a := &Allocator{}
	a.Reset()
	return a
}

// FromEntries rebuilds an allocator from entries submitted for a commit,
// enforcing the same rules the interactive operations do.
func FromEntries(total decimal.Decimal, entries []Entry) (*Allocator, error) {
	if len(entries) == 0 {
		return nil, ErrLastEntry
	}
	a := &Allocator{nextID: 1, total: total}
	for _, e := range entries {
		m, err := ParseMethod(string(e.Method))
		if err != nil {
			return nil, err
		}
		if a.hasMethod(m, 0) {
			return nil, ErrDuplicateMethod
		}
		if e.Amount.IsNegative() {
			return nil, ErrNegativeAmount
		}
		if err := money.Check(e.Amount); err != nil {
			return nil, err
		}
		a.entries = append(a.entries, Entry{ID: a.newID(), Method: m, Amount: e.Amount})
	}
	return a, nil
}

// Reset returns to a single zero cash entry against a zero total.
func (a *Allocator) Reset() {
	a.nextID = 1
	a.total = decimal.Zero
	a.entries = []Entry{{ID: a.newID(), Method: MethodCash, Amount: decimal.Zero}}
}

// SetTotal updates the amount that must be covered.
func (a *Allocator) SetTotal(total decimal.Decimal) { a.total = total }

func (a *Allocator) Total() decimal.Decimal { return a.total }

// Add appends an entry for the first unused method, pre-filled with the
// amount still uncovered.
func (a *Allocator) Add() (Entry, error) {
	for _, m := range Methods {
		if a.hasMethod(m, 0) {
			continue
		}
		e := Entry{ID: a.newID(), Method: m, Amount: a.Remaining()}
		a.entries = append(a.entries, e)
		return e, nil
	}
	return Entry{}, ErrNoMethodAvailable
}

// Remove drops an entry unless it is the last one.
func (a *Allocator) Remove(id int) error {
	i := a.index(id)
	if i < 0 {
		return ErrEntryNotFound
	}
	if len(a.entries) == 1 {
		return ErrLastEntry
	}
	a.entries = append(a.entries[:i], a.entries[i+1:]...)
	return nil
}

// Update applies p to entry id. Methods stay unique across entries.
func (a *Allocator) Update(id int, p Patch) (Entry, error) {
	i := a.index(id)
	if i < 0 {
		return Entry{}, ErrEntryNotFound
	}
	e := a.entries[i]
	if p.Method != nil {
		m, err := ParseMethod(string(*p.Method))
		if err != nil {
			return Entry{}, err
		}
		if a.hasMethod(m, id) {
			return Entry{}, ErrDuplicateMethod
		}
		e.Method = m
	}
	if p.Amount != nil {
		if p.Amount.IsNegative() {
			return Entry{}, ErrNegativeAmount
		}
		if err := money.Check(*p.Amount); err != nil {
			return Entry{}, err
		}
		e.Amount = *p.Amount
	}
	a.entries[i] = e
	return e, nil
}

// FillRemaining sets entry id so that all entries sum exactly to the total,
// floored at zero when the others already exceed it.
func (a *Allocator) FillRemaining(id int) (Entry, error) {
	i := a.index(id)
	if i < 0 {
		return Entry{}, ErrEntryNotFound
	}
	others := decimal.Zero
	for j, e := range a.entries {
		if j != i {
			others = others.Add(e.Amount)
		}
	}
	amt := a.total.Sub(others)
	if amt.IsNegative() {
		amt = decimal.Zero
	}
	a.entries[i].Amount = amt
	return a.entries[i], nil
}

// Entries returns a copy of the entries in declaration order.
func (a *Allocator) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Tendered returns the entries that carry money.
func (a *Allocator) Tendered() []Entry {
	var out []Entry
	for _, e := range a.entries {
		if e.Amount.IsPositive() {
			out = append(out, e)
		}
	}
	return out
}

func (a *Allocator) Paid() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range a.entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// Remaining is the uncovered part of the total, never negative.
func (a *Allocator) Remaining() decimal.Decimal {
	r := a.total.Sub(a.Paid())
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

func (a *Allocator) IsFullyPaid() bool { return a.Paid().GreaterThanOrEqual(a.total) }

// Change is max(0, paid - total).
func (a *Allocator) Change() decimal.Decimal {
	c := a.Paid().Sub(a.total)
	if c.IsNegative() {
		return decimal.Zero
	}
	return c
}

// CreditAmount is the amount of the credit entry, zero when absent.
func (a *Allocator) CreditAmount() decimal.Decimal {
	for _, e := range a.entries {
		if e.Method == MethodCredit {
			return e.Amount
		}
	}
	return decimal.Zero
}

// PrimaryMethod is the method of the largest entry; ties go to the entry
// declared first.
func (a *Allocator) PrimaryMethod() Method {
	best := a.entries[0]
	for _, e := range a.entries[1:] {
		if e.Amount.GreaterThan(best.Amount) {
			best = e
		}
	}
	return best.Method
}

// Label is "split" when more than one entry carries money, otherwise the
// primary method name.
func (a *Allocator) Label() string {
	if len(a.Tendered()) > 1 {
		return LabelSplit
	}
	return string(a.PrimaryMethod())
}

// Validate checks the allocator may be committed.
func (a *Allocator) Validate(customerSelected bool) error {
	if !a.IsFullyPaid() {
		return ErrNotFullyPaid
	}
	if a.CreditAmount().IsPositive() && !customerSelected {
		return ErrCreditRequiresCustomer
	}
	return nil
}

func (a *Allocator) Summary() Summary {
	return Summary{
		Entries:    a.Entries(),
		Total:      a.total,
		Paid:       a.Paid(),
		Remaining:  a.Remaining(),
		Change:     a.Change(),
		FullyPaid:  a.IsFullyPaid(),
		Label:      a.Label(),
		CreditOwed: a.CreditAmount(),
	}
}

func (a *Allocator) newID() int {
	id := a.nextID
	a.nextID++
	return id
}

func (a *Allocator) index(id int) int {
	for i := range a.entries {
		if a.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// hasMethod reports whether an entry other than except uses m.
func (a *Allocator) hasMethod(m Method, except int) bool {
	for _, e := range a.entries {
		if e.Method == m && e.ID != except {
			return true
		}
	}
	return false
}

package till

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/modules/cart"
	"github.com/georgemunganga/printa-pos/internal/modules/payment"
	"github.com/georgemunganga/printa-pos/internal/modules/register"
	"github.com/georgemunganga/printa-pos/internal/modules/user"
)

// Session is one cashier's working state at the till: the cart being rung
// up, how it is being paid, and the cashier's open register. Every till
// operation receives its session explicitly; nothing is shared between
// cashiers.
type Session struct {
	mu sync.Mutex

	CashierID uuid.UUID
	Role      user.Role
	Cart      *cart.Engine
	Payments  *payment.Allocator
	Customer  *uuid.UUID
	Discount  decimal.Decimal
	// Register is the open shift, nil when the drawer is closed.
	Register *register.Session

	hydrated bool
}

func newSession(cashierID uuid.UUID, role user.Role) *Session {
	return &Session{
		CashierID: cashierID,
		Role:      role,
		Cart:      cart.New(),
		Payments:  payment.NewAllocator(),
	}
}

// Clear starts a fresh transaction. The register is untouched.
func (s *Session) Clear() {
	s.Cart.Clear()
	s.Payments.Reset()
	s.Customer = nil
	s.Discount = decimal.Zero
}

// Manager hands out the session of each signed-in cashier.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// Acquire returns the cashier's session locked for the caller, creating it
// on first use. The caller must call Release.
func (m *Manager) Acquire(cashierID uuid.UUID, role user.Role) *Session {
	m.mu.Lock()
	s, ok := m.sessions[cashierID]
	if !ok {
		s = newSession(cashierID, role)
		m.sessions[cashierID] = s
	}
	m.mu.Unlock()

	s.mu.Lock()
	// Role can change between logins.
	s.Role = role
	return s
}

func (m *Manager) Release(s *Session) { s.mu.Unlock() }

// Drop forgets a cashier's session.
func (m *Manager) Drop(cashierID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, cashierID)
}

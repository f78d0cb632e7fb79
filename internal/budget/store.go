// Package budget implements the client-side budget guard: a small owned
// table of per-category budgets and the evaluation of proposed spends
// against it, without a backend round-trip.
package budget

import (
	"errors"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

var ErrNegativeLimit = errors.New("budget: limit must be non-negative")

// nearFraction is the share of the limit that counts as "near": after the
// proposed spend, remaining headroom at or below 20% of the limit warns.
// The exact threshold and the exceeded-before-near ordering are load-bearing
// for when users see warnings; do not change them casually.
var nearFraction = decimal.New(2, -1)

// Store is the owned, in-memory mirror of the active period's budgets.
// It is constructed once and handed to the components that need it; all
// mutation goes through ApplyPayment, Upsert, Remove, and ReplaceAll.
type Store struct {
	mu      sync.RWMutex
	budgets []Budget
}

func NewStore() *Store {
	return &Store{}
}

// Check evaluates a proposed spend against the budget whose category matches
// exactly. Read-only: identical inputs against an unchanged store yield
// identical results.
func (s *Store) Check(category string, amount decimal.Decimal) Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(category)
	if idx < 0 {
		return Evaluation{Status: StatusNoBudget}
	}

	matched := s.budgets[idx]
	remaining := matched.Remaining()

	// Exceeded takes priority over near: an evaluation is never both.
	if amount.GreaterThan(remaining) {
		return Evaluation{
			Status:     StatusExceeded,
			Remaining:  remaining,
			ExceededBy: amount.Sub(remaining),
			Budget:     matched,
		}
	}

	if remaining.Sub(amount).LessThanOrEqual(matched.LimitAmount.Mul(nearFraction)) {
		return Evaluation{Status: StatusNear, Remaining: remaining, Budget: matched}
	}

	return Evaluation{Status: StatusOK, Remaining: remaining, Budget: matched}
}

// ApplyPayment records a confirmed payment against the matching budget.
// No-op when no budget carries the category: an uncategorized payment does
// not create a budget. Callers must only invoke this after the backend has
// confirmed the payment, otherwise a failed payment would overstate spend
// for the rest of the period.
func (s *Store) ApplyPayment(category string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(category)
	if idx < 0 {
		return
	}
	s.budgets[idx].SpentAmount = s.budgets[idx].SpentAmount.Add(amount)
}

// Upsert creates or replaces a budget by ID, for user add/edit actions.
func (s *Store) Upsert(b Budget) error {
	if b.LimitAmount.IsNegative() {
		return ErrNegativeLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.budgets {
		if s.budgets[i].ID == b.ID {
			s.budgets[i] = b
			return nil
		}
	}
	s.budgets = append(s.budgets, b)
	return nil
}

// Remove deletes the budget with the given ID, if present.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return
		}
	}
}

// ReplaceAll installs the backend's budget list for the active period.
func (s *Store) ReplaceAll(budgets []Budget) error {
	for _, b := range budgets {
		if b.LimitAmount.IsNegative() {
			return ErrNegativeLimit
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append([]Budget(nil), budgets...)
	return nil
}

// Snapshot returns a copy of the current budget table.
func (s *Store) Snapshot() []Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Budget(nil), s.budgets...)
}

func (s *Store) indexOf(category string) int {
	for i := range s.budgets {
		if s.budgets[i].Category == category {
			return i
		}
	}
	return -1
}

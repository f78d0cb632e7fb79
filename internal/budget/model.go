package budget

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Budget is a per-category spending ceiling for one (month, year) period.
// Category is the join key against a transfer's spending category and is
// matched exactly, case-sensitive.
type Budget struct {
	ID          uuid.UUID
	Category    string
	LimitAmount decimal.Decimal
	SpentAmount decimal.Decimal
	Month       int
	Year        int
}

// Remaining is the headroom left under the limit at this point in the period.
func (b Budget) Remaining() decimal.Decimal {
	return b.LimitAmount.Sub(b.SpentAmount)
}

// Status classifies a proposed spend against a budget.
type Status string

const (
	StatusNoBudget Status = "no-budget"
	StatusOK       Status = "ok"
	StatusNear     Status = "near"
	StatusExceeded Status = "exceeded"
)

// Evaluation is the result of checking a proposed spend. It is computed from
// a snapshot of the store and never persisted.
type Evaluation struct {
	Status    Status
	Remaining decimal.Decimal
	// ExceededBy is set only for StatusExceeded: amount minus remaining.
	ExceededBy decimal.Decimal
	// Budget is a copy of the matched budget, zero for StatusNoBudget.
	Budget Budget
}

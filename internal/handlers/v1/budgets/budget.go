package budgets

import (
	"github.com/finvault/dashboard-core/internal/budget"
)

// Budget is the API response model for a budget.
// It is used only for responses, not for request bodies.
type Budget struct {
	ID          string `json:"id" doc:"Budget UUID"`
	Category    string `json:"category" doc:"Spend category"`
	LimitAmount string `json:"limitAmount" doc:"Decimal monthly limit"`
	SpentAmount string `json:"spentAmount" doc:"Decimal amount spent so far"`
	Remaining   string `json:"remaining" doc:"Decimal amount left"`
	Month       int    `json:"month" doc:"Budget month, 1-12"`
	Year        int    `json:"year" doc:"Budget year"`
}

func fromDomain(b budget.Budget) Budget {
	return Budget{
		ID:          b.ID.String(),
		Category:    b.Category,
		LimitAmount: b.LimitAmount.String(),
		SpentAmount: b.SpentAmount.String(),
		Remaining:   b.Remaining().String(),
		Month:       b.Month,
		Year:        b.Year,
	}
}

package backend

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the wire representation of a budget on the budgets resource.
type Budget struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
	SpentAmount decimal.Decimal `json:"spent_amount"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
}

// BudgetCreate is the request body for POST /budgets.
type BudgetCreate struct {
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Category    string          `json:"category"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
}

// BudgetUpdate is the request body for PATCH /budgets/{id}.
// Nil fields are left unchanged.
type BudgetUpdate struct {
	Category    *string          `json:"category,omitempty"`
	LimitAmount *decimal.Decimal `json:"limit_amount,omitempty"`
}

// TransferRequest is the request body for POST /transfers. The populated
// destination fields depend on TransferType; the rest stay empty.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	PIN           string          `json:"pin"`
	TransferType  string          `json:"transfer_type"`
	RequestID     string          `json:"request_id"`
	Category      string          `json:"category,omitempty"`

	// upi
	ToUPI string `json:"to_upi,omitempty"`
	// self
	ToAccountID string `json:"to_account_id,omitempty"`
	// bank
	AccountNumber string `json:"account_number,omitempty"`
	RoutingCode   string `json:"routing_code,omitempty"`
	// bill
	Provider string `json:"provider,omitempty"`
	Plan     string `json:"plan,omitempty"`
}

// Redacted returns a copy safe for logging: the PIN never reaches a log line.
func (r TransferRequest) Redacted() interface{} {
	clean := r
	if clean.PIN != "" {
		clean.PIN = "******"
	}
	return clean
}

// TransferResponse is the receipt returned for an accepted transfer.
type TransferResponse struct {
	ID        string          `json:"id"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode"`
	CreatedAt time.Time       `json:"created_at"`
}

// VerifyOTPResponse is the result of POST /auth/verify-otp. AccessToken and
// User are only populated for the login mode.
type VerifyOTPResponse struct {
	AccessToken string       `json:"access_token,omitempty"`
	User        *BackendUser `json:"user,omitempty"`
}

// BackendUser is the profile embedded in a successful login verification.
type BackendUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

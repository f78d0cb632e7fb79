// Package transfer models an in-flight money movement: the typed intent a
// transfer page builds, the field validation that gates submission, and the
// receipt produced at a terminal state.
package transfer

import (
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/finvault/dashboard-core/internal/backend"
)

// Type discriminates the transfer variants.
type Type string

const (
	TypeUPI  Type = "upi"
	TypeSelf Type = "self"
	TypeBank Type = "bank"
	TypeBill Type = "bill"
)

var (
	ErrMissingFromAccount = errors.New("transfer: source account not selected")
	ErrNonPositiveAmount  = errors.New("transfer: amount must be greater than zero")
	ErrSameAccount        = errors.New("transfer: destination account must differ from source")
	ErrNilDestination     = errors.New("transfer: destination is required")
)

// Destination is the sealed tagged union of transfer targets. Each variant
// carries only its own fields; the payload builder switches exhaustively.
type Destination interface {
	Type() Type
	Validate() error
	// Label is the human-readable "to" shown on receipts.
	Label() string
}

// Intent is the not-yet-submitted description of a transfer. It is created
// when a transfer page opens and discarded on navigation, success, or
// failure; it never carries the PIN.
type Intent struct {
	FromAccountID uuid.UUID
	Amount        decimal.Decimal
	// Category joins the intent to a budget; empty skips budget tracking.
	Category    string
	Destination Destination
	// RequestID is generated once per intent and sent to the backend so a
	// user-initiated retry after a timeout can be deduplicated server-side.
	RequestID uuid.UUID
}

// NewIntent builds an intent for the given source account and destination.
func NewIntent(fromAccountID uuid.UUID, amount decimal.Decimal, category string, dest Destination) Intent {
	return Intent{
		FromAccountID: fromAccountID,
		Amount:        amount,
		Category:      category,
		Destination:   dest,
		RequestID:     uuid.Must(uuid.NewV4()),
	}
}

// Validate applies the client-side field rules. A missing source account is
// a hard error: the original flow redirects to account setup rather than
// letting the user proceed.
func (i Intent) Validate() error {
	if i.FromAccountID.IsNil() {
		return ErrMissingFromAccount
	}
	if !i.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if i.Destination == nil {
		return ErrNilDestination
	}
	if err := i.Destination.Validate(); err != nil {
		return err
	}
	if self, ok := i.Destination.(SelfDestination); ok && self.ToAccountID == i.FromAccountID {
		return ErrSameAccount
	}
	return nil
}

// BuildRequest assembles the submission payload for the backend. The PIN is
// captured at confirmation time and lives only in the returned request.
func (i Intent) BuildRequest(pin string) backend.TransferRequest {
	req := backend.TransferRequest{
		FromAccountID: i.FromAccountID.String(),
		Amount:        i.Amount,
		PIN:           pin,
		TransferType:  string(i.Destination.Type()),
		RequestID:     i.RequestID.String(),
		Category:      i.Category,
	}

	switch dest := i.Destination.(type) {
	case UPIDestination:
		req.ToUPI = dest.Address
	case SelfDestination:
		req.ToAccountID = dest.ToAccountID.String()
	case BankDestination:
		req.AccountNumber = dest.AccountNumber
		req.RoutingCode = dest.NormalizedRoutingCode()
	case BillDestination:
		req.Provider = dest.Provider
		req.Plan = dest.Plan
	}

	return req
}

package transfer

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gofrs/uuid/v5"
)

var (
	ErrInvalidUPIAddress    = errors.New("transfer: invalid UPI ID or mobile number")
	ErrInvalidAccountNumber = errors.New("transfer: account number must be 9-18 digits")
	ErrInvalidRoutingCode   = errors.New("transfer: invalid IFSC code")
	ErrMissingTargetAccount = errors.New("transfer: destination account not selected")
	ErrMissingProvider      = errors.New("transfer: biller not selected")
)

var (
	accountNumberPattern = regexp.MustCompile(`^\d{9,18}$`)
	routingCodePattern   = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	mobilePattern        = regexp.MustCompile(`^[6-9]\d{9}$`)
	allDigitsPattern     = regexp.MustCompile(`^\d+$`)
	upiHandlePattern     = regexp.MustCompile(`^[A-Za-z0-9._-]{2,}@[A-Za-z]{2,}$`)
)

// UPIDestination targets a UPI handle ("user@bank") or a 10-digit mobile
// number. An all-digit address is validated as a mobile number, anything
// else as a handle.
type UPIDestination struct {
	Address string
}

func (d UPIDestination) Type() Type { return TypeUPI }

func (d UPIDestination) Validate() error {
	addr := strings.TrimSpace(d.Address)
	if allDigitsPattern.MatchString(addr) {
		if !mobilePattern.MatchString(addr) {
			return ErrInvalidUPIAddress
		}
		return nil
	}
	if !upiHandlePattern.MatchString(addr) {
		return ErrInvalidUPIAddress
	}
	return nil
}

func (d UPIDestination) Label() string { return d.Address }

// SelfDestination targets another of the user's own accounts.
type SelfDestination struct {
	ToAccountID uuid.UUID
	AccountName string
}

func (d SelfDestination) Type() Type { return TypeSelf }

func (d SelfDestination) Validate() error {
	if d.ToAccountID.IsNil() {
		return ErrMissingTargetAccount
	}
	return nil
}

func (d SelfDestination) Label() string {
	if d.AccountName != "" {
		return d.AccountName
	}
	return d.ToAccountID.String()
}

// BankDestination targets an external account by number and IFSC routing
// code. Routing code input is case-insensitive and normalized to uppercase
// before matching.
type BankDestination struct {
	AccountNumber string
	RoutingCode   string
}

func (d BankDestination) Type() Type { return TypeBank }

func (d BankDestination) Validate() error {
	if !accountNumberPattern.MatchString(d.AccountNumber) {
		return ErrInvalidAccountNumber
	}
	if !routingCodePattern.MatchString(d.NormalizedRoutingCode()) {
		return ErrInvalidRoutingCode
	}
	return nil
}

func (d BankDestination) NormalizedRoutingCode() string {
	return strings.ToUpper(strings.TrimSpace(d.RoutingCode))
}

func (d BankDestination) Label() string { return d.AccountNumber }

// BillDestination targets a bill payment by provider and plan.
type BillDestination struct {
	Provider string
	Plan     string
}

func (d BillDestination) Type() Type { return TypeBill }

func (d BillDestination) Validate() error {
	if strings.TrimSpace(d.Provider) == "" {
		return ErrMissingProvider
	}
	return nil
}

func (d BillDestination) Label() string { return d.Provider }

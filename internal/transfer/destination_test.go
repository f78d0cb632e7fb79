package transfer

import (
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
)

func TestBankDestination_AccountNumberLengths(t *testing.T) {
	valid := []string{"123456789", "123456789012345678"} // 9 and 18 digits
	for _, number := range valid {
		dest := BankDestination{AccountNumber: number, RoutingCode: "HDFC0001234"}
		assert.NoError(t, dest.Validate(), "account number %q", number)
	}

	invalid := []string{"12345678", "1234567890123456789", "", "12345678a"} // 8, 19, empty, non-digit
	for _, number := range invalid {
		dest := BankDestination{AccountNumber: number, RoutingCode: "HDFC0001234"}
		assert.ErrorIs(t, dest.Validate(), ErrInvalidAccountNumber, "account number %q", number)
	}
}

func TestBankDestination_RoutingCode(t *testing.T) {
	valid := []string{"HDFC0001234", "SBIN0X12345"}
	for _, code := range valid {
		dest := BankDestination{AccountNumber: "123456789", RoutingCode: code}
		assert.NoError(t, dest.Validate(), "routing code %q", code)
	}

	invalid := []string{
		"HDF00012345", // only 3 leading letters
		"HDFC1001234", // fifth char not 0
		"HDFC000123",  // too short
		"HDFC00012345",
		"1DFC0001234",
	}
	for _, code := range invalid {
		dest := BankDestination{AccountNumber: "123456789", RoutingCode: code}
		assert.ErrorIs(t, dest.Validate(), ErrInvalidRoutingCode, "routing code %q", code)
	}
}

func TestBankDestination_RoutingCodeCaseInsensitive(t *testing.T) {
	dest := BankDestination{AccountNumber: "123456789", RoutingCode: "hdfc0001234"}
	assert.NoError(t, dest.Validate())
	assert.Equal(t, "HDFC0001234", dest.NormalizedRoutingCode())
}

func TestUPIDestination_MobileNumbers(t *testing.T) {
	assert.NoError(t, UPIDestination{Address: "9876543210"}.Validate())
	assert.NoError(t, UPIDestination{Address: "6000000000"}.Validate())

	// starts with 5, wrong length
	assert.ErrorIs(t, UPIDestination{Address: "5876543210"}.Validate(), ErrInvalidUPIAddress)
	assert.ErrorIs(t, UPIDestination{Address: "98765432101"}.Validate(), ErrInvalidUPIAddress)
	assert.ErrorIs(t, UPIDestination{Address: "987654321"}.Validate(), ErrInvalidUPIAddress)
}

func TestUPIDestination_Handles(t *testing.T) {
	assert.NoError(t, UPIDestination{Address: "name@bank"}.Validate())
	assert.NoError(t, UPIDestination{Address: "first.last-1@upi"}.Validate())

	// local part too short
	assert.ErrorIs(t, UPIDestination{Address: "n@b"}.Validate(), ErrInvalidUPIAddress)
	assert.ErrorIs(t, UPIDestination{Address: "n@bank"}.Validate(), ErrInvalidUPIAddress)
	assert.ErrorIs(t, UPIDestination{Address: "name@"}.Validate(), ErrInvalidUPIAddress)
	assert.ErrorIs(t, UPIDestination{Address: ""}.Validate(), ErrInvalidUPIAddress)
}

func TestSelfDestination(t *testing.T) {
	assert.ErrorIs(t, SelfDestination{}.Validate(), ErrMissingTargetAccount)
	assert.NoError(t, SelfDestination{ToAccountID: uuid.Must(uuid.NewV4())}.Validate())
}

func TestBillDestination(t *testing.T) {
	assert.ErrorIs(t, BillDestination{}.Validate(), ErrMissingProvider)
	assert.NoError(t, BillDestination{Provider: "City Power", Plan: "monthly"}.Validate())
}

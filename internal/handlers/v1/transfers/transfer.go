package transfers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/finvault/dashboard-core/internal/transfer"
)

// TransferBody carries one transfer intent over the API. Only the fields
// for the selected type are consulted; the rest may be omitted.
type TransferBody struct {
	FromAccountID string `json:"fromAccountID" required:"true" doc:"Source account UUID"`
	Amount        string `json:"amount" required:"true" doc:"Decimal amount"`
	Category      string `json:"category,omitempty" doc:"Budget category, empty skips budget tracking"`
	Type          string `json:"type" required:"true" enum:"upi,self,bank,bill" doc:"Transfer variant"`

	ToUPI         string `json:"toUPI,omitempty" doc:"UPI handle or 10-digit mobile, for type upi"`
	ToAccountID   string `json:"toAccountID,omitempty" doc:"Own account UUID, for type self"`
	AccountName   string `json:"accountName,omitempty" doc:"Display name of the own account, for type self"`
	AccountNumber string `json:"accountNumber,omitempty" doc:"9-18 digit account number, for type bank"`
	RoutingCode   string `json:"routingCode,omitempty" doc:"IFSC routing code, for type bank"`
	Provider      string `json:"provider,omitempty" doc:"Biller name, for type bill"`
	Plan          string `json:"plan,omitempty" doc:"Recharge plan, for type bill"`
}

// parseTransferIntent builds a validated intent from an API body. Field
// rule violations surface as 400s with the domain message.
func parseTransferIntent(body TransferBody) (transfer.Intent, error) {
	fromAccountID, err := uuid.FromString(body.FromAccountID)
	if err != nil {
		return transfer.Intent{}, huma.NewError(http.StatusBadRequest, "invalid fromAccountID", err)
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return transfer.Intent{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	var dest transfer.Destination
	switch transfer.Type(body.Type) {
	case transfer.TypeUPI:
		dest = transfer.UPIDestination{Address: body.ToUPI}
	case transfer.TypeSelf:
		toAccountID, parseErr := uuid.FromString(body.ToAccountID)
		if parseErr != nil {
			return transfer.Intent{}, huma.NewError(http.StatusBadRequest, "invalid toAccountID", parseErr)
		}
		dest = transfer.SelfDestination{ToAccountID: toAccountID, AccountName: body.AccountName}
	case transfer.TypeBank:
		dest = transfer.BankDestination{AccountNumber: body.AccountNumber, RoutingCode: body.RoutingCode}
	case transfer.TypeBill:
		dest = transfer.BillDestination{Provider: body.Provider, Plan: body.Plan}
	default:
		return transfer.Intent{}, huma.NewError(http.StatusBadRequest, "unknown transfer type")
	}

	intent := transfer.NewIntent(fromAccountID, amount, body.Category, dest)
	if err := intent.Validate(); err != nil {
		return transfer.Intent{}, huma.NewError(http.StatusBadRequest, err.Error())
	}
	return intent, nil
}

package transfers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/cache"
	"github.com/finvault/dashboard-core/internal/logging"
)

// HistoryEntry is one past transfer attempt, successful or failed.
type HistoryEntry struct {
	RequestID string `json:"requestID" doc:"Idempotency key of the attempt"`
	To        string `json:"to" doc:"Destination label"`
	Amount    string `json:"amount" doc:"Decimal amount"`
	Mode      string `json:"mode" doc:"Transfer variant"`
	Time      string `json:"time" format:"date-time" doc:"Completion time"`
	Reason    string `json:"reason,omitempty" doc:"Failure reason, empty on success"`
}

// ListHistoryInput is the Huma input for listing transfer history.
type ListHistoryInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" doc:"Maximum entries to return, defaults to 20"`
}

// ListHistoryResponseBody is the response body for listing history.
type ListHistoryResponseBody struct {
	Transfers []HistoryEntry `json:"transfers" doc:"Past attempts, newest first"`
}

// ListHistoryOutput is the Huma output for listing history.
type ListHistoryOutput struct {
	Body ListHistoryResponseBody
}

// historyLister is the interface for reading the local receipt history.
type historyLister interface {
	History(limit int) ([]cache.StoredReceipt, error)
}

// ListHistoryHandler handles GET /v1/transfers/history.
type ListHistoryHandler struct {
	TransferService historyLister
}

// NewListHistoryHandler creates a new ListHistoryHandler.
func NewListHistoryHandler(svc historyLister) *ListHistoryHandler {
	return &ListHistoryHandler{TransferService: svc}
}

// Register registers the history endpoint with the Huma API.
func (h *ListHistoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transfer-history",
		Method:      http.MethodGet,
		Path:        "/v1/transfers/history",
		Summary:     "List transfer history",
		Description: "Returns the most recent local transfer receipts, newest first.",
		Tags:        []string{"Transfers"},
	}, h.handle)
}

func (h *ListHistoryHandler) handle(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	logData := logging.GetLogData(ctx)

	entries, err := h.TransferService.History(input.Limit)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list history", err)
	}
	if logData != nil {
		logData.AddData("historyCount", len(entries))
	}

	resp := ListHistoryResponseBody{Transfers: make([]HistoryEntry, len(entries))}
	for i, entry := range entries {
		resp.Transfers[i] = HistoryEntry{
			RequestID: entry.RequestID,
			To:        entry.Receipt.To,
			Amount:    entry.Receipt.Amount.String(),
			Mode:      string(entry.Receipt.Mode),
			Time:      entry.Receipt.Time.Format(time.RFC3339),
			Reason:    entry.Receipt.Reason,
		}
	}
	return &ListHistoryOutput{Body: resp}, nil
}

package budgets

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/logging"
)

// SyncBudgetsBody is the request body for a budget sync.
type SyncBudgetsBody struct {
	Month int `json:"month" required:"true" minimum:"1" maximum:"12" doc:"Budget month"`
	Year  int `json:"year" required:"true" doc:"Budget year"`
}

// SyncBudgetsInput is the Huma input for a budget sync.
type SyncBudgetsInput struct {
	Body SyncBudgetsBody
}

// SyncBudgetsOutput is the Huma output for a budget sync.
type SyncBudgetsOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

// budgetSyncer is the interface for refreshing the local mirror.
type budgetSyncer interface {
	Sync(ctx context.Context, month, year int) error
}

// SyncBudgetsHandler handles POST /v1/budgets/sync.
type SyncBudgetsHandler struct {
	BudgetService budgetSyncer
}

// NewSyncBudgetsHandler creates a new SyncBudgetsHandler.
func NewSyncBudgetsHandler(svc budgetSyncer) *SyncBudgetsHandler {
	return &SyncBudgetsHandler{BudgetService: svc}
}

// Register registers the budget sync endpoint with the Huma API.
func (h *SyncBudgetsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "sync-budgets",
		Method:      http.MethodPost,
		Path:        "/v1/budgets/sync",
		Summary:     "Sync budgets",
		Description: "Refreshes the local budget mirror from the backend for one period.",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *SyncBudgetsHandler) handle(ctx context.Context, input *SyncBudgetsInput) (*SyncBudgetsOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("syncBudgetsMs")
	}
	err := h.BudgetService.Sync(ctx, input.Body.Month, input.Body.Year)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusBadGateway, "failed to sync budgets", err)
	}

	return &SyncBudgetsOutput{Status: http.StatusOK}, nil
}

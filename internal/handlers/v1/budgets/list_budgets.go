package budgets

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/logging"
)

// ListBudgetsResponseBody is the response body for listing budgets.
type ListBudgetsResponseBody struct {
	Budgets []Budget `json:"budgets" doc:"All budgets in the local mirror"`
}

// ListBudgetsOutput is the Huma output for listing budgets.
type ListBudgetsOutput struct {
	Body ListBudgetsResponseBody
}

// budgetLister is the interface for reading the local budget mirror.
type budgetLister interface {
	Budgets() []budget.Budget
}

// ListBudgetsHandler handles GET /v1/budgets.
type ListBudgetsHandler struct {
	BudgetService budgetLister
}

// NewListBudgetsHandler creates a new ListBudgetsHandler.
func NewListBudgetsHandler(svc budgetLister) *ListBudgetsHandler {
	return &ListBudgetsHandler{BudgetService: svc}
}

// Register registers the list budgets endpoint with the Huma API.
func (h *ListBudgetsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-budgets",
		Method:      http.MethodGet,
		Path:        "/v1/budgets",
		Summary:     "List budgets",
		Description: "Returns all budgets from the local mirror.",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *ListBudgetsHandler) handle(ctx context.Context, _ *struct{}) (*ListBudgetsOutput, error) {
	logData := logging.GetLogData(ctx)

	rows := h.BudgetService.Budgets()
	if logData != nil {
		logData.AddData("budgetCount", len(rows))
	}

	resp := ListBudgetsResponseBody{Budgets: make([]Budget, len(rows))}
	for i, row := range rows {
		resp.Budgets[i] = fromDomain(row)
	}
	return &ListBudgetsOutput{Body: resp}, nil
}

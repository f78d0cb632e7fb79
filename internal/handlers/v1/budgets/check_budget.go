package budgets

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/logging"
)

// CheckBudgetBody is the request body for a budget check.
type CheckBudgetBody struct {
	Category string `json:"category" required:"true" doc:"Spend category"`
	Amount   string `json:"amount" required:"true" doc:"Decimal proposed spend"`
}

// CheckBudgetInput is the Huma input for a budget check.
type CheckBudgetInput struct {
	Body CheckBudgetBody
}

// CheckBudgetResponseBody is the response body for a budget check.
type CheckBudgetResponseBody struct {
	Status     string `json:"status" enum:"no-budget,ok,near,exceeded" doc:"Budget guard verdict"`
	Remaining  string `json:"remaining,omitempty" doc:"Decimal amount left before the spend"`
	ExceededBy string `json:"exceededBy,omitempty" doc:"Decimal overshoot when the verdict is exceeded"`
}

// CheckBudgetOutput is the Huma output for a budget check.
type CheckBudgetOutput struct {
	Body CheckBudgetResponseBody
}

// budgetChecker is the interface for evaluating a proposed spend.
type budgetChecker interface {
	Check(category string, amount decimal.Decimal) budget.Evaluation
}

// CheckBudgetHandler handles POST /v1/budget/check.
type CheckBudgetHandler struct {
	BudgetService budgetChecker
}

// NewCheckBudgetHandler creates a new CheckBudgetHandler.
func NewCheckBudgetHandler(svc budgetChecker) *CheckBudgetHandler {
	return &CheckBudgetHandler{BudgetService: svc}
}

// Register registers the budget check endpoint with the Huma API.
func (h *CheckBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "check-budget",
		Method:      http.MethodPost,
		Path:        "/v1/budget/check",
		Summary:     "Check a proposed spend",
		Description: "Evaluates a proposed spend against the local budget mirror.",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *CheckBudgetHandler) handle(ctx context.Context, input *CheckBudgetInput) (*CheckBudgetOutput, error) {
	logData := logging.GetLogData(ctx)

	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	if !amount.IsPositive() {
		return nil, huma.NewError(http.StatusBadRequest, "amount must be greater than zero")
	}

	eval := h.BudgetService.Check(input.Body.Category, amount)
	if logData != nil {
		logData.AddData("budgetStatus", string(eval.Status))
	}

	resp := CheckBudgetResponseBody{Status: string(eval.Status)}
	if eval.Status != budget.StatusNoBudget {
		resp.Remaining = eval.Remaining.String()
	}
	if eval.Status == budget.StatusExceeded {
		resp.ExceededBy = eval.ExceededBy.String()
	}
	return &CheckBudgetOutput{Body: resp}, nil
}

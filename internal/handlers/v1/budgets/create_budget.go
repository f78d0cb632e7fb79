package budgets

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/logging"
)

// CreateBudgetBody is the request body for creating a budget.
type CreateBudgetBody struct {
	Category    string `json:"category" required:"true" doc:"Spend category"`
	LimitAmount string `json:"limitAmount" required:"true" doc:"Decimal monthly limit"`
	Month       int    `json:"month" required:"true" minimum:"1" maximum:"12" doc:"Budget month"`
	Year        int    `json:"year" required:"true" doc:"Budget year"`
}

// CreateBudgetInput is the Huma input for creating a budget.
type CreateBudgetInput struct {
	Body CreateBudgetBody
}

// CreateBudgetOutput is the Huma output for creating a budget.
type CreateBudgetOutput struct {
	Body Budget
}

// budgetCreator is the interface for creating a budget on the backend.
type budgetCreator interface {
	Create(ctx context.Context, month, year int, category string, limit decimal.Decimal) (budget.Budget, error)
}

// CreateBudgetHandler handles POST /v1/budget.
type CreateBudgetHandler struct {
	BudgetService budgetCreator
}

// NewCreateBudgetHandler creates a new CreateBudgetHandler.
func NewCreateBudgetHandler(svc budgetCreator) *CreateBudgetHandler {
	return &CreateBudgetHandler{BudgetService: svc}
}

// Register registers the create budget endpoint with the Huma API.
func (h *CreateBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-budget",
		Method:        http.MethodPost,
		Path:          "/v1/budget",
		Summary:       "Create budget",
		Description:   "Creates a budget on the backend and mirrors it locally.",
		Tags:          []string{"Budgets"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateBudgetInput parses and validates the API input.
func parseCreateBudgetInput(input *CreateBudgetInput) (limit decimal.Decimal, err error) {
	limit, parseErr := decimal.NewFromString(input.Body.LimitAmount)
	if parseErr != nil {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid limitAmount", parseErr)
	}
	if limit.IsNegative() {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "limitAmount must not be negative")
	}
	return limit, nil
}

func (h *CreateBudgetHandler) handle(ctx context.Context, input *CreateBudgetInput) (*CreateBudgetOutput, error) {
	logData := logging.GetLogData(ctx)

	limit, err := parseCreateBudgetInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createBudgetMs")
	}
	created, err := h.BudgetService.Create(ctx, input.Body.Month, input.Body.Year, input.Body.Category, limit)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusBadGateway, "failed to create budget", err)
	}

	return &CreateBudgetOutput{Body: fromDomain(created)}, nil
}

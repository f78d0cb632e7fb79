package budgets

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/finvault/dashboard-core/internal/budget"
)

// UpdateBudgetBody is the request body for editing a budget. Absent fields
// keep their current value.
type UpdateBudgetBody struct {
	Category    *string `json:"category,omitempty" doc:"New spend category"`
	LimitAmount *string `json:"limitAmount,omitempty" doc:"New decimal monthly limit"`
}

// UpdateBudgetInput is the Huma input for editing a budget.
type UpdateBudgetInput struct {
	ID   string `path:"id" doc:"Budget UUID"`
	Body UpdateBudgetBody
}

// UpdateBudgetOutput is the Huma output for editing a budget.
type UpdateBudgetOutput struct {
	Body Budget
}

// budgetUpdater is the interface for editing a budget on the backend.
type budgetUpdater interface {
	Update(ctx context.Context, id uuid.UUID, category *string, limit *decimal.Decimal) (budget.Budget, error)
}

// UpdateBudgetHandler handles PATCH /v1/budget/{id}.
type UpdateBudgetHandler struct {
	BudgetService budgetUpdater
}

// NewUpdateBudgetHandler creates a new UpdateBudgetHandler.
func NewUpdateBudgetHandler(svc budgetUpdater) *UpdateBudgetHandler {
	return &UpdateBudgetHandler{BudgetService: svc}
}

// Register registers the update budget endpoint with the Huma API.
func (h *UpdateBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-budget",
		Method:      http.MethodPatch,
		Path:        "/v1/budget/{id}",
		Summary:     "Update budget",
		Description: "Edits a budget's category or limit on the backend and locally.",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

// parseUpdateBudgetInput parses and validates the API input.
func parseUpdateBudgetInput(input *UpdateBudgetInput) (id uuid.UUID, limit *decimal.Decimal, err error) {
	id, parseErr := uuid.FromString(input.ID)
	if parseErr != nil {
		return uuid.Nil, nil, huma.NewError(http.StatusBadRequest, "invalid budget id", parseErr)
	}

	if input.Body.LimitAmount != nil {
		parsed, parseErr := decimal.NewFromString(*input.Body.LimitAmount)
		if parseErr != nil {
			return uuid.Nil, nil, huma.NewError(http.StatusBadRequest, "invalid limitAmount", parseErr)
		}
		if parsed.IsNegative() {
			return uuid.Nil, nil, huma.NewError(http.StatusBadRequest, "limitAmount must not be negative")
		}
		limit = &parsed
	}

	if input.Body.Category == nil && limit == nil {
		return uuid.Nil, nil, huma.NewError(http.StatusBadRequest, "nothing to update")
	}

	return id, limit, nil
}

func (h *UpdateBudgetHandler) handle(ctx context.Context, input *UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	id, limit, err := parseUpdateBudgetInput(input)
	if err != nil {
		return nil, err
	}

	updated, err := h.BudgetService.Update(ctx, id, input.Body.Category, limit)
	if err != nil {
		return nil, huma.NewError(http.StatusBadGateway, "failed to update budget", err)
	}

	return &UpdateBudgetOutput{Body: fromDomain(updated)}, nil
}

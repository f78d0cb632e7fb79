package transfers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/logging"
	"github.com/finvault/dashboard-core/internal/transfer"
)

// EvaluateTransferInput is the Huma input for a pre-submit evaluation.
type EvaluateTransferInput struct {
	Body TransferBody
}

// EvaluateTransferResponseBody is the response body for a pre-submit
// evaluation.
type EvaluateTransferResponseBody struct {
	BudgetStatus string `json:"budgetStatus" enum:"no-budget,ok,near,exceeded" doc:"Budget guard verdict"`
	Remaining    string `json:"remaining,omitempty" doc:"Decimal amount left before the spend"`
	ExceededBy   string `json:"exceededBy,omitempty" doc:"Decimal overshoot when the verdict is exceeded"`
}

// EvaluateTransferOutput is the Huma output for a pre-submit evaluation.
type EvaluateTransferOutput struct {
	Body EvaluateTransferResponseBody
}

// transferEvaluator is the interface for evaluating an intent without
// starting a workflow.
type transferEvaluator interface {
	Evaluate(intent transfer.Intent) (budget.Evaluation, error)
}

// EvaluateTransferHandler handles POST /v1/transfer/evaluate.
type EvaluateTransferHandler struct {
	TransferService transferEvaluator
}

// NewEvaluateTransferHandler creates a new EvaluateTransferHandler.
func NewEvaluateTransferHandler(svc transferEvaluator) *EvaluateTransferHandler {
	return &EvaluateTransferHandler{TransferService: svc}
}

// Register registers the evaluate endpoint with the Huma API.
func (h *EvaluateTransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "evaluate-transfer",
		Method:      http.MethodPost,
		Path:        "/v1/transfer/evaluate",
		Summary:     "Evaluate a transfer",
		Description: "Validates a transfer intent and reports its budget verdict without submitting.",
		Tags:        []string{"Transfers"},
	}, h.handle)
}

func (h *EvaluateTransferHandler) handle(ctx context.Context, input *EvaluateTransferInput) (*EvaluateTransferOutput, error) {
	logData := logging.GetLogData(ctx)

	intent, err := parseTransferIntent(input.Body)
	if err != nil {
		return nil, err
	}

	eval, err := h.TransferService.Evaluate(intent)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, err.Error())
	}
	if logData != nil {
		logData.AddData("budgetStatus", string(eval.Status))
	}

	resp := EvaluateTransferResponseBody{BudgetStatus: string(eval.Status)}
	if eval.Status != budget.StatusNoBudget {
		resp.Remaining = eval.Remaining.String()
	}
	if eval.Status == budget.StatusExceeded {
		resp.ExceededBy = eval.ExceededBy.String()
	}
	return &EvaluateTransferOutput{Body: resp}, nil
}

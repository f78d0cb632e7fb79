package transfers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/logging"
	"github.com/finvault/dashboard-core/internal/transfer"
	"github.com/finvault/dashboard-core/internal/workflow"
)

// ExecuteTransferBody is the request body for executing a transfer.
type ExecuteTransferBody struct {
	TransferBody
	PIN           string `json:"pin" required:"true" minLength:"4" doc:"Transaction PIN, forwarded to the backend only"`
	ProceedAnyway bool   `json:"proceedAnyway,omitempty" doc:"Confirms an over-budget transfer"`
}

// ExecuteTransferInput is the Huma input for executing a transfer.
type ExecuteTransferInput struct {
	Body ExecuteTransferBody
}

// ExecuteTransferResponseBody is the terminal result of a transfer
// workflow. A warning halt carries the budget fields and no receipt.
type ExecuteTransferResponseBody struct {
	State      string `json:"state" enum:"warning,success,failure" doc:"Terminal workflow state"`
	To         string `json:"to,omitempty" doc:"Receipt destination label"`
	Amount     string `json:"amount,omitempty" doc:"Decimal amount"`
	Mode       string `json:"mode,omitempty" doc:"Transfer variant"`
	Time       string `json:"time,omitempty" format:"date-time" doc:"Completion time"`
	Reason     string `json:"reason,omitempty" doc:"Failure reason, empty on success"`
	Remaining  string `json:"remaining,omitempty" doc:"Decimal amount left, on a warning halt"`
	ExceededBy string `json:"exceededBy,omitempty" doc:"Decimal overshoot, on a warning halt"`
}

// ExecuteTransferOutput is the Huma output for executing a transfer.
type ExecuteTransferOutput struct {
	Body ExecuteTransferResponseBody
}

// transferExecutor is the interface for driving a transfer workflow to a
// terminal state.
type transferExecutor interface {
	Execute(ctx context.Context, intent transfer.Intent, pin string, proceedAnyway bool) (*workflow.Workflow, error)
}

// ExecuteTransferHandler handles POST /v1/transfer.
type ExecuteTransferHandler struct {
	TransferService transferExecutor
}

// NewExecuteTransferHandler creates a new ExecuteTransferHandler.
func NewExecuteTransferHandler(svc transferExecutor) *ExecuteTransferHandler {
	return &ExecuteTransferHandler{TransferService: svc}
}

// Register registers the execute endpoint with the Huma API.
func (h *ExecuteTransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "execute-transfer",
		Method:      http.MethodPost,
		Path:        "/v1/transfer",
		Summary:     "Execute a transfer",
		Description: "Runs a transfer through budget check, PIN confirmation and submission.",
		Tags:        []string{"Transfers"},
	}, h.handle)
}

func (h *ExecuteTransferHandler) handle(ctx context.Context, input *ExecuteTransferInput) (*ExecuteTransferOutput, error) {
	logData := logging.GetLogData(ctx)

	intent, err := parseTransferIntent(input.Body.TransferBody)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("executeTransferMs")
	}
	wf, err := h.TransferService.Execute(ctx, intent, input.Body.PIN, input.Body.ProceedAnyway)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, err.Error())
	}

	if logData != nil {
		logData.AddData("workflowState", string(wf.State()))
	}

	if wf.State() == workflow.StateWarning {
		eval := wf.Evaluation()
		resp := ExecuteTransferResponseBody{
			State:     string(workflow.StateWarning),
			Remaining: eval.Remaining.String(),
		}
		if eval.Status == budget.StatusExceeded {
			resp.ExceededBy = eval.ExceededBy.String()
		}
		return &ExecuteTransferOutput{Body: resp}, nil
	}

	receipt := wf.Receipt()
	return &ExecuteTransferOutput{Body: ExecuteTransferResponseBody{
		State:  string(wf.State()),
		To:     receipt.To,
		Amount: receipt.Amount.String(),
		Mode:   string(receipt.Mode),
		Time:   receipt.Time.Format(time.RFC3339),
		Reason: receipt.Reason,
	}}, nil
}

package transfers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/finvault/dashboard-core/internal/backend"
	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/cache"
	"github.com/finvault/dashboard-core/internal/transfer"
	"github.com/finvault/dashboard-core/internal/workflow"
)

// mockSubmitter backs a real pipeline so execute tests run the actual
// workflow rather than a mocked one.
type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) SubmitTransfer(ctx context.Context, req backend.TransferRequest) (*backend.TransferResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.TransferResponse), args.Error(1)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) History(limit int) ([]cache.StoredReceipt, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cache.StoredReceipt), args.Error(1)
}

// transferHarness wires real budget store, pipeline and service behind the
// HTTP handlers.
type transferHarness struct {
	api       humatest.TestAPI
	submitter *mockSubmitter
	store     *budget.Store
}

func newTransferHarness(t *testing.T, budgets ...budget.Budget) *transferHarness {
	t.Helper()

	store := budget.NewStore()
	assert.NoError(t, store.ReplaceAll(budgets))

	submitter := new(mockSubmitter)
	pipeline := workflow.NewPipeline(submitter, store, nil, 1)
	pipeline.Start()
	t.Cleanup(pipeline.Stop)

	svc := &executorAdapter{store: store, pipeline: pipeline}

	_, api := humatest.New(t)
	NewEvaluateTransferHandler(svc).Register(api)
	NewExecuteTransferHandler(svc).Register(api)

	return &transferHarness{api: api, submitter: submitter, store: store}
}

// executorAdapter implements the handler interfaces directly on top of the
// workflow, standing in for the full service wiring.
type executorAdapter struct {
	store    *budget.Store
	pipeline *workflow.Pipeline
}

func (a *executorAdapter) Evaluate(intent transfer.Intent) (budget.Evaluation, error) {
	if err := intent.Validate(); err != nil {
		return budget.Evaluation{}, err
	}
	return a.store.Check(intent.Category, intent.Amount), nil
}

func (a *executorAdapter) Execute(ctx context.Context, intent transfer.Intent, pin string, proceedAnyway bool) (*workflow.Workflow, error) {
	wf := workflow.New(a.store, a.pipeline, intent)
	state, err := wf.Submit()
	if err != nil {
		return wf, err
	}
	if state == workflow.StateWarning {
		if !proceedAnyway {
			return wf, nil
		}
		if err := wf.ProceedAnyway(); err != nil {
			return wf, err
		}
	}
	if _, err := wf.ConfirmPIN(ctx, pin); err != nil {
		return wf, err
	}
	return wf, nil
}

func foodBudget(limit, spent string) budget.Budget {
	return budget.Budget{
		ID:          uuid.Must(uuid.NewV4()),
		Category:    "Food",
		LimitAmount: decimal.RequireFromString(limit),
		SpentAmount: decimal.RequireFromString(spent),
		Month:       6,
		Year:        2025,
	}
}

func upiBody(amount string) TransferBody {
	return TransferBody{
		FromAccountID: uuid.Must(uuid.NewV4()).String(),
		Amount:        amount,
		Category:      "Food",
		Type:          "upi",
		ToUPI:         "alice@okbank",
	}
}

func TestHTTP_EvaluateTransfer_Ok(t *testing.T) {
	h := newTransferHarness(t, foodBudget("10000", "1000"))

	resp := h.api.Post("/v1/transfer/evaluate", upiBody("500"))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body EvaluateTransferResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.BudgetStatus)
	assert.Equal(t, "9000", body.Remaining)
}

func TestHTTP_EvaluateTransfer_Exceeded(t *testing.T) {
	h := newTransferHarness(t, foodBudget("10000", "9500"))

	resp := h.api.Post("/v1/transfer/evaluate", upiBody("600"))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body EvaluateTransferResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "exceeded", body.BudgetStatus)
	assert.Equal(t, "100", body.ExceededBy)
}

func TestHTTP_EvaluateTransfer_InvalidUPI(t *testing.T) {
	h := newTransferHarness(t)

	body := upiBody("500")
	body.ToUPI = "5876543210"
	resp := h.api.Post("/v1/transfer/evaluate", body)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_ExecuteTransfer_Success(t *testing.T) {
	h := newTransferHarness(t, foodBudget("10000", "1000"))

	h.submitter.On("SubmitTransfer", mock.Anything, mock.MatchedBy(func(req backend.TransferRequest) bool {
		return req.ToUPI == "alice@okbank" && req.PIN == "1234" && req.TransferType == "upi"
	})).Return(&backend.TransferResponse{ID: "txn-1"}, nil)

	resp := h.api.Post("/v1/transfer", ExecuteTransferBody{
		TransferBody: upiBody("500"),
		PIN:          "1234",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ExecuteTransferResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.State)
	assert.Equal(t, "alice@okbank", body.To)
	assert.Empty(t, body.Reason)

	// the confirmed spend lands in the mirror
	eval := h.store.Check("Food", decimal.RequireFromString("1"))
	assert.True(t, eval.Remaining.Equal(decimal.RequireFromString("8500")))
	h.submitter.AssertExpectations(t)
}

func TestHTTP_ExecuteTransfer_WarningHalt(t *testing.T) {
	h := newTransferHarness(t, foodBudget("1000", "900"))

	resp := h.api.Post("/v1/transfer", ExecuteTransferBody{
		TransferBody: upiBody("500"),
		PIN:          "1234",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ExecuteTransferResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "warning", body.State)
	assert.Equal(t, "400", body.ExceededBy)
	h.submitter.AssertNotCalled(t, "SubmitTransfer")
}

func TestHTTP_ExecuteTransfer_ProceedAnyway(t *testing.T) {
	h := newTransferHarness(t, foodBudget("1000", "900"))

	h.submitter.On("SubmitTransfer", mock.Anything, mock.Anything).
		Return(&backend.TransferResponse{ID: "txn-2"}, nil)

	resp := h.api.Post("/v1/transfer", ExecuteTransferBody{
		TransferBody:  upiBody("500"),
		PIN:           "1234",
		ProceedAnyway: true,
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ExecuteTransferResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.State)
}

func TestHTTP_ExecuteTransfer_BackendRejection(t *testing.T) {
	h := newTransferHarness(t, foodBudget("10000", "1000"))

	h.submitter.On("SubmitTransfer", mock.Anything, mock.Anything).
		Return(nil, &backend.APIError{Status: 400, Detail: "Insufficient balance"})

	resp := h.api.Post("/v1/transfer", ExecuteTransferBody{
		TransferBody: upiBody("500"),
		PIN:          "1234",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ExecuteTransferResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "failure", body.State)
	assert.Equal(t, "Insufficient balance", body.Reason)

	// a failed transfer never touches the mirror
	eval := h.store.Check("Food", decimal.RequireFromString("1"))
	assert.True(t, eval.Remaining.Equal(decimal.RequireFromString("9000")))
}

func TestHTTP_ExecuteTransfer_MissingPIN(t *testing.T) {
	h := newTransferHarness(t, foodBudget("10000", "1000"))

	resp := h.api.Post("/v1/transfer", ExecuteTransferBody{
		TransferBody: upiBody("500"),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	h.submitter.AssertNotCalled(t, "SubmitTransfer")
}

func TestHTTP_ListHistory(t *testing.T) {
	when := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	mockSvc := new(mockHistory)
	mockSvc.On("History", 0).Return([]cache.StoredReceipt{
		{
			RequestID: "req-1",
			Receipt: transfer.Receipt{
				To:     "alice@okbank",
				Amount: decimal.RequireFromString("500"),
				Mode:   transfer.TypeUPI,
				Time:   when,
			},
		},
	}, nil)

	_, api := humatest.New(t)
	NewListHistoryHandler(mockSvc).Register(api)

	resp := api.Get("/v1/transfers/history")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListHistoryResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transfers, 1)
	assert.Equal(t, "alice@okbank", body.Transfers[0].To)
	assert.Equal(t, "upi", body.Transfers[0].Mode)
}

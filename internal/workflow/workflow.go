// Package workflow sequences an outbound transfer: field validation, the
// budget check, PIN capture, submission, and the terminal success or
// failure state.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finvault/dashboard-core/internal/backend"
	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/transfer"
)

// genericFailureReason is shown when the backend error carries no detail.
const genericFailureReason = "Transaction failed"

var ErrInvalidTransition = errors.New("workflow: invalid transition")

// State is the workflow's current step.
type State string

const (
	// StateEditing is the initial state: the user is composing the intent.
	StateEditing State = "editing"
	// StateWarning holds progress after a budget-exceeded evaluation until
	// the user explicitly proceeds or cancels.
	StateWarning State = "warning"
	// StatePinEntry is the PIN-capture modal.
	StatePinEntry State = "pin_entry"
	// StateProcessing blocks input while the submission is in flight.
	StateProcessing State = "processing"
	// StateSuccess and StateFailure are terminal.
	StateSuccess State = "success"
	StateFailure State = "failure"
)

// Workflow drives one transfer intent to a terminal state. It is not safe
// for concurrent use by multiple goroutines driving transitions; like the
// screen it models, one user drives it at a time.
type Workflow struct {
	state    State
	intent   transfer.Intent
	eval     budget.Evaluation
	budgets  *budget.Store
	pipeline *Pipeline
	receipt  transfer.Receipt
}

// New starts a workflow in Editing for the given intent.
func New(budgets *budget.Store, pipeline *Pipeline, intent transfer.Intent) *Workflow {
	return &Workflow{
		state:    StateEditing,
		intent:   intent,
		budgets:  budgets,
		pipeline: pipeline,
	}
}

func (w *Workflow) State() State { return w.state }

// Intent returns the in-flight intent. Preserved across PIN dismissal.
func (w *Workflow) Intent() transfer.Intent { return w.intent }

// Evaluation returns the budget evaluation from the last Submit, for the
// warning view.
func (w *Workflow) Evaluation() budget.Evaluation { return w.eval }

// Receipt returns the terminal receipt. Zero until Success or Failure.
func (w *Workflow) Receipt() transfer.Receipt { return w.receipt }

// SetIntent replaces the intent while still in Editing.
func (w *Workflow) SetIntent(intent transfer.Intent) error {
	if w.state != StateEditing {
		return fmt.Errorf("%w: edit from %s", ErrInvalidTransition, w.state)
	}
	w.intent = intent
	return nil
}

// Submit validates the intent and runs the budget check. A validation error
// keeps the workflow in Editing. An exceeded evaluation halts in Warning;
// ok, near, and no-budget proceed straight to PIN entry.
func (w *Workflow) Submit() (State, error) {
	if w.state != StateEditing {
		return w.state, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, w.state)
	}

	if err := w.intent.Validate(); err != nil {
		return w.state, err
	}

	w.eval = w.budgets.Check(w.intent.Category, w.intent.Amount)
	if w.eval.Status == budget.StatusExceeded {
		w.state = StateWarning
	} else {
		w.state = StatePinEntry
	}
	return w.state, nil
}

// ProceedAnyway is the explicit user override out of the budget warning.
func (w *Workflow) ProceedAnyway() error {
	if w.state != StateWarning {
		return fmt.Errorf("%w: proceed from %s", ErrInvalidTransition, w.state)
	}
	w.state = StatePinEntry
	return nil
}

// CancelWarning returns from the warning to Editing.
func (w *Workflow) CancelWarning() error {
	if w.state != StateWarning {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, w.state)
	}
	w.state = StateEditing
	return nil
}

// DismissPIN abandons PIN capture and returns to Editing. The whole intent,
// amount and destination included, is preserved.
func (w *Workflow) DismissPIN() error {
	if w.state != StatePinEntry {
		return fmt.Errorf("%w: dismiss from %s", ErrInvalidTransition, w.state)
	}
	w.state = StateEditing
	return nil
}

// ConfirmPIN submits the transfer with the captured PIN and blocks until the
// pipeline reports a terminal outcome. The PIN lives only in this call frame
// and the submission payload. The returned receipt belongs to whichever
// terminal state was reached; inspect State or Receipt.Succeeded.
func (w *Workflow) ConfirmPIN(ctx context.Context, pin string) (transfer.Receipt, error) {
	if w.state != StatePinEntry {
		return transfer.Receipt{}, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, w.state)
	}
	w.state = StateProcessing

	resp, err := w.pipeline.Process(ctx, w.intent.BuildRequest(pin), w.intent.Category, w.intent.Amount)

	receipt := transfer.Receipt{
		To:     w.intent.Destination.Label(),
		Amount: w.intent.Amount,
		Mode:   w.intent.Destination.Type(),
		Time:   time.Now(),
	}

	if err != nil {
		receipt.Reason = failureReason(err)
		w.state = StateFailure
		w.receipt = receipt
		return receipt, nil
	}

	if resp != nil && !resp.CreatedAt.IsZero() {
		receipt.Time = resp.CreatedAt
	}
	w.state = StateSuccess
	w.receipt = receipt
	return receipt, nil
}

// Retry returns from Failure to a fresh Editing state. The intent keeps its
// request ID: a retried submission of the same intent must stay deduplicable
// by the backend in case the failed attempt actually landed.
func (w *Workflow) Retry() error {
	if w.state != StateFailure {
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, w.state)
	}
	w.state = StateEditing
	w.eval = budget.Evaluation{}
	w.receipt = transfer.Receipt{}
	return nil
}

// failureReason maps a submission error to the user-visible reason: the
// backend's detail verbatim when present, else a generic message. Transport
// errors get no distinguished handling.
func failureReason(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return genericFailureReason
}

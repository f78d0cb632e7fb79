package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/cache"
	"github.com/finvault/dashboard-core/internal/transfer"
	"github.com/finvault/dashboard-core/internal/workflow"
)

// TransferService drives transfer workflows and keeps the local receipt
// history.
type TransferService struct {
	pipeline *workflow.Pipeline
	budgets  *budget.Store
	cache    *cache.Cache
	logger   *logrus.Logger
}

// NewTransferService creates a new TransferService. cache may be nil.
func NewTransferService(pipeline *workflow.Pipeline, budgets *budget.Store, cacheStore *cache.Cache, logger *logrus.Logger) *TransferService {
	return &TransferService{pipeline: pipeline, budgets: budgets, cache: cacheStore, logger: logger}
}

// Begin starts a workflow in Editing for the given intent.
func (s *TransferService) Begin(intent transfer.Intent) *workflow.Workflow {
	return workflow.New(s.budgets, s.pipeline, intent)
}

// Evaluate validates an intent and returns its budget evaluation without
// advancing any workflow. This backs the pre-submit budget warning.
func (s *TransferService) Evaluate(intent transfer.Intent) (budget.Evaluation, error) {
	if err := intent.Validate(); err != nil {
		return budget.Evaluation{}, err
	}
	return s.budgets.Check(intent.Category, intent.Amount), nil
}

// Execute drives one intent through the whole workflow: submit, optional
// warning override, PIN confirmation, terminal state. When the budget check
// halts in Warning and proceedAnyway is false, the workflow is returned
// still in Warning and nothing was submitted. The terminal receipt, when one
// was produced, has been recorded to the local history.
func (s *TransferService) Execute(ctx context.Context, intent transfer.Intent, pin string, proceedAnyway bool) (*workflow.Workflow, error) {
	wf := s.Begin(intent)

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

	receipt, err := wf.ConfirmPIN(ctx, pin)
	if err != nil {
		return wf, err
	}

	s.recordReceipt(intent, receipt)
	return wf, nil
}

// History returns the most recent local receipts, newest first.
func (s *TransferService) History(limit int) ([]cache.StoredReceipt, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.ListReceipts(limit)
}

func (s *TransferService) recordReceipt(intent transfer.Intent, receipt transfer.Receipt) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveReceipt(intent.RequestID.String(), receipt); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("TransferService.recordReceipt failed")
	}
}

package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finvault/dashboard-core/internal/backend"
	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/logging"
)

// Submitter sends a transfer to the backend. backend.Client satisfies this.
type Submitter interface {
	SubmitTransfer(ctx context.Context, req backend.TransferRequest) (*backend.TransferResponse, error)
}

type submission struct {
	ctx      context.Context
	req      backend.TransferRequest
	category string
	amount   decimal.Decimal
	response chan submissionResult
}

type submissionResult struct {
	receipt *backend.TransferResponse
	err     error
}

// Pipeline serializes transfer submissions through a worker so that the
// budget store only ever sees a payment applied strictly after the backend
// confirmed it, and never interleaved between concurrent workflows.
// ErrStopped is returned for submissions arriving after Stop.
var ErrStopped = errors.New("workflow: pipeline stopped")

type Pipeline struct {
	submitter  Submitter
	budgets    *budget.Store
	logger     *logrus.Logger
	queue      chan submission
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once

	// stopMu orders enqueues against Stop closing the queue.
	stopMu  sync.RWMutex
	stopped bool
}

func NewPipeline(submitter Submitter, budgets *budget.Store, logger *logrus.Logger, numWorkers int) *Pipeline {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pipeline{
		submitter:  submitter,
		budgets:    budgets,
		logger:     logger,
		queue:      make(chan submission, 64),
		numWorkers: numWorkers,
	}
}

// Start launches the workers.
func (p *Pipeline) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run()
		}()
	}
}

// Stop closes the queue and waits for in-flight submissions to drain.
// Submissions racing Stop either land before the close or get ErrStopped.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() {
		p.stopMu.Lock()
		p.stopped = true
		close(p.queue)
		p.stopMu.Unlock()

		p.wg.Wait()
	})
}

// Process enqueues one submission and blocks until its outcome. On success
// the matching budget has already been charged when Process returns.
func (p *Pipeline) Process(ctx context.Context, req backend.TransferRequest, category string, amount decimal.Decimal) (*backend.TransferResponse, error) {
	respCh := make(chan submissionResult, 1)
	item := submission{
		ctx:      ctx,
		req:      req,
		category: category,
		amount:   amount,
		response: respCh,
	}

	// the read lock spans the send: the queue can only be closed once no
	// sender holds it, and workers drain independently of the lock
	p.stopMu.RLock()
	if p.stopped {
		p.stopMu.RUnlock()
		return nil, ErrStopped
	}
	p.queue <- item
	p.stopMu.RUnlock()

	select {
	case result := <-respCh:
		return result.receipt, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pipeline) run() {
	for item := range p.queue {
		p.processItem(item)
	}
}

func (p *Pipeline) processItem(item submission) {
	if p.logger != nil {
		logging.DebugDump(p.logger, "Pipeline.Submit", item.req)
	}

	receipt, err := p.submitter.SubmitTransfer(item.ctx, item.req)
	if err != nil {
		if p.logger != nil {
			p.logger.WithError(err).Warn("Pipeline.Submit.failed")
		}
		item.response <- submissionResult{err: err}
		return
	}

	// Strictly after backend confirmation. A payment against a category
	// without a budget is a no-op.
	if item.category != "" {
		p.budgets.ApplyPayment(item.category, item.amount)
	}

	item.response <- submissionResult{receipt: receipt}
}

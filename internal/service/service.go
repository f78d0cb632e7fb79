package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/cache"
	"github.com/finvault/dashboard-core/internal/otp"
	"github.com/finvault/dashboard-core/internal/session"
	"github.com/finvault/dashboard-core/internal/workflow"
)

// Service holds all business logic services.
type Service struct {
	Budget   *BudgetService
	Transfer *TransferService
	OTP      *OTPService
}

// Deps are the shared collaborators the services are wired with.
type Deps struct {
	Backend  BackendAPI
	Budgets  *budget.Store
	Sessions *session.Store
	Cache    *cache.Cache
	Pipeline *workflow.Pipeline
	Logger   *logrus.Logger
	// Clock defaults to time.Now; injected by tests.
	Clock func() time.Time
}

// BackendAPI is the full backend surface the services consume.
// backend.Client satisfies this.
type BackendAPI interface {
	budgetAPI
	otp.Verifier
}

// NewService creates a new Service with the given dependencies.
func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{
		Budget:   NewBudgetService(deps.Backend, deps.Budgets, deps.Cache, deps.Logger),
		Transfer: NewTransferService(deps.Pipeline, deps.Budgets, deps.Cache, deps.Logger),
		OTP:      NewOTPService(deps.Backend, deps.Sessions, deps.Clock),
	}
}

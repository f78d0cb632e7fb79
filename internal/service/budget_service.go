package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finvault/dashboard-core/internal/backend"
	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/cache"
)

// budgetAPI is the backend surface for the budgets resource.
type budgetAPI interface {
	ListBudgets(ctx context.Context, month, year int) ([]backend.Budget, error)
	CreateBudget(ctx context.Context, create backend.BudgetCreate) (*backend.Budget, error)
	UpdateBudget(ctx context.Context, id string, update backend.BudgetUpdate) (*backend.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

// BudgetService keeps the local budget guard in sync with the backend's
// budgets resource and answers evaluations from the local mirror.
type BudgetService struct {
	backend budgetAPI
	store   *budget.Store
	cache   *cache.Cache
	logger  *logrus.Logger
}

// NewBudgetService creates a new BudgetService. cache may be nil.
func NewBudgetService(api budgetAPI, store *budget.Store, cacheStore *cache.Cache, logger *logrus.Logger) *BudgetService {
	return &BudgetService{backend: api, store: store, cache: cacheStore, logger: logger}
}

// Sync refreshes the local mirror from the backend for the given period and
// snapshots it to the local cache.
func (s *BudgetService) Sync(ctx context.Context, month, year int) error {
	rows, err := s.backend.ListBudgets(ctx, month, year)
	if err != nil {
		return fmt.Errorf("syncing budgets: %w", err)
	}

	budgets := make([]budget.Budget, 0, len(rows))
	for _, row := range rows {
		converted, convErr := budgetFromBackend(row)
		if convErr != nil {
			return convErr
		}
		budgets = append(budgets, converted)
	}

	if err := s.store.ReplaceAll(budgets); err != nil {
		return err
	}

	s.snapshotToCache()
	return nil
}

// LoadCached installs the last cached snapshot, for starting offline.
func (s *BudgetService) LoadCached() error {
	if s.cache == nil {
		return nil
	}
	budgets, err := s.cache.LoadBudgets()
	if err != nil {
		return err
	}
	return s.store.ReplaceAll(budgets)
}

// Check evaluates a proposed spend against the local mirror.
func (s *BudgetService) Check(category string, amount decimal.Decimal) budget.Evaluation {
	return s.store.Check(category, amount)
}

// Budgets returns the local mirror's current contents.
func (s *BudgetService) Budgets() []budget.Budget {
	return s.store.Snapshot()
}

// Create adds a budget on the backend and mirrors it locally.
func (s *BudgetService) Create(ctx context.Context, month, year int, category string, limit decimal.Decimal) (budget.Budget, error) {
	created, err := s.backend.CreateBudget(ctx, backend.BudgetCreate{
		Month:       month,
		Year:        year,
		Category:    category,
		LimitAmount: limit,
	})
	if err != nil {
		return budget.Budget{}, fmt.Errorf("creating budget: %w", err)
	}

	converted, err := budgetFromBackend(*created)
	if err != nil {
		return budget.Budget{}, err
	}
	if err := s.store.Upsert(converted); err != nil {
		return budget.Budget{}, err
	}

	s.snapshotToCache()
	return converted, nil
}

// Update edits a budget's category or limit on the backend and locally.
func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, category *string, limit *decimal.Decimal) (budget.Budget, error) {
	updated, err := s.backend.UpdateBudget(ctx, id.String(), backend.BudgetUpdate{
		Category:    category,
		LimitAmount: limit,
	})
	if err != nil {
		return budget.Budget{}, fmt.Errorf("updating budget: %w", err)
	}

	converted, err := budgetFromBackend(*updated)
	if err != nil {
		return budget.Budget{}, err
	}
	if err := s.store.Upsert(converted); err != nil {
		return budget.Budget{}, err
	}

	s.snapshotToCache()
	return converted, nil
}

// Delete removes a budget on the backend and locally.
func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.backend.DeleteBudget(ctx, id.String()); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	s.store.Remove(id)
	s.snapshotToCache()
	return nil
}

// snapshotToCache persists the mirror best-effort: a cache write failure
// never fails the user action.
func (s *BudgetService) snapshotToCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveBudgets(s.store.Snapshot()); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("BudgetService.snapshot failed")
	}
}

func budgetFromBackend(row backend.Budget) (budget.Budget, error) {
	id, err := uuid.FromString(row.ID)
	if err != nil {
		return budget.Budget{}, fmt.Errorf("parsing budget id %q: %w", row.ID, err)
	}
	return budget.Budget{
		ID:          id,
		Category:    row.Category,
		LimitAmount: row.LimitAmount,
		SpentAmount: row.SpentAmount,
		Month:       row.Month,
		Year:        row.Year,
	}, nil
}

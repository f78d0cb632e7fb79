package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/finvault/dashboard-core/internal/backend"
	"github.com/finvault/dashboard-core/internal/budget"
)

type mockBudgetAPI struct {
	mock.Mock
}

func (m *mockBudgetAPI) ListBudgets(ctx context.Context, month, year int) ([]backend.Budget, error) {
	args := m.Called(ctx, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backend.Budget), args.Error(1)
}

func (m *mockBudgetAPI) CreateBudget(ctx context.Context, create backend.BudgetCreate) (*backend.Budget, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Budget), args.Error(1)
}

func (m *mockBudgetAPI) UpdateBudget(ctx context.Context, id string, update backend.BudgetUpdate) (*backend.Budget, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Budget), args.Error(1)
}

func (m *mockBudgetAPI) DeleteBudget(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newBudgetService(t *testing.T) (*BudgetService, *mockBudgetAPI, *budget.Store) {
	t.Helper()
	api := new(mockBudgetAPI)
	store := budget.NewStore()
	svc := NewBudgetService(api, store, nil, nil)
	return svc, api, store
}

func backendBudget(category, limit, spent string) backend.Budget {
	return backend.Budget{
		ID:          uuid.Must(uuid.NewV4()).String(),
		Category:    category,
		LimitAmount: decimal.RequireFromString(limit),
		SpentAmount: decimal.RequireFromString(spent),
		Month:       6,
		Year:        2025,
	}
}

func TestBudgetSync_InstallsServerList(t *testing.T) {
	svc, api, store := newBudgetService(t)

	api.On("ListBudgets", mock.Anything, 6, 2025).Return([]backend.Budget{
		backendBudget("Food", "10000", "1500"),
		backendBudget("Travel", "5000", "0"),
	}, nil)

	assert.NoError(t, svc.Sync(context.Background(), 6, 2025))
	assert.Len(t, store.Snapshot(), 2)

	eval := svc.Check("Food", decimal.RequireFromString("500"))
	assert.Equal(t, budget.StatusOK, eval.Status)
}

func TestBudgetSync_BackendError(t *testing.T) {
	svc, api, store := newBudgetService(t)

	api.On("ListBudgets", mock.Anything, 6, 2025).
		Return(nil, errors.New("connection refused"))

	err := svc.Sync(context.Background(), 6, 2025)
	assert.Error(t, err)
	assert.Empty(t, store.Snapshot())
}

func TestBudgetSync_BadIDFromBackend(t *testing.T) {
	svc, api, _ := newBudgetService(t)

	bad := backendBudget("Food", "10000", "0")
	bad.ID = "not-a-uuid"
	api.On("ListBudgets", mock.Anything, 6, 2025).Return([]backend.Budget{bad}, nil)

	assert.Error(t, svc.Sync(context.Background(), 6, 2025))
}

func TestBudgetCreate_MirrorsLocally(t *testing.T) {
	svc, api, store := newBudgetService(t)

	created := backendBudget("Food", "10000", "0")
	api.On("CreateBudget", mock.Anything, mock.MatchedBy(func(c backend.BudgetCreate) bool {
		return c.Category == "Food" && c.LimitAmount.Equal(decimal.RequireFromString("10000")) &&
			c.Month == 6 && c.Year == 2025
	})).Return(&created, nil)

	b, err := svc.Create(context.Background(), 6, 2025, "Food", decimal.RequireFromString("10000"))
	assert.NoError(t, err)
	assert.Equal(t, "Food", b.Category)
	assert.Len(t, store.Snapshot(), 1)
}

func TestBudgetUpdate_MirrorsLocally(t *testing.T) {
	svc, api, store := newBudgetService(t)

	existing := backendBudget("Food", "10000", "1500")
	api.On("ListBudgets", mock.Anything, 6, 2025).Return([]backend.Budget{existing}, nil)
	assert.NoError(t, svc.Sync(context.Background(), 6, 2025))

	newLimit := decimal.RequireFromString("12000")
	updated := existing
	updated.LimitAmount = newLimit
	api.On("UpdateBudget", mock.Anything, existing.ID, mock.Anything).Return(&updated, nil)

	id := uuid.FromStringOrNil(existing.ID)
	b, err := svc.Update(context.Background(), id, nil, &newLimit)
	assert.NoError(t, err)
	assert.True(t, b.LimitAmount.Equal(newLimit))

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].LimitAmount.Equal(newLimit))
}

func TestBudgetDelete_RemovesLocally(t *testing.T) {
	svc, api, store := newBudgetService(t)

	existing := backendBudget("Food", "10000", "1500")
	api.On("ListBudgets", mock.Anything, 6, 2025).Return([]backend.Budget{existing}, nil)
	assert.NoError(t, svc.Sync(context.Background(), 6, 2025))

	api.On("DeleteBudget", mock.Anything, existing.ID).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), uuid.FromStringOrNil(existing.ID)))
	assert.Empty(t, store.Snapshot())
}

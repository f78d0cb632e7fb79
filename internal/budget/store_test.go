package budget

import (
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestStore(t *testing.T, budgets ...Budget) *Store {
	t.Helper()
	store := NewStore()
	assert.NoError(t, store.ReplaceAll(budgets))
	return store
}

func foodBudget(limit, spent string) Budget {
	return Budget{
		ID:          uuid.Must(uuid.NewV4()),
		Category:    "Food",
		LimitAmount: dec(limit),
		SpentAmount: dec(spent),
		Month:       6,
		Year:        2025,
	}
}

func TestCheck_UnknownCategory(t *testing.T) {
	store := newTestStore(t, foodBudget("10000", "1000"))

	eval := store.Check("Travel", dec("50"))
	assert.Equal(t, StatusNoBudget, eval.Status)
}

func TestCheck_CategoryIsCaseSensitive(t *testing.T) {
	store := newTestStore(t, foodBudget("10000", "1000"))

	eval := store.Check("food", dec("50"))
	assert.Equal(t, StatusNoBudget, eval.Status)
}

func TestCheck_Exceeded(t *testing.T) {
	store := newTestStore(t, foodBudget("10000", "9500"))

	eval := store.Check("Food", dec("600"))
	assert.Equal(t, StatusExceeded, eval.Status)
	assert.True(t, eval.ExceededBy.Equal(dec("100")), "exceededBy = %s", eval.ExceededBy)
	assert.True(t, eval.Remaining.Equal(dec("500")))
	assert.Equal(t, "Food", eval.Budget.Category)
}

func TestCheck_NearLimit(t *testing.T) {
	// remaining after spend = 100, threshold = 0.2*10000 = 2000
	store := newTestStore(t, foodBudget("10000", "9500"))

	eval := store.Check("Food", dec("400"))
	assert.Equal(t, StatusNear, eval.Status)
	assert.True(t, eval.Remaining.Equal(dec("500")))
}

func TestCheck_OK(t *testing.T) {
	// remaining after spend = 8500 > 2000
	store := newTestStore(t, foodBudget("10000", "1000"))

	eval := store.Check("Food", dec("500"))
	assert.Equal(t, StatusOK, eval.Status)
	assert.True(t, eval.Remaining.Equal(dec("9000")))
}

func TestCheck_BoundaryExactlyTwentyPercentRemaining(t *testing.T) {
	// remaining after spend is exactly 0.2*limit: still "near", not "ok"
	store := newTestStore(t, foodBudget("10000", "2000"))

	eval := store.Check("Food", dec("6000"))
	assert.Equal(t, StatusNear, eval.Status)
}

func TestCheck_JustAboveTwentyPercentRemaining(t *testing.T) {
	store := newTestStore(t, foodBudget("10000", "2000"))

	eval := store.Check("Food", dec("5999.99"))
	assert.Equal(t, StatusOK, eval.Status)
}

func TestCheck_AmountEqualToRemainingIsNotExceeded(t *testing.T) {
	// amount == remaining lands in near, never exceeded
	store := newTestStore(t, foodBudget("10000", "9500"))

	eval := store.Check("Food", dec("500"))
	assert.Equal(t, StatusNear, eval.Status)
	assert.True(t, eval.ExceededBy.IsZero())
}

func TestCheck_Idempotent(t *testing.T) {
	store := newTestStore(t, foodBudget("10000", "9500"))

	first := store.Check("Food", dec("400"))
	second := store.Check("Food", dec("400"))
	assert.Equal(t, first.Status, second.Status)
	assert.True(t, first.Remaining.Equal(second.Remaining))
}

func TestApplyPayment_IncreasesOnlyMatchingBudget(t *testing.T) {
	food := foodBudget("10000", "1000")
	travel := Budget{
		ID:          uuid.Must(uuid.NewV4()),
		Category:    "Travel",
		LimitAmount: dec("5000"),
		SpentAmount: dec("200"),
		Month:       6,
		Year:        2025,
	}
	store := newTestStore(t, food, travel)

	eval := store.Check("Food", dec("500"))
	assert.Equal(t, StatusOK, eval.Status)

	store.ApplyPayment("Food", dec("500"))

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 2)
	for _, b := range snapshot {
		switch b.Category {
		case "Food":
			assert.True(t, b.SpentAmount.Equal(dec("1500")))
		case "Travel":
			assert.True(t, b.SpentAmount.Equal(dec("200")))
		}
	}
}

func TestApplyPayment_UnknownCategoryIsNoOp(t *testing.T) {
	store := newTestStore(t, foodBudget("10000", "1000"))

	store.ApplyPayment("Travel", dec("500"))

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].SpentAmount.Equal(dec("1000")))
}

func TestUpsert_CreateAndEdit(t *testing.T) {
	store := NewStore()

	b := foodBudget("10000", "0")
	assert.NoError(t, store.Upsert(b))
	assert.Len(t, store.Snapshot(), 1)

	b.LimitAmount = dec("12000")
	assert.NoError(t, store.Upsert(b))

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].LimitAmount.Equal(dec("12000")))
}

func TestUpsert_RejectsNegativeLimit(t *testing.T) {
	store := NewStore()

	b := foodBudget("10000", "0")
	b.LimitAmount = dec("-1")
	assert.ErrorIs(t, store.Upsert(b), ErrNegativeLimit)
	assert.Empty(t, store.Snapshot())
}

func TestRemove(t *testing.T) {
	b := foodBudget("10000", "0")
	store := newTestStore(t, b)

	store.Remove(b.ID)
	assert.Empty(t, store.Snapshot())

	eval := store.Check("Food", dec("1"))
	assert.Equal(t, StatusNoBudget, eval.Status)
}

func TestReplaceAll_RejectsNegativeLimit(t *testing.T) {
	store := NewStore()

	bad := foodBudget("10000", "0")
	bad.LimitAmount = dec("-5")
	assert.ErrorIs(t, store.ReplaceAll([]Budget{bad}), ErrNegativeLimit)
}

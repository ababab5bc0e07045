package budget_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, dayOfMonth int) budget.Date {
	return budget.NewDate(year, month, dayOfMonth)
}

// newScenarioPlan builds the reference plan: total 10000, Food 4000,
// Transport 2000, period 2024-01-01 through 2024-01-31 (clock fixed so the
// period is not clamped).
func newScenarioPlan(t *testing.T) *budget.BudgetPlan {
	t.Helper()

	b := budget.NewPlanBuilder()
	b.Now = func() budget.Date { return day(2024, time.January, 1) }

	require.NoError(t, b.SetTotalBudget(d("10000")))
	require.NoError(t, b.SetPeriod(day(2024, time.January, 1), day(2024, time.January, 31)))
	require.NoError(t, b.AddItem("Food", d("4000")))
	require.NoError(t, b.AddItem("Transport", d("2000")))

	plan, err := b.Finalize()
	require.NoError(t, err)
	return plan
}

// newScenarioLog records 2024-01-05: Food 3000 then Transport 2500.
func newScenarioLog(t *testing.T, plan *budget.BudgetPlan) *budget.SpendingLog {
	t.Helper()

	log := budget.NewSpendingLog()
	err := log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("3000")},
		{ItemName: "Transport", Amount: d("2500")},
	})
	require.NoError(t, err)
	return log
}

func requireDecimalEqual(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.True(t, d(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

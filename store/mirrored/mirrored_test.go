package mirrored

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/budget/store"
)

var errBroken = errors.New("broken store")

// brokenStore fails every operation; it stands in for a corrupted or
// unreachable side of the composite.
type brokenStore struct{}

func (brokenStore) SaveBudgetPlan(context.Context, *budget.BudgetPlan) (string, error) {
	return "", errBroken
}
func (brokenStore) LoadLatestBudgetPlan(context.Context) (*budget.BudgetPlan, error) {
	return nil, errBroken
}
func (brokenStore) SaveSpendingDay(context.Context, budget.SpendingDay) error { return errBroken }
func (brokenStore) LoadAllSpendingDays(context.Context) ([]budget.SpendingDay, error) {
	return nil, errBroken
}
func (brokenStore) LoadSpendingDaysInRange(context.Context, budget.Date, budget.Date) ([]budget.SpendingDay, error) {
	return nil, errBroken
}
func (brokenStore) ClearAll(context.Context) error { return errBroken }

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testPlan() *budget.BudgetPlan {
	return &budget.BudgetPlan{
		TotalBudget: d("10000"),
		Period: budget.Period{
			Start: budget.NewDate(2024, time.January, 1),
			End:   budget.NewDate(2024, time.January, 31),
		},
		Items: []budget.PlanItem{{Name: "Food", Allocated: d("4000")}},
	}
}

func testDay(dayOfMonth int) budget.SpendingDay {
	return budget.SpendingDay{
		Date:   budget.NewDate(2024, time.January, dayOfMonth),
		Events: []budget.SpendingEvent{{ItemName: "Food", Amount: d("100")}},
	}
}

func quiet(st *Store) *Store {
	st.Logf = func(string, ...any) {}
	return st
}

// =============================================================================
// SHADOWED WRITES
// =============================================================================

func TestMirrored_WritesReachBothSides(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemory()
	mirror := store.NewMemory()
	st := New(primary, mirror)

	id, err := st.SaveBudgetPlan(ctx, testPlan())
	require.NoError(t, err)
	require.NoError(t, st.SaveSpendingDay(ctx, testDay(5)))

	for _, side := range []budget.Store{primary, mirror} {
		plan, err := side.LoadLatestBudgetPlan(ctx)
		require.NoError(t, err)
		require.NotNil(t, plan)
		assert.Equal(t, id, plan.ID)

		days, err := side.LoadAllSpendingDays(ctx)
		require.NoError(t, err)
		assert.Len(t, days, 1)
	}
}

func TestMirrored_MirrorFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemory()
	st := quiet(New(primary, brokenStore{}))

	_, err := st.SaveBudgetPlan(ctx, testPlan())
	require.NoError(t, err)
	require.NoError(t, st.SaveSpendingDay(ctx, testDay(5)))
	require.NoError(t, st.ClearAll(ctx))
}

func TestMirrored_PrimaryWriteFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	st := quiet(New(brokenStore{}, store.NewMemory()))

	_, err := st.SaveBudgetPlan(ctx, testPlan())
	assert.ErrorIs(t, err, errBroken)

	assert.ErrorIs(t, st.SaveSpendingDay(ctx, testDay(5)), errBroken)
	assert.ErrorIs(t, st.ClearAll(ctx), errBroken)
}

// =============================================================================
// FALLBACK READS / SELF-HEALING
// =============================================================================

func TestMirrored_LoadPlan_FallsBackToMirrorAndHealsPrimary(t *testing.T) {
	// GIVEN: An empty primary and a mirror that still has the plan
	// WHEN: The plan is loaded through the composite
	// THEN: The mirrored plan is returned and migrated into the primary

	ctx := context.Background()
	primary := store.NewMemory()
	mirror := store.NewMemory()
	_, err := mirror.SaveBudgetPlan(ctx, testPlan())
	require.NoError(t, err)

	st := quiet(New(primary, mirror))
	plan, err := st.LoadLatestBudgetPlan(ctx)

	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.True(t, d("10000").Equal(plan.TotalBudget))

	healed, err := primary.LoadLatestBudgetPlan(ctx)
	require.NoError(t, err)
	require.NotNil(t, healed)
	assert.True(t, d("10000").Equal(healed.TotalBudget))
	assert.Equal(t, healed.ID, plan.ID)
}

func TestMirrored_LoadDays_FallsBackToMirrorAndHealsPrimary(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemory()
	mirror := store.NewMemory()
	require.NoError(t, mirror.SaveSpendingDay(ctx, testDay(5)))
	require.NoError(t, mirror.SaveSpendingDay(ctx, testDay(12)))

	st := quiet(New(primary, mirror))
	days, err := st.LoadAllSpendingDays(ctx)

	require.NoError(t, err)
	require.Len(t, days, 2)

	healed, err := primary.LoadAllSpendingDays(ctx)
	require.NoError(t, err)
	assert.Len(t, healed, 2)
}

func TestMirrored_LoadPlan_BrokenPrimaryStillServesFromMirror(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemory()
	_, err := mirror.SaveBudgetPlan(ctx, testPlan())
	require.NoError(t, err)

	st := quiet(New(brokenStore{}, mirror))
	plan, err := st.LoadLatestBudgetPlan(ctx)

	// The write-back into the broken primary fails quietly; the read
	// itself succeeds.
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.True(t, d("10000").Equal(plan.TotalBudget))
}

func TestMirrored_LoadPlan_BothSidesEmpty(t *testing.T) {
	st := quiet(New(store.NewMemory(), store.NewMemory()))

	plan, err := st.LoadLatestBudgetPlan(context.Background())

	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestMirrored_LoadPlan_BothSidesBroken(t *testing.T) {
	st := quiet(New(brokenStore{}, brokenStore{}))

	_, err := st.LoadLatestBudgetPlan(context.Background())

	assert.ErrorIs(t, err, errBroken)
}

func TestMirrored_LoadDays_PrimaryDataWinsWhenPresent(t *testing.T) {
	// Once the primary has data the mirror is not consulted, even when it
	// disagrees.
	ctx := context.Background()
	primary := store.NewMemory()
	mirror := store.NewMemory()
	require.NoError(t, primary.SaveSpendingDay(ctx, testDay(5)))
	require.NoError(t, mirror.SaveSpendingDay(ctx, testDay(5)))
	require.NoError(t, mirror.SaveSpendingDay(ctx, testDay(12)))

	st := quiet(New(primary, mirror))
	days, err := st.LoadAllSpendingDays(ctx)

	require.NoError(t, err)
	assert.Len(t, days, 1)
}

func TestMirrored_LoadDaysInRange_FallsBackOnPrimaryError(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemory()
	require.NoError(t, mirror.SaveSpendingDay(ctx, testDay(5)))
	require.NoError(t, mirror.SaveSpendingDay(ctx, testDay(20)))

	st := quiet(New(brokenStore{}, mirror))
	days, err := st.LoadSpendingDaysInRange(ctx,
		budget.NewDate(2024, time.January, 1), budget.NewDate(2024, time.January, 10))

	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-01-05", days[0].Date.String())
}

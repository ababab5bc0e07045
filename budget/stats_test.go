package budget_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// REFERENCE SCENARIO
// =============================================================================

func TestStatistics_Scenario(t *testing.T) {
	// GIVEN: totalBudget=10000, Food=4000, Transport=2000, and one day
	//        2024-01-05 with Food 3000 + Transport 2500
	plan := newScenarioPlan(t)
	log := newScenarioLog(t, plan)
	stats := budget.NewStatistics(plan, log)

	requireDecimalEqual(t, "5500", stats.TotalSpent())

	spent := stats.SpentPerItem()
	requireDecimalEqual(t, "3000", spent["Food"])
	requireDecimalEqual(t, "2500", spent["Transport"])

	item, excess, ok := stats.MaxOverspendItem()
	require.True(t, ok)
	assert.Equal(t, "Transport", item)
	requireDecimalEqual(t, "500", excess)

	// (5500-10000)/10000*100 = -45.0 via the floor branch.
	requireDecimalEqual(t, "-45.0", stats.AdherencePercent())
}

func TestStatistics_SpentPerItem_SeedsUnspentItemsAtZero(t *testing.T) {
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("100")},
	}))

	spent := budget.NewStatistics(plan, log).SpentPerItem()

	require.Len(t, spent, 2)
	requireDecimalEqual(t, "100", spent["Food"])
	requireDecimalEqual(t, "0", spent["Transport"])
}

func TestStatistics_ItemUtilization(t *testing.T) {
	plan := newScenarioPlan(t)
	log := newScenarioLog(t, plan)

	utilization := budget.NewStatistics(plan, log).ItemUtilization()

	requireDecimalEqual(t, "75", utilization["Food"])       // 3000/4000
	requireDecimalEqual(t, "125", utilization["Transport"]) // 2500/2000
}

// =============================================================================
// ADHERENCE ROUNDING
// =============================================================================

func TestStatistics_AdherencePercent_ExactlyOnBudgetIsZero(t *testing.T) {
	// Boundary: totalSpent == totalBudget goes through the floor branch and
	// yields 0.0, not a ceiling artifact.
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("4000")},
		{ItemName: "Transport", Amount: d("2000")},
		{ItemName: "Food", Amount: d("4000")},
	}))
	// 4000+2000+4000 = 10000 exactly.

	requireDecimalEqual(t, "0", budget.NewStatistics(plan, log).AdherencePercent())
}

func TestStatistics_AdherencePercent_CeilsOverspend(t *testing.T) {
	// 10001/10000 -> +0.01% rounds UP to 0.1: overspend is never shown
	// milder than reality.
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("10001")},
	}))

	requireDecimalEqual(t, "0.1", budget.NewStatistics(plan, log).AdherencePercent())
}

func TestStatistics_AdherencePercent_FloorsUnderspend(t *testing.T) {
	// Spent 5501 of 10000: -44.99% floors to -45.0.
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("5501")},
	}))

	requireDecimalEqual(t, "-45.0", budget.NewStatistics(plan, log).AdherencePercent())
}

// =============================================================================
// DAY / WEEKDAY AGGREGATES
// =============================================================================

func TestStatistics_BusiestDay_TieBreaksToEarliest(t *testing.T) {
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	spend := []budget.SpendingEvent{{ItemName: "Food", Amount: d("500")}}

	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 10), spend))
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 3), spend))
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 7), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("100")},
	}))

	date, total, ok := budget.NewStatistics(plan, log).BusiestDay()

	require.True(t, ok)
	assert.Equal(t, "2024-01-03", date.String())
	requireDecimalEqual(t, "500", total)
}

func TestStatistics_WeekdayAverages(t *testing.T) {
	// 2024-01-01 and 2024-01-08 are both Mondays; 2024-01-03 is a Wednesday.
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()

	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 1), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("100")},
	}))
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 8), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("300")},
	}))
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 3), []budget.SpendingEvent{
		{ItemName: "Transport", Amount: d("50")},
	}))

	stats := budget.NewStatistics(plan, log)
	averages := stats.WeekdayAverages()

	require.Len(t, averages, 2)
	requireDecimalEqual(t, "200", averages[0]) // Monday: (100+300)/2
	requireDecimalEqual(t, "50", averages[2])  // Wednesday
	// Weekdays with no data are absent, not zero.
	_, hasFriday := averages[4]
	assert.False(t, hasFriday)

	assert.Equal(t, 0, stats.BusiestWeekday())
}

// =============================================================================
// EMPTY LOG
// =============================================================================

func TestStatistics_EmptyLog(t *testing.T) {
	plan := newScenarioPlan(t)
	stats := budget.NewStatistics(plan, budget.NewSpendingLog())

	requireDecimalEqual(t, "0", stats.TotalSpent())

	_, _, ok := stats.BusiestDay()
	assert.False(t, ok)

	assert.Empty(t, stats.WeekdayAverages())
	assert.Equal(t, 0, stats.BusiestWeekday(), "defaults to Monday")

	_, _, over := stats.MaxOverspendItem()
	assert.False(t, over)

	advisory := stats.Advisory()
	assert.Equal(t, budget.TagAscetic, advisory.Tag)
	assert.Equal(t, budget.SeverityPositive, advisory.Severity)
}

// =============================================================================
// ADVISORY CLASSIFICATION
// =============================================================================

func TestStatistics_Advisory_FullyCompliant(t *testing.T) {
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("1000")},
	}))

	advisory := budget.NewStatistics(plan, log).Advisory()

	assert.Equal(t, budget.TagFullyCompliant, advisory.Tag)
	assert.Equal(t, budget.SeverityPositive, advisory.Severity)
	assert.Empty(t, advisory.OverspentItems)
}

func TestStatistics_Advisory_PartiallyOverAllocated(t *testing.T) {
	// Within the total budget but Transport is past its allocation.
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Transport", Amount: d("2500")},
	}))

	advisory := budget.NewStatistics(plan, log).Advisory()

	assert.Equal(t, budget.TagPartiallyOverAllocated, advisory.Tag)
	assert.Equal(t, budget.SeverityWarning, advisory.Severity)
	assert.Equal(t, []string{"Transport"}, advisory.OverspentItems)
	assert.Contains(t, advisory.Message, "Transport")
}

func TestStatistics_Advisory_OverBudgetWithOverspentItems(t *testing.T) {
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("8000")},
		{ItemName: "Transport", Amount: d("3000")},
	}))

	advisory := budget.NewStatistics(plan, log).Advisory()

	assert.Equal(t, budget.TagOverBudget, advisory.Tag)
	assert.Equal(t, budget.SeverityAlarm, advisory.Severity)
	assert.Equal(t, []string{"Food", "Transport"}, advisory.OverspentItems)
}

func TestStatistics_Advisory_Extreme(t *testing.T) {
	// 70000 against 10000 is +600%, past the 500% bound.
	plan := newScenarioPlan(t)
	log := budget.NewSpendingLog()
	require.NoError(t, log.RecordDay(plan, day(2024, time.January, 5), []budget.SpendingEvent{
		{ItemName: "Food", Amount: d("70000")},
	}))

	advisory := budget.NewStatistics(plan, log).Advisory()

	assert.Equal(t, budget.TagExtreme, advisory.Tag)
	assert.Equal(t, budget.SeverityAlarm, advisory.Severity)
}

func TestStatistics_Advisory_NeedsOptimization(t *testing.T) {
	// Over the total budget with no plan item over its allocation. Only
	// reachable when the log still carries events for items a newer plan no
	// longer defines: TotalSpent counts every event, OverspentItems only
	// the plan's own.
	b := budget.NewPlanBuilder()
	b.Now = func() budget.Date { return day(2024, time.January, 1) }
	require.NoError(t, b.SetTotalBudget(d("1000")))
	require.NoError(t, b.SetPeriod(day(2024, time.January, 1), day(2024, time.January, 31)))
	require.NoError(t, b.AddItem("Food", d("900")))
	plan, err := b.Finalize()
	require.NoError(t, err)

	log := budget.NewSpendingLog()
	log.Put(budget.SpendingDay{
		Date:   day(2024, time.January, 5),
		Events: []budget.SpendingEvent{{ItemName: "Legacy", Amount: d("2000")}},
	})

	advisory := budget.NewStatistics(plan, log).Advisory()

	assert.Equal(t, budget.TagNeedsOptimization, advisory.Tag)
	assert.Equal(t, budget.SeverityNeutral, advisory.Severity)
}

/*
stats.go - End-of-period statistics and advisory classification

PURPOSE:
  Aggregates the full SpendingLog against the plan: totals, per-item
  spending, busiest day and weekday, worst overspend, adherence to the
  total budget, and a qualitative advisory.

ROUNDING POLICY:
  AdherencePercent rounds asymmetrically: ceiling to one decimal when
  over budget, floor to one decimal when under or exactly on budget.
  The figure shown for overspend is never milder than reality, carried
  over from the legacy tool. No other value in the engine is rounded
  this way - do not infer additional rounding elsewhere.

TIE-BREAKS:
  All maxima resolve deterministically toward the first candidate in a
  stable iteration order: earliest date for the busiest day, lowest
  index for the busiest weekday, plan insertion order for the worst
  overspent item.
*/
package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	oneHundred = decimal.NewFromInt(100)
	ten        = decimal.NewFromInt(10)

	// extremeDeviation is the |adherence| bound beyond which the advisory
	// stops trying to be constructive.
	extremeDeviation = decimal.NewFromInt(500)
)

// =============================================================================
// STATISTICS ENGINE
// =============================================================================

// Statistics aggregates a finalized plan and its full spending log. All
// methods are pure computations over the two inputs.
type Statistics struct {
	plan *BudgetPlan
	log  *SpendingLog
}

func NewStatistics(plan *BudgetPlan, log *SpendingLog) *Statistics {
	return &Statistics{plan: plan, log: log}
}

// TotalSpent returns the sum of all event amounts across all days.
func (s *Statistics) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, day := range s.log.AllDays() {
		total = total.Add(day.Total())
	}
	return total
}

// SpentPerItem returns spending grouped by item name, seeded with every plan
// item at zero so unspent items report 0, not absent. Event item names not
// in the plan are ignored.
func (s *Statistics) SpentPerItem() map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal, len(s.plan.Items))
	for _, item := range s.plan.Items {
		spent[item.Name] = decimal.Zero
	}
	for _, day := range s.log.AllDays() {
		for _, e := range day.Events {
			if current, ok := spent[e.ItemName]; ok {
				spent[e.ItemName] = current.Add(e.Amount)
			}
		}
	}
	return spent
}

// ItemUtilization returns spent/allocated as a percentage per item, rounded
// half away from zero to one decimal place.
func (s *Statistics) ItemUtilization() map[string]decimal.Decimal {
	spent := s.SpentPerItem()
	utilization := make(map[string]decimal.Decimal, len(s.plan.Items))
	for _, item := range s.plan.Items {
		if !item.Allocated.IsPositive() {
			utilization[item.Name] = decimal.Zero
			continue
		}
		utilization[item.Name] = spent[item.Name].Div(item.Allocated).Mul(oneHundred).Round(1)
	}
	return utilization
}

// DayTotals returns the total spent per recorded day.
func (s *Statistics) DayTotals() map[Date]decimal.Decimal {
	totals := make(map[Date]decimal.Decimal, s.log.Len())
	for _, day := range s.log.AllDays() {
		totals[day.Date] = day.Total()
	}
	return totals
}

// BusiestDay returns the date with the highest total. Ties break toward the
// earliest date. The bool is false when the log is empty.
func (s *Statistics) BusiestDay() (Date, decimal.Decimal, bool) {
	var (
		bestDate  Date
		bestTotal decimal.Decimal
		found     bool
	)
	// AllDays is date-ascending, so a strict comparison keeps the earliest
	// date on ties.
	for _, day := range s.log.AllDays() {
		total := day.Total()
		if !found || total.GreaterThan(bestTotal) {
			bestDate, bestTotal, found = day.Date, total, true
		}
	}
	return bestDate, bestTotal, found
}

// WeekdayAverages returns the mean day total per weekday (0=Monday through
// 6=Sunday). Weekdays with no recorded days are absent, not zero.
func (s *Statistics) WeekdayAverages() map[int]decimal.Decimal {
	sums := make(map[int]decimal.Decimal)
	counts := make(map[int]int64)
	for _, day := range s.log.AllDays() {
		wd := day.Date.WeekdayIndex()
		sums[wd] = sums[wd].Add(day.Total())
		counts[wd]++
	}

	averages := make(map[int]decimal.Decimal, len(sums))
	for wd, sum := range sums {
		averages[wd] = sum.Div(decimal.NewFromInt(counts[wd]))
	}
	return averages
}

// BusiestWeekday returns the weekday with the highest average. Defaults to
// Monday when the log is empty; ties break toward the lowest index.
func (s *Statistics) BusiestWeekday() int {
	averages := s.WeekdayAverages()
	best := 0
	var bestAvg decimal.Decimal
	found := false
	for wd := 0; wd < 7; wd++ {
		avg, ok := averages[wd]
		if !ok {
			continue
		}
		if !found || avg.GreaterThan(bestAvg) {
			best, bestAvg, found = wd, avg, true
		}
	}
	return best
}

// MaxOverspendItem returns the item with the largest positive excess of
// spending over allocation. Ties break toward plan insertion order. The
// bool is false when no item is over its allocation.
func (s *Statistics) MaxOverspendItem() (string, decimal.Decimal, bool) {
	spent := s.SpentPerItem()
	var (
		bestName   string
		bestExcess decimal.Decimal
		found      bool
	)
	for _, item := range s.plan.Items {
		excess := spent[item.Name].Sub(item.Allocated)
		if !excess.IsPositive() {
			continue
		}
		if !found || excess.GreaterThan(bestExcess) {
			bestName, bestExcess, found = item.Name, excess, true
		}
	}
	return bestName, bestExcess, found
}

// OverspentItems returns the names of all items spent past their allocation,
// in plan order.
func (s *Statistics) OverspentItems() []string {
	spent := s.SpentPerItem()
	var names []string
	for _, item := range s.plan.Items {
		if spent[item.Name].GreaterThan(item.Allocated) {
			names = append(names, item.Name)
		}
	}
	return names
}

// AdherencePercent returns ((totalSpent - totalBudget) / totalBudget) * 100
// with the asymmetric rounding described in the file header. TotalBudget is
// positive by plan invariant, so the division is safe.
func (s *Statistics) AdherencePercent() decimal.Decimal {
	deviation := s.TotalSpent().Sub(s.plan.TotalBudget)
	percent := deviation.Div(s.plan.TotalBudget).Mul(oneHundred)
	if deviation.IsPositive() {
		return percent.Mul(ten).Ceil().Div(ten)
	}
	return percent.Mul(ten).Floor().Div(ten)
}

// =============================================================================
// ADVISORY
// =============================================================================

type AdvisoryTag string

const (
	TagAscetic                AdvisoryTag = "ascetic"
	TagExtreme                AdvisoryTag = "extreme"
	TagFullyCompliant         AdvisoryTag = "fully_compliant"
	TagPartiallyOverAllocated AdvisoryTag = "partially_over_allocated"
	TagOverBudget             AdvisoryTag = "over_budget_with_over_allocated_items"
	TagSystemicOverspend      AdvisoryTag = "systemic_overspend"
	TagNeedsOptimization      AdvisoryTag = "needs_optimization"
)

type Severity string

const (
	SeverityPositive Severity = "positive"
	SeverityWarning  Severity = "warning"
	SeverityAlarm    Severity = "alarm"
	SeverityNeutral  Severity = "neutral"
)

// Advisory is the qualitative summary of plan performance. Severity is a
// presentation hint only.
type Advisory struct {
	Tag            AdvisoryTag
	Severity       Severity
	Message        string
	OverspentItems []string
}

// Advisory classifies the period. First matching rule wins.
func (s *Statistics) Advisory() Advisory {
	totalSpent := s.TotalSpent()
	overspent := s.OverspentItems()

	if totalSpent.IsZero() {
		return Advisory{
			Tag:      TagAscetic,
			Severity: SeverityPositive,
			Message:  "Not a single expense recorded. True asceticism.",
		}
	}

	if s.AdherencePercent().Abs().GreaterThan(extremeDeviation) {
		return Advisory{
			Tag:      TagExtreme,
			Severity: SeverityAlarm,
			Message:  "Spending deviates from the budget beyond any reasonable bound.",
		}
	}

	withinBudget := totalSpent.LessThanOrEqual(s.plan.TotalBudget)
	switch {
	case withinBudget && len(overspent) == 0:
		return Advisory{
			Tag:      TagFullyCompliant,
			Severity: SeverityPositive,
			Message:  "You stayed within the budget and every allocation. Keep it up!",
		}
	case withinBudget:
		return Advisory{
			Tag:            TagPartiallyOverAllocated,
			Severity:       SeverityWarning,
			Message:        fmt.Sprintf("Not bad, but rework the allocation for: %s.", strings.Join(overspent, ", ")),
			OverspentItems: overspent,
		}
	case len(overspent) > 0:
		return Advisory{
			Tag:            TagOverBudget,
			Severity:       SeverityAlarm,
			Message:        fmt.Sprintf("Over budget. Rework the allocation for: %s.", strings.Join(overspent, ", ")),
			OverspentItems: overspent,
		}
	case len(overspent) == len(s.plan.Items):
		return Advisory{
			Tag:            TagSystemicOverspend,
			Severity:       SeverityAlarm,
			Message:        "Every item is over its allocation. Watch where the money goes.",
			OverspentItems: overspent,
		}
	default:
		return Advisory{
			Tag:      TagNeedsOptimization,
			Severity: SeverityNeutral,
			Message:  "Analyze your spending and try to optimize the budget.",
		}
	}
}

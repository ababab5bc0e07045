/*
balance.go - Remaining balance per item and day narration

PURPOSE:
  Answers "how much is left per item as of date D?" and narrates how a
  single day's spending consumed those balances, event by event.

KEY INSIGHT:
  RemainingAsOf counts spending strictly BEFORE the given date - it is
  the balance at the start of that day. DayNarration then folds the
  day's own events in entry order, classifying each against the balance
  it saw.

CLASSIFICATION POLICY:
  Evaluated against balance-before B and event amount A, in order:
    B == 0                -> NoRemainingBalance
    B <  0                -> AlreadyExceeded
    A >  B + 0.01         -> ExceedsRemainingBalance (rounding tolerance)
    A >= 0.85 * B         -> MajorityOfRemainingBalance
    otherwise             -> WithinNorm
  The 0.01 tolerance and the 0.85 share are carried from the legacy tool.

SEE ALSO:
  - stats.go: Whole-period aggregates over the same data
*/
package budget

import "github.com/shopspring/decimal"

var (
	// exceedTolerance absorbs rounding noise when comparing an amount
	// against the remaining balance.
	exceedTolerance = decimal.NewFromFloat(0.01)

	// majorityShare is the fraction of the remaining balance above which a
	// single event counts as consuming the majority of it.
	majorityShare = decimal.NewFromFloat(0.85)
)

// =============================================================================
// SPEND CLASSIFICATION
// =============================================================================

type SpendClass string

const (
	ClassWithinNorm          SpendClass = "within_norm"
	ClassMajorityOfRemaining SpendClass = "majority_of_remaining_balance"
	ClassExceedsRemaining    SpendClass = "exceeds_remaining_balance"
	ClassNoRemaining         SpendClass = "no_remaining_balance"
	ClassAlreadyExceeded     SpendClass = "already_exceeded"
)

// Classify applies the classification policy to one event.
func Classify(balanceBefore, amount decimal.Decimal) SpendClass {
	switch {
	case balanceBefore.IsZero():
		return ClassNoRemaining
	case balanceBefore.IsNegative():
		return ClassAlreadyExceeded
	case amount.GreaterThan(balanceBefore.Add(exceedTolerance)):
		return ClassExceedsRemaining
	case amount.GreaterThanOrEqual(balanceBefore.Mul(majorityShare)):
		return ClassMajorityOfRemaining
	default:
		return ClassWithinNorm
	}
}

// =============================================================================
// REMAINING BALANCE
// =============================================================================

// RemainingAsOf computes the remaining balance per item at the start of the
// given date: allocation minus every event recorded strictly before it.
// Event item names not present in the plan are ignored.
func RemainingAsOf(plan *BudgetPlan, log *SpendingLog, date Date) map[string]decimal.Decimal {
	remaining := make(map[string]decimal.Decimal, len(plan.Items))
	for _, item := range plan.Items {
		remaining[item.Name] = item.Allocated
	}
	for _, day := range log.AllDays() {
		if !day.Date.Before(date) {
			continue
		}
		for _, e := range day.Events {
			if balance, ok := remaining[e.ItemName]; ok {
				remaining[e.ItemName] = balance.Sub(e.Amount)
			}
		}
	}
	return remaining
}

// =============================================================================
// DAY NARRATION
// =============================================================================

// NarrationEntry describes one event applied against the running balance.
type NarrationEntry struct {
	ItemName      string
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	Class         SpendClass
}

// DayNarration replays the given date's events in entry order against the
// start-of-day balances, producing one record per event. The running balance
// may go negative; it is never clamped.
func DayNarration(plan *BudgetPlan, log *SpendingLog, date Date) []NarrationEntry {
	day, ok := log.Day(date)
	if !ok {
		return nil
	}

	remaining := RemainingAsOf(plan, log, date)
	entries := make([]NarrationEntry, 0, len(day.Events))
	for _, e := range day.Events {
		before := remaining[e.ItemName]
		entries = append(entries, NarrationEntry{
			ItemName:      e.ItemName,
			Amount:        e.Amount,
			BalanceBefore: before,
			Class:         Classify(before, e.Amount),
		})
		if _, known := remaining[e.ItemName]; known {
			remaining[e.ItemName] = before.Sub(e.Amount)
		}
	}
	return entries
}

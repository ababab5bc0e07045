/*
builder.go - Incremental construction of a BudgetPlan

PURPOSE:
  A plan is built step by step the way the user fills the form: confirm
  the total budget, set the period, add items one at a time. Each item
  add is checked against the remaining unallocated balance, so the
  invariant sum(allocated) <= totalBudget holds at every step, not just
  at the end.

CLAMPING POLICY:
  A period start before the current date is silently moved forward to
  today. This behavior is carried over from the legacy tool on purpose:
  a budget cannot start in the past, and the original corrected the
  input rather than rejecting it.

SEE ALSO:
  - types.go: The immutable BudgetPlan produced by Finalize
  - errors.go: Builder error taxonomy
*/
package budget

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PLAN BUILDER
// =============================================================================

// PlanBuilder accumulates a budget plan. Zero value is not usable; create
// with NewPlanBuilder.
type PlanBuilder struct {
	// Now supplies the current date for the period clamp. Overridable in
	// tests; defaults to Today.
	Now func() Date

	total       decimal.Decimal
	totalSet    bool
	unallocated decimal.Decimal
	items       []PlanItem
	period      Period
	periodSet   bool
}

func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{Now: Today}
}

// SetTotalBudget sets the total budget. One-shot: a second call fails with
// ErrBudgetAlreadySet. Fails with ErrInvalidAmount if amount <= 0.
func (b *PlanBuilder) SetTotalBudget(amount decimal.Decimal) error {
	if b.totalSet {
		return ErrBudgetAlreadySet
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	b.total = amount
	b.unallocated = amount
	b.totalSet = true
	return nil
}

// AddItem allocates part of the budget to a named item. Requires the total
// budget to be set first. On success the unallocated balance decreases.
func (b *PlanBuilder) AddItem(name string, amount decimal.Decimal) error {
	if !b.totalSet {
		return ErrIncompletePlan
	}
	if name == "" {
		return ErrInvalidItemName
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(b.unallocated) {
		return ErrInsufficientRemainingBudget
	}
	for _, item := range b.items {
		if item.Name == name {
			return ErrDuplicateItemName
		}
	}
	b.items = append(b.items, PlanItem{Name: name, Allocated: amount})
	b.unallocated = b.unallocated.Sub(amount)
	return nil
}

// SetPeriod sets the plan's date range. A start before the current date is
// clamped forward to today (legacy policy, see file header). Fails with
// ErrInvalidPeriod if end < start.
func (b *PlanBuilder) SetPeriod(start, end Date) error {
	if end.Before(start) {
		return ErrInvalidPeriod
	}
	today := b.Now()
	if start.Before(today) {
		start = today
		// The clamp can push start past end for fully-past periods.
		if end.Before(start) {
			return ErrInvalidPeriod
		}
	}
	b.period = Period{Start: start, End: end}
	b.periodSet = true
	return nil
}

// Unallocated returns the budget not yet assigned to any item.
func (b *PlanBuilder) Unallocated() decimal.Decimal {
	return b.unallocated
}

// Finalize returns the immutable plan snapshot. Fails with ErrIncompletePlan
// unless the budget and period are set and at least one item exists. The
// caller owns installing the snapshot into a session, which resets any
// prior spending history.
func (b *PlanBuilder) Finalize() (*BudgetPlan, error) {
	if !b.totalSet || !b.periodSet || len(b.items) == 0 {
		return nil, ErrIncompletePlan
	}
	items := make([]PlanItem, len(b.items))
	copy(items, b.items)
	return &BudgetPlan{
		TotalBudget: b.total,
		Period:      b.period,
		Items:       items,
	}, nil
}

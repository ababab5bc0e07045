/*
Package budget provides the core budget ledger and analytics engine.

PURPOSE:
  This package contains the domain types and algorithms for planning a
  budget and tracking spending against it: allocate a total budget into
  named items over a date range, record daily spending events, and derive
  running balances and end-of-period statistics.

KEY CONCEPTS IN THIS FILE (types.go):
  - BudgetPlan: An immutable allocation of a total budget into items
  - PlanItem: A named category with an allocated amount
  - SpendingEvent: One expenditure against an item on a given date
  - SpendingDay: All events recorded for one date, in entry order

DESIGN PRINCIPLES:
  1. Immutability: A finalized plan is never mutated, only superseded
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Validation at construction: Entities cannot exist in invalid states
  4. One owner: Plan and log belong to a single session, no shared state

USAGE:
  b := budget.NewPlanBuilder()
  b.SetTotalBudget(decimal.NewFromInt(10000))
  b.AddItem("Food", decimal.NewFromInt(4000))
  b.SetPeriod(start, end)
  plan, err := b.Finalize()

SEE ALSO:
  - builder.go: Plan construction and validation
  - log.go: SpendingLog mutation and queries
  - balance.go: Remaining-balance calculation and day narration
  - stats.go: Period statistics and advisory classification
*/
package budget

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PLAN ITEM - Named budget category with an allocated amount
// =============================================================================

type PlanItem struct {
	Name      string
	Allocated decimal.Decimal
}

// =============================================================================
// BUDGET PLAN - Immutable allocation snapshot
// =============================================================================

// BudgetPlan is the result of finalizing a PlanBuilder. It is a snapshot:
// once built it never changes. A new budgeting session supersedes the plan
// instead of mutating it, and clears the spending history of the old one.
type BudgetPlan struct {
	// ID is assigned by the store on save. Empty for unsaved plans.
	ID string

	TotalBudget decimal.Decimal
	Period      Period

	// Items in insertion order. Order is significant: statistics tie-breaks
	// resolve toward the first item added.
	Items []PlanItem
}

// Unallocated returns the part of the total budget not assigned to any item.
func (p *BudgetPlan) Unallocated() decimal.Decimal {
	remaining := p.TotalBudget
	for _, item := range p.Items {
		remaining = remaining.Sub(item.Allocated)
	}
	return remaining
}

// Allocation returns the allocated amount for an item name.
func (p *BudgetPlan) Allocation(name string) (decimal.Decimal, bool) {
	for _, item := range p.Items {
		if item.Name == name {
			return item.Allocated, true
		}
	}
	return decimal.Zero, false
}

// HasItem reports whether the plan defines an item with the given name.
func (p *BudgetPlan) HasItem(name string) bool {
	_, ok := p.Allocation(name)
	return ok
}

// ItemNames returns the item names in plan order.
func (p *BudgetPlan) ItemNames() []string {
	names := make([]string, len(p.Items))
	for i, item := range p.Items {
		names[i] = item.Name
	}
	return names
}

// =============================================================================
// SPENDING EVENT / SPENDING DAY
// =============================================================================

// SpendingEvent is one recorded expenditure against a plan item.
type SpendingEvent struct {
	ItemName string
	Amount   decimal.Decimal
}

// SpendingDay holds all events recorded for one date. Event order is entry
// order and is significant for running-balance narration.
type SpendingDay struct {
	Date   Date
	Events []SpendingEvent
}

// Total returns the sum of all event amounts for the day.
func (d SpendingDay) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range d.Events {
		total = total.Add(e.Amount)
	}
	return total
}

// NewSpendingDay validates events against the active plan and builds a day.
// Fails with ErrEmptyDay when events is empty, ErrInvalidAmount when any
// amount is not positive, and UnknownItemError when an item name is not in
// the plan.
func NewSpendingDay(plan *BudgetPlan, date Date, events []SpendingEvent) (SpendingDay, error) {
	if plan == nil {
		return SpendingDay{}, ErrNoActivePlan
	}
	if len(events) == 0 {
		return SpendingDay{}, ErrEmptyDay
	}
	for _, e := range events {
		if !e.Amount.IsPositive() {
			return SpendingDay{}, ErrInvalidAmount
		}
		if !plan.HasItem(e.ItemName) {
			return SpendingDay{}, &UnknownItemError{ItemName: e.ItemName}
		}
	}
	day := SpendingDay{Date: date, Events: make([]SpendingEvent, len(events))}
	copy(day.Events, events)
	return day, nil
}

/*
store.go - Persistence interface for plans and spending days

PURPOSE:
  Defines the gateway between the core and storage. The core never
  performs I/O itself: a Session makes atomic store calls and only
  mutates its in-memory state when they succeed.

IMPLEMENTATIONS:
  - budget/store:  in-memory, for tests and development
  - store/sqlite:  primary SQLite store
  - store/csvmirror: flat-file tabular mirror for portability
  - store/mirrored: primary + mirror composite with self-healing fallback

WIRE FORMATS:
  Dates are YYYY-MM-DD strings; amounts are decimal strings. Exact
  decimal text avoids float drift across the round trip.
*/
package budget

import "context"

// =============================================================================
// STORE - The persistence gateway contract
// =============================================================================

// Store persists the active plan and its spending history. Implementations
// report failures as *PersistenceError so callers can match
// ErrPersistenceFailure.
type Store interface {
	// SaveBudgetPlan persists a plan and returns its assigned ID.
	SaveBudgetPlan(ctx context.Context, plan *BudgetPlan) (string, error)

	// LoadLatestBudgetPlan returns the most recently saved plan, or
	// (nil, nil) when none exists.
	LoadLatestBudgetPlan(ctx context.Context) (*BudgetPlan, error)

	// SaveSpendingDay persists a day with replace semantics per date.
	SaveSpendingDay(ctx context.Context, day SpendingDay) error

	// LoadAllSpendingDays returns every stored day, date ascending.
	LoadAllSpendingDays(ctx context.Context) ([]SpendingDay, error)

	// LoadSpendingDaysInRange returns days with start <= date <= end,
	// date ascending.
	LoadSpendingDaysInRange(ctx context.Context, start, end Date) ([]SpendingDay, error)

	// ClearAll wipes all stored plans and spending history. Used when a
	// new plan supersedes the old one.
	ClearAll(ctx context.Context) error
}

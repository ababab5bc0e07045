/*
errors.go - Centralized error types for the budget engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Every failure is a local validation error raised synchronously at the
  call that violates the contract - never deferred, never coerced. The
  one documented exception is the period start clamp in builder.go.

ERROR CATEGORIES:
  1. Plan construction errors - builder contract violations
  2. Log mutation errors - spending events that reference invalid data
  3. Persistence errors - storage failures carrying the underlying cause

USAGE:
  if errors.Is(err, budget.ErrDuplicateItemName) { ... }

  var unknown *budget.UnknownItemError
  if errors.As(err, &unknown) {
      log.Printf("no such item: %s", unknown.ItemName)
  }
*/
package budget

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned when a budget, allocation, or spending
	// amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidItemName is returned when an item name is empty.
	ErrInvalidItemName = errors.New("item name must not be empty")

	// ErrDuplicateItemName is returned when an item name is already present
	// in the plan under construction.
	ErrDuplicateItemName = errors.New("duplicate item name")

	// ErrInsufficientRemainingBudget is returned when an item allocation
	// exceeds the remaining unallocated balance.
	ErrInsufficientRemainingBudget = errors.New("allocation exceeds remaining unallocated budget")

	// ErrBudgetAlreadySet is returned on a second SetTotalBudget call. The
	// total budget is one-shot per plan.
	ErrBudgetAlreadySet = errors.New("total budget already set")

	// ErrIncompletePlan is returned by Finalize when the budget, period, or
	// items are missing.
	ErrIncompletePlan = errors.New("incomplete plan: budget, period, and at least one item required")

	// ErrUnknownItem is returned when a spending event references an item
	// not present in the active plan.
	ErrUnknownItem = errors.New("item not present in the active plan")

	// ErrEmptyDay is returned when a day is recorded with no events.
	ErrEmptyDay = errors.New("a day must contain at least one spending event")

	// ErrNoActivePlan is returned when an operation requires a finalized
	// plan and none has been installed.
	ErrNoActivePlan = errors.New("no active budget plan")

	// ErrPersistenceFailure marks storage failures. The in-memory state is
	// left unchanged when a persistence call fails.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownItemError reports which item name was not found in the plan.
type UnknownItemError struct {
	ItemName string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item %q: %v", e.ItemName, ErrUnknownItem)
}

func (e *UnknownItemError) Unwrap() error { return ErrUnknownItem }

// PersistenceError wraps a storage failure with the operation that caused it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistenceFailure, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidItemName) ||
		errors.Is(err, ErrDuplicateItemName) ||
		errors.Is(err, ErrInsufficientRemainingBudget) ||
		errors.Is(err, ErrBudgetAlreadySet) ||
		errors.Is(err, ErrIncompletePlan) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrEmptyDay)
}

// IsConflict returns true if the error should surface as a conflict rather
// than a plain validation failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateItemName)
}

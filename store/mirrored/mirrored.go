/*
Package mirrored composes a primary budget.Store with a flat-file mirror.

PURPOSE:
  Every write goes to the primary first and is then shadowed into the
  mirror. Reads try the primary first; when the primary fails or holds
  nothing, the mirror is consulted, and on fallback success the
  mirrored data is written back into the primary (self-healing
  migration). This reproduces the legacy tool's DB-first, CSV-fallback
  startup behavior.

FAILURE POLICY:
  Primary failures on writes are fatal to the caller. Mirror failures
  are logged and swallowed: the mirror is a convenience copy, never the
  reason an operation fails.
*/
package mirrored

import (
	"context"
	"log"

	"github.com/warp/budget-engine/budget"
)

// Store implements budget.Store over a primary and a mirror.
type Store struct {
	primary budget.Store
	mirror  budget.Store

	// Logf reports non-fatal mirror and write-back problems.
	// Defaults to log.Printf.
	Logf func(format string, args ...any)
}

func New(primary, mirror budget.Store) *Store {
	return &Store{primary: primary, mirror: mirror, Logf: log.Printf}
}

// =============================================================================
// WRITES - primary first, mirror shadowed
// =============================================================================

func (s *Store) SaveBudgetPlan(ctx context.Context, plan *budget.BudgetPlan) (string, error) {
	id, err := s.primary.SaveBudgetPlan(ctx, plan)
	if err != nil {
		return "", err
	}

	shadow := *plan
	shadow.ID = id
	if _, err := s.mirror.SaveBudgetPlan(ctx, &shadow); err != nil {
		s.Logf("mirror: failed to shadow budget plan: %v", err)
	}
	return id, nil
}

func (s *Store) SaveSpendingDay(ctx context.Context, day budget.SpendingDay) error {
	if err := s.primary.SaveSpendingDay(ctx, day); err != nil {
		return err
	}
	if err := s.mirror.SaveSpendingDay(ctx, day); err != nil {
		s.Logf("mirror: failed to shadow spending day %s: %v", day.Date, err)
	}
	return nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.primary.ClearAll(ctx); err != nil {
		return err
	}
	if err := s.mirror.ClearAll(ctx); err != nil {
		s.Logf("mirror: failed to clear: %v", err)
	}
	return nil
}

// =============================================================================
// READS - primary, then mirror fallback with write-back
// =============================================================================

func (s *Store) LoadLatestBudgetPlan(ctx context.Context) (*budget.BudgetPlan, error) {
	plan, err := s.primary.LoadLatestBudgetPlan(ctx)
	if err == nil && plan != nil {
		return plan, nil
	}
	if err != nil {
		s.Logf("primary: failed to load budget plan, trying mirror: %v", err)
	}

	plan, mirrorErr := s.mirror.LoadLatestBudgetPlan(ctx)
	if mirrorErr != nil {
		if err != nil {
			// Both sides failed; the primary error is the real one.
			return nil, err
		}
		return nil, mirrorErr
	}
	if plan == nil {
		return nil, err
	}

	// Self-healing: migrate the mirrored plan back into the primary.
	if id, backErr := s.primary.SaveBudgetPlan(ctx, plan); backErr != nil {
		s.Logf("primary: failed to write back mirrored plan: %v", backErr)
	} else {
		plan.ID = id
	}
	return plan, nil
}

func (s *Store) LoadAllSpendingDays(ctx context.Context) ([]budget.SpendingDay, error) {
	days, err := s.primary.LoadAllSpendingDays(ctx)
	if err == nil && len(days) > 0 {
		return days, nil
	}
	if err != nil {
		s.Logf("primary: failed to load spending days, trying mirror: %v", err)
	}

	days, mirrorErr := s.mirror.LoadAllSpendingDays(ctx)
	if mirrorErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, mirrorErr
	}
	if len(days) == 0 {
		return nil, err
	}

	for _, day := range days {
		if backErr := s.primary.SaveSpendingDay(ctx, day); backErr != nil {
			s.Logf("primary: failed to write back mirrored day %s: %v", day.Date, backErr)
			break
		}
	}
	return days, nil
}

func (s *Store) LoadSpendingDaysInRange(ctx context.Context, start, end budget.Date) ([]budget.SpendingDay, error) {
	days, err := s.primary.LoadSpendingDaysInRange(ctx, start, end)
	if err == nil {
		return days, nil
	}
	s.Logf("primary: failed to load spending range, trying mirror: %v", err)
	return s.mirror.LoadSpendingDaysInRange(ctx, start, end)
}

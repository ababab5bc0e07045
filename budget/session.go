/*
session.go - The single owner of the active plan and its log

PURPOSE:
  Session replaces the legacy tool's global UI state with an explicit
  context object. It owns the active BudgetPlan, its SpendingLog, and
  the Store, and enforces the write discipline: persist first, mutate
  in-memory state only on success. A persistence failure leaves the
  session exactly as it was.

LIFECYCLE:
  Load        hydrate plan + history from the store at startup
  InstallPlan supersede the active plan; wipes prior history everywhere
  RecordDay   validate, persist, then update the log
  Reset       wipe everything

CONCURRENCY:
  A session is owned by one caller at a time. Operations are plain
  synchronous computations around atomic store calls; there is no
  locking discipline beyond that ownership.
*/
package budget

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SESSION
// =============================================================================

type Session struct {
	store Store
	plan  *BudgetPlan
	log   *SpendingLog
}

func NewSession(store Store) *Session {
	return &Session{store: store, log: NewSpendingLog()}
}

// Load hydrates the session from the store. Safe to call on an empty store:
// the session simply has no active plan afterwards.
func (s *Session) Load(ctx context.Context) error {
	plan, err := s.store.LoadLatestBudgetPlan(ctx)
	if err != nil {
		return err
	}
	days, err := s.store.LoadAllSpendingDays(ctx)
	if err != nil {
		return err
	}

	log := NewSpendingLog()
	for _, day := range days {
		log.Put(day)
	}
	s.plan = plan
	s.log = log
	return nil
}

// Plan returns the active plan, or nil when none is installed.
func (s *Session) Plan() *BudgetPlan { return s.plan }

// Log returns the spending log for the active plan.
func (s *Session) Log() *SpendingLog { return s.log }

// InstallPlan makes a finalized plan the active one. All stored plans and
// spending history are cleared first; the prior in-memory log is reset. On
// persistence failure the session keeps its previous plan and log.
func (s *Session) InstallPlan(ctx context.Context, plan *BudgetPlan) (string, error) {
	if plan == nil {
		return "", ErrIncompletePlan
	}
	if err := s.store.ClearAll(ctx); err != nil {
		return "", err
	}
	id, err := s.store.SaveBudgetPlan(ctx, plan)
	if err != nil {
		return "", err
	}

	installed := *plan
	installed.ID = id
	s.plan = &installed
	s.log = NewSpendingLog()
	return id, nil
}

// RecordDay validates the events against the active plan, persists the day,
// and replaces it in the log. Re-submitting a date replaces its events
// wholesale.
func (s *Session) RecordDay(ctx context.Context, date Date, events []SpendingEvent) error {
	day, err := NewSpendingDay(s.plan, date, events)
	if err != nil {
		return err
	}
	if err := s.store.SaveSpendingDay(ctx, day); err != nil {
		return err
	}
	s.log.Put(day)
	return nil
}

// Reset wipes the store and drops the active plan and log.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	s.plan = nil
	s.log = NewSpendingLog()
	return nil
}

// RemainingAsOf returns per-item balances at the start of the given date.
func (s *Session) RemainingAsOf(date Date) (map[string]decimal.Decimal, error) {
	if s.plan == nil {
		return nil, ErrNoActivePlan
	}
	return RemainingAsOf(s.plan, s.log, date), nil
}

// DayNarration returns the running-balance narration for the given date.
func (s *Session) DayNarration(date Date) ([]NarrationEntry, error) {
	if s.plan == nil {
		return nil, ErrNoActivePlan
	}
	return DayNarration(s.plan, s.log, date), nil
}

// Statistics returns the statistics engine over the active plan and log.
func (s *Session) Statistics() (*Statistics, error) {
	if s.plan == nil {
		return nil, ErrNoActivePlan
	}
	return NewStatistics(s.plan, s.log), nil
}

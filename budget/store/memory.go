// Package store provides an in-memory budget.Store for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	plan *budget.BudgetPlan
	days map[string]budget.SpendingDay
}

func NewMemory() *Memory {
	return &Memory{days: make(map[string]budget.SpendingDay)}
}

func (m *Memory) SaveBudgetPlan(_ context.Context, plan *budget.BudgetPlan) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *plan
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	saved.Items = append([]budget.PlanItem(nil), plan.Items...)
	m.plan = &saved
	return saved.ID, nil
}

func (m *Memory) LoadLatestBudgetPlan(_ context.Context) (*budget.BudgetPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.plan == nil {
		return nil, nil
	}
	loaded := *m.plan
	loaded.Items = append([]budget.PlanItem(nil), m.plan.Items...)
	return &loaded, nil
}

func (m *Memory) SaveSpendingDay(_ context.Context, day budget.SpendingDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := day
	stored.Events = append([]budget.SpendingEvent(nil), day.Events...)
	m.days[day.Date.String()] = stored
	return nil
}

func (m *Memory) LoadAllSpendingDays(_ context.Context) ([]budget.SpendingDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedDaysLocked(), nil
}

func (m *Memory) LoadSpendingDaysInRange(_ context.Context, start, end budget.Date) ([]budget.SpendingDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var days []budget.SpendingDay
	for _, day := range m.sortedDaysLocked() {
		if day.Date.AfterOrEqual(start) && day.Date.BeforeOrEqual(end) {
			days = append(days, day)
		}
	}
	return days, nil
}

func (m *Memory) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plan = nil
	m.days = make(map[string]budget.SpendingDay)
	return nil
}

func (m *Memory) sortedDaysLocked() []budget.SpendingDay {
	keys := make([]string, 0, len(m.days))
	for k := range m.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	days := make([]budget.SpendingDay, 0, len(keys))
	for _, k := range keys {
		day := m.days[k]
		day.Events = append([]budget.SpendingEvent(nil), day.Events...)
		days = append(days, day)
	}
	return days
}

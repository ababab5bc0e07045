/*
Package csvmirror provides the flat-file tabular budget.Store.

PURPOSE:
  A portable mirror of the primary store: two CSV files the user can
  open in a spreadsheet, carried over from the legacy tool.

FILES:
  budget_map.csv       total budget, period, unallocated balance,
                       followed by the item table
  daily_spendings.csv  one row per spending event: date, item, amount

WHOLE-FILE REWRITE:
  Each save rewrites the affected file completely. This gives replace
  semantics per date for free and keeps the files trivially readable.
  The data volume (one person's budget period) makes this a non-issue.

SEE ALSO:
  - store/mirrored: Wires this mirror behind the SQLite primary
*/
package csvmirror

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

const (
	planFile = "budget_map.csv"
	daysFile = "daily_spendings.csv"
)

// Store implements budget.Store on top of two CSV files in a directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) planPath() string { return filepath.Join(s.dir, planFile) }
func (s *Store) daysPath() string { return filepath.Join(s.dir, daysFile) }

// =============================================================================
// PLAN PERSISTENCE
// =============================================================================

func (s *Store) SaveBudgetPlan(_ context.Context, plan *budget.BudgetPlan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := [][]string{
		{"total_budget", "start_date", "end_date", "unallocated"},
		{
			plan.TotalBudget.String(),
			plan.Period.Start.String(),
			plan.Period.End.String(),
			plan.Unallocated().String(),
		},
		{},
		{"budget_items"},
		{"item_name", "item_amount"},
	}
	for _, item := range plan.Items {
		records = append(records, []string{item.Name, item.Allocated.String()})
	}

	if err := s.writeFile(s.planPath(), records); err != nil {
		return "", &budget.PersistenceError{Op: "save budget plan to csv", Err: err}
	}
	// The mirror carries no plan IDs; the primary store assigns them.
	return plan.ID, nil
}

func (s *Store) LoadLatestBudgetPlan(_ context.Context) (*budget.BudgetPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readFile(s.planPath())
	if err != nil {
		return nil, &budget.PersistenceError{Op: "load budget plan from csv", Err: err}
	}
	if records == nil {
		return nil, nil
	}
	if len(records) < 2 || len(records[1]) < 3 {
		return nil, &budget.PersistenceError{Op: "load budget plan from csv", Err: fmt.Errorf("malformed %s", planFile)}
	}

	plan := &budget.BudgetPlan{}
	main := records[1]
	if plan.TotalBudget, err = decimal.NewFromString(main[0]); err != nil {
		return nil, &budget.PersistenceError{Op: "load budget plan from csv", Err: err}
	}
	if plan.Period.Start, err = budget.ParseDate(main[1]); err != nil {
		return nil, &budget.PersistenceError{Op: "load budget plan from csv", Err: err}
	}
	if plan.Period.End, err = budget.ParseDate(main[2]); err != nil {
		return nil, &budget.PersistenceError{Op: "load budget plan from csv", Err: err}
	}

	// Item rows follow the budget_items section marker and its header.
	inItems := false
	for _, rec := range records[2:] {
		if len(rec) == 0 {
			continue
		}
		if rec[0] == "budget_items" {
			inItems = true
			continue
		}
		if !inItems || rec[0] == "item_name" {
			continue
		}
		if len(rec) < 2 {
			continue
		}
		amount, err := decimal.NewFromString(rec[1])
		if err != nil {
			return nil, &budget.PersistenceError{Op: "load budget plan from csv", Err: err}
		}
		plan.Items = append(plan.Items, budget.PlanItem{Name: rec[0], Allocated: amount})
	}
	return plan, nil
}

// =============================================================================
// SPENDING DAY PERSISTENCE
// =============================================================================

func (s *Store) SaveSpendingDay(ctx context.Context, day budget.SpendingDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	days, err := s.loadDaysLocked()
	if err != nil {
		return &budget.PersistenceError{Op: "save spending day to csv", Err: err}
	}
	days[day.Date.String()] = day

	if err := s.writeDaysLocked(days); err != nil {
		return &budget.PersistenceError{Op: "save spending day to csv", Err: err}
	}
	return nil
}

func (s *Store) LoadAllSpendingDays(_ context.Context) ([]budget.SpendingDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	days, err := s.loadDaysLocked()
	if err != nil {
		return nil, &budget.PersistenceError{Op: "load spending days from csv", Err: err}
	}
	return sortedDays(days), nil
}

func (s *Store) LoadSpendingDaysInRange(ctx context.Context, start, end budget.Date) ([]budget.SpendingDay, error) {
	all, err := s.LoadAllSpendingDays(ctx)
	if err != nil {
		return nil, err
	}
	var days []budget.SpendingDay
	for _, day := range all {
		if day.Date.AfterOrEqual(start) && day.Date.BeforeOrEqual(end) {
			days = append(days, day)
		}
	}
	return days, nil
}

func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.planPath(), s.daysPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &budget.PersistenceError{Op: "clear csv mirror", Err: err}
		}
	}
	return nil
}

// =============================================================================
// FILE HELPERS
// =============================================================================

func (s *Store) loadDaysLocked() (map[string]budget.SpendingDay, error) {
	days := make(map[string]budget.SpendingDay)
	records, err := s.readFile(s.daysPath())
	if err != nil {
		return nil, err
	}
	if records == nil {
		return days, nil
	}

	for i, rec := range records {
		if i == 0 || len(rec) < 3 {
			// Header row, or a malformed stray.
			continue
		}
		date, err := budget.ParseDate(rec[0])
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(rec[2])
		if err != nil {
			return nil, err
		}

		key := rec[0]
		day := days[key]
		day.Date = date
		day.Events = append(day.Events, budget.SpendingEvent{ItemName: rec[1], Amount: amount})
		days[key] = day
	}
	return days, nil
}

func (s *Store) writeDaysLocked(days map[string]budget.SpendingDay) error {
	records := [][]string{{"date", "item_name", "amount"}}
	for _, day := range sortedDays(days) {
		for _, e := range day.Events {
			records = append(records, []string{day.Date.String(), e.ItemName, e.Amount.String()})
		}
	}
	return s.writeFile(s.daysPath(), records)
}

func sortedDays(days map[string]budget.SpendingDay) []budget.SpendingDay {
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]budget.SpendingDay, 0, len(keys))
	for _, k := range keys {
		result = append(result, days[k])
	}
	return result
}

// readFile returns nil records (no error) when the file does not exist.
func (s *Store) readFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (s *Store) writeFile(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

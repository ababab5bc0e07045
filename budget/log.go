/*
log.go - The date-keyed spending history for the active plan

PURPOSE:
  SpendingLog holds one SpendingDay per date. Re-recording a date
  replaces its event list wholesale - no merging, which makes RecordDay
  idempotent per (date, events) pair.

OWNERSHIP:
  The log belongs to exactly one plan. Finalizing a new plan clears it.
*/
package budget

import "sort"

// =============================================================================
// SPENDING LOG
// =============================================================================

// SpendingLog maps dates to spending days. At most one day per date.
type SpendingLog struct {
	days map[string]SpendingDay
}

func NewSpendingLog() *SpendingLog {
	return &SpendingLog{days: make(map[string]SpendingDay)}
}

// RecordDay validates events against the plan and replaces the day for the
// given date wholesale. See NewSpendingDay for the error contract.
func (l *SpendingLog) RecordDay(plan *BudgetPlan, date Date, events []SpendingEvent) error {
	day, err := NewSpendingDay(plan, date, events)
	if err != nil {
		return err
	}
	l.Put(day)
	return nil
}

// Put installs an already-validated day, replacing any existing day for the
// same date. Used when hydrating the log from storage.
func (l *SpendingLog) Put(day SpendingDay) {
	l.days[day.Date.String()] = day
}

// Day returns the day recorded for a date, if any.
func (l *SpendingLog) Day(date Date) (SpendingDay, bool) {
	day, ok := l.days[date.String()]
	return day, ok
}

// AllDays returns every recorded day ordered by date ascending.
func (l *SpendingLog) AllDays() []SpendingDay {
	keys := make([]string, 0, len(l.days))
	for k := range l.days {
		keys = append(keys, k)
	}
	// ISO date strings sort chronologically.
	sort.Strings(keys)

	days := make([]SpendingDay, 0, len(keys))
	for _, k := range keys {
		days = append(days, l.days[k])
	}
	return days
}

// DaysInRange returns the days with start <= date <= end, ascending.
func (l *SpendingLog) DaysInRange(start, end Date) []SpendingDay {
	var days []SpendingDay
	for _, day := range l.AllDays() {
		if day.Date.AfterOrEqual(start) && day.Date.BeforeOrEqual(end) {
			days = append(days, day)
		}
	}
	return days
}

// Len returns the number of recorded days.
func (l *SpendingLog) Len() int { return len(l.days) }

// Clear drops all recorded days. Called when a new plan supersedes the old.
func (l *SpendingLog) Clear() {
	l.days = make(map[string]SpendingDay)
}

/*
Package sqlite provides the SQLite-backed budget.Store.

PURPOSE:
  Primary persistence for budget plans and daily spendings. The schema
  mirrors the three-table layout of the legacy tool: plans, plan items,
  and daily spending rows keyed by date.

KEY TABLES:
  budget_plans:    one row per finalized plan, newest wins
  budget_items:    plan allocations, ordered by position
  daily_spendings: spending events, ordered by (date, position)

REPLACE SEMANTICS:
  Saving a day deletes that date's rows and re-inserts the new event
  list inside one transaction. Re-submitting a day is idempotent.

AMOUNT STORAGE:
  Amounts are stored as decimal TEXT, not REAL. Exact decimal text
  round-trips without float drift.

WAL MODE:
  The database is opened with WAL for better crash recovery; foreign
  keys are enforced.

USAGE:
  st, err := sqlite.New("./budget.db")   // or ":memory:"
  defer st.Close()
  session := budget.NewSession(st)

SEE ALSO:
  - budget/store.go: Interface definition
  - store/csvmirror: Flat-file mirror of the same data
  - store/mirrored: Composite wiring this store with the mirror
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

// Store implements budget.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS budget_plans (
		id TEXT PRIMARY KEY,
		total_budget TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS budget_items (
		plan_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		item_name TEXT NOT NULL,
		item_amount TEXT NOT NULL,
		PRIMARY KEY (plan_id, position),
		FOREIGN KEY (plan_id) REFERENCES budget_plans(id)
	);

	CREATE TABLE IF NOT EXISTS daily_spendings (
		date TEXT NOT NULL,
		position INTEGER NOT NULL,
		item_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		PRIMARY KEY (date, position)
	);

	CREATE INDEX IF NOT EXISTS idx_daily_spendings_date
		ON daily_spendings(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PLAN PERSISTENCE
// =============================================================================

func (s *Store) SaveBudgetPlan(ctx context.Context, plan *budget.BudgetPlan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := plan.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", &budget.PersistenceError{Op: "save budget plan", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO budget_plans (id, total_budget, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id,
		plan.TotalBudget.String(),
		plan.Period.Start.String(),
		plan.Period.End.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", &budget.PersistenceError{Op: "save budget plan", Err: err}
	}

	for i, item := range plan.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO budget_items (plan_id, position, item_name, item_amount)
			VALUES (?, ?, ?, ?)`,
			id, i, item.Name, item.Allocated.String(),
		)
		if err != nil {
			return "", &budget.PersistenceError{Op: "save budget plan", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", &budget.PersistenceError{Op: "save budget plan", Err: err}
	}
	return id, nil
}

func (s *Store) LoadLatestBudgetPlan(ctx context.Context) (*budget.BudgetPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, total_budget, start_date, end_date
		FROM budget_plans
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`)

	var id, totalStr, startStr, endStr string
	if err := row.Scan(&id, &totalStr, &startStr, &endStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, &budget.PersistenceError{Op: "load latest budget plan", Err: err}
	}

	plan := &budget.BudgetPlan{ID: id}
	var err error
	if plan.TotalBudget, err = decimal.NewFromString(totalStr); err != nil {
		return nil, &budget.PersistenceError{Op: "load latest budget plan", Err: err}
	}
	if plan.Period.Start, err = budget.ParseDate(startStr); err != nil {
		return nil, &budget.PersistenceError{Op: "load latest budget plan", Err: err}
	}
	if plan.Period.End, err = budget.ParseDate(endStr); err != nil {
		return nil, &budget.PersistenceError{Op: "load latest budget plan", Err: err}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_name, item_amount
		FROM budget_items
		WHERE plan_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, &budget.PersistenceError{Op: "load budget items", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var name, amountStr string
		if err := rows.Scan(&name, &amountStr); err != nil {
			return nil, &budget.PersistenceError{Op: "load budget items", Err: err}
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, &budget.PersistenceError{Op: "load budget items", Err: err}
		}
		plan.Items = append(plan.Items, budget.PlanItem{Name: name, Allocated: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, &budget.PersistenceError{Op: "load budget items", Err: err}
	}
	return plan, nil
}

// =============================================================================
// SPENDING DAY PERSISTENCE
// =============================================================================

func (s *Store) SaveSpendingDay(ctx context.Context, day budget.SpendingDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &budget.PersistenceError{Op: "save spending day", Err: err}
	}
	defer tx.Rollback()

	dateStr := day.Date.String()
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_spendings WHERE date = ?`, dateStr); err != nil {
		return &budget.PersistenceError{Op: "save spending day", Err: err}
	}

	for i, e := range day.Events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_spendings (date, position, item_name, amount)
			VALUES (?, ?, ?, ?)`,
			dateStr, i, e.ItemName, e.Amount.String(),
		)
		if err != nil {
			return &budget.PersistenceError{Op: "save spending day", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &budget.PersistenceError{Op: "save spending day", Err: err}
	}
	return nil
}

func (s *Store) LoadAllSpendingDays(ctx context.Context) ([]budget.SpendingDay, error) {
	return s.queryDays(ctx, `
		SELECT date, item_name, amount
		FROM daily_spendings
		ORDER BY date, position`)
}

func (s *Store) LoadSpendingDaysInRange(ctx context.Context, start, end budget.Date) ([]budget.SpendingDay, error) {
	return s.queryDays(ctx, `
		SELECT date, item_name, amount
		FROM daily_spendings
		WHERE date BETWEEN ? AND ?
		ORDER BY date, position`,
		start.String(), end.String())
}

func (s *Store) queryDays(ctx context.Context, query string, args ...any) ([]budget.SpendingDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &budget.PersistenceError{Op: "load spending days", Err: err}
	}
	defer rows.Close()

	var (
		days    []budget.SpendingDay
		current *budget.SpendingDay
	)
	for rows.Next() {
		var dateStr, itemName, amountStr string
		if err := rows.Scan(&dateStr, &itemName, &amountStr); err != nil {
			return nil, &budget.PersistenceError{Op: "load spending days", Err: err}
		}
		date, err := budget.ParseDate(dateStr)
		if err != nil {
			return nil, &budget.PersistenceError{Op: "load spending days", Err: err}
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, &budget.PersistenceError{Op: "load spending days", Err: err}
		}

		if current == nil || !current.Date.Equal(date) {
			days = append(days, budget.SpendingDay{Date: date})
			current = &days[len(days)-1]
		}
		current.Events = append(current.Events, budget.SpendingEvent{ItemName: itemName, Amount: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, &budget.PersistenceError{Op: "load spending days", Err: err}
	}
	return days, nil
}

// =============================================================================
// RESET
// =============================================================================

func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &budget.PersistenceError{Op: "clear all", Err: err}
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM budget_items`,
		`DELETE FROM budget_plans`,
		`DELETE FROM daily_spendings`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return &budget.PersistenceError{Op: "clear all", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &budget.PersistenceError{Op: "clear all", Err: err}
	}
	return nil
}

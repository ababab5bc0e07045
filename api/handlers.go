/*
handlers.go - HTTP handlers for the budget planner

PURPOSE:
  Exposes the budget engine over REST. Handles HTTP request/response,
  JSON serialization, and delegates everything else to the session.

ENDPOINTS:
  POST /api/plan                Create and finalize a budget plan
  GET  /api/plan                Active plan
  PUT  /api/days/{date}         Record a day (replace semantics)
  GET  /api/days                All recorded days
  GET  /api/days/{date}         Running-balance narration for a day
  GET  /api/balance?as_of=DATE  Remaining balance per item
  GET  /api/statistics          Period statistics and advisory
  POST /api/reset               Wipe the store and session

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: No active plan / unknown date
  - 409: Conflict (duplicate item name)
  - 500: Persistence failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the session all endpoints operate on.
type Handler struct {
	Session *budget.Session
}

func NewHandler(session *budget.Session) *Handler {
	return &Handler{Session: session}
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// CreatePlan builds, finalizes, and installs a plan. Installing supersedes
// any previous plan and clears its spending history.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	start, err := budget.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}
	end, err := budget.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err)
		return
	}

	b := budget.NewPlanBuilder()
	if err := b.SetTotalBudget(req.TotalBudget); err != nil {
		writeDomainError(w, "total_budget rejected", err)
		return
	}
	if err := b.SetPeriod(start, end); err != nil {
		writeDomainError(w, "period rejected", err)
		return
	}
	for _, item := range req.Items {
		if err := b.AddItem(item.Name, item.Amount); err != nil {
			writeDomainError(w, "item "+strconv.Quote(item.Name)+" rejected", err)
			return
		}
	}
	plan, err := b.Finalize()
	if err != nil {
		writeDomainError(w, "plan incomplete", err)
		return
	}

	if _, err := h.Session.InstallPlan(r.Context(), plan); err != nil {
		writeDomainError(w, "failed to install plan", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanDTO(h.Session.Plan()))
}

// GetPlan returns the active plan.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan := h.Session.Plan()
	if plan == nil {
		writeError(w, http.StatusNotFound, "no active budget plan", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// =============================================================================
// SPENDING DAY HANDLERS
// =============================================================================

// RecordDay replaces the event list for the path date.
func (h *Handler) RecordDay(w http.ResponseWriter, r *http.Request) {
	date, err := budget.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	var req RecordDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	events := make([]budget.SpendingEvent, len(req.Events))
	for i, e := range req.Events {
		events[i] = budget.SpendingEvent{ItemName: e.ItemName, Amount: e.Amount}
	}

	if err := h.Session.RecordDay(r.Context(), date, events); err != nil {
		writeDomainError(w, "day rejected", err)
		return
	}

	day, _ := h.Session.Log().Day(date)
	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// ListDays returns every recorded day, date ascending.
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	days := h.Session.Log().AllDays()
	dtos := make([]SpendingDayDTO, len(days))
	for i, day := range days {
		dtos[i] = toDayDTO(day)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDayNarration returns the running-balance narration for the path date.
func (h *Handler) GetDayNarration(w http.ResponseWriter, r *http.Request) {
	date, err := budget.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	entries, err := h.Session.DayNarration(date)
	if err != nil {
		writeDomainError(w, "narration unavailable", err)
		return
	}
	if entries == nil {
		writeError(w, http.StatusNotFound, "no spending recorded for "+date.String(), nil)
		return
	}

	dtos := make([]NarrationEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = NarrationEntryDTO{
			ItemName:      e.ItemName,
			Amount:        e.Amount,
			BalanceBefore: e.BalanceBefore,
			Class:         string(e.Class),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BALANCE / STATISTICS HANDLERS
// =============================================================================

// GetBalance returns remaining balance per item at the start of as_of
// (default: today).
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	asOf := budget.Today()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := budget.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of date", err)
			return
		}
		asOf = parsed
	}

	remaining, err := h.Session.RemainingAsOf(asOf)
	if err != nil {
		writeDomainError(w, "balance unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{AsOf: asOf.String(), Remaining: remaining})
}

// GetStatistics returns the whole-period statistics and advisory.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Session.Statistics()
	if err != nil {
		writeDomainError(w, "statistics unavailable", err)
		return
	}

	dto := StatisticsDTO{
		TotalSpent:       stats.TotalSpent(),
		SpentPerItem:     stats.SpentPerItem(),
		ItemUtilization:  stats.ItemUtilization(),
		DayTotals:        make(map[string]decimal.Decimal),
		WeekdayAverages:  make(map[string]decimal.Decimal),
		AdherencePercent: stats.AdherencePercent(),
	}

	for date, total := range stats.DayTotals() {
		dto.DayTotals[date.String()] = total
	}
	for wd, avg := range stats.WeekdayAverages() {
		dto.WeekdayAverages[budget.WeekdayName(wd)] = avg
	}
	dto.BusiestWeekday = budget.WeekdayName(stats.BusiestWeekday())

	if date, total, ok := stats.BusiestDay(); ok {
		dto.BusiestDay = &BusiestDayDTO{Date: date.String(), Total: total}
	}
	if item, excess, ok := stats.MaxOverspendItem(); ok {
		dto.MaxOverspend = &OverspendDTO{Item: item, Excess: excess}
	}

	advisory := stats.Advisory()
	dto.Advisory = AdvisoryDTO{
		Tag:            string(advisory.Tag),
		Severity:       string(advisory.Severity),
		Message:        advisory.Message,
		OverspentItems: advisory.OverspentItems,
	}
	writeJSON(w, http.StatusOK, dto)
}

// Reset wipes the store and the session.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Reset(r.Context()); err != nil {
		writeDomainError(w, "reset failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

// writeDomainError maps budget errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case budget.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case budget.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, budget.ErrNoActivePlan):
		writeError(w, http.StatusNotFound, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

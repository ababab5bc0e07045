/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  JSON shapes for the API, kept separate from domain types so the wire
  format can evolve without touching the core. Amounts serialize as
  decimal strings (shopspring default); dates as YYYY-MM-DD.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// REQUESTS
// =============================================================================

// CreatePlanRequest builds and finalizes a plan in one call. Items are
// applied in order, so allocation failures report the offending item.
type CreatePlanRequest struct {
	TotalBudget decimal.Decimal   `json:"total_budget"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Items       []PlanItemRequest `json:"items"`
}

type PlanItemRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// RecordDayRequest replaces the event list for one date wholesale.
type RecordDayRequest struct {
	Events []SpendingEventDTO `json:"events"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type PlanDTO struct {
	ID          string        `json:"id"`
	TotalBudget decimal.Decimal `json:"total_budget"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Unallocated decimal.Decimal `json:"unallocated"`
	Items       []PlanItemDTO `json:"items"`
}

type PlanItemDTO struct {
	Name      string          `json:"name"`
	Allocated decimal.Decimal `json:"allocated"`
}

type SpendingEventDTO struct {
	ItemName string          `json:"item_name"`
	Amount   decimal.Decimal `json:"amount"`
}

type SpendingDayDTO struct {
	Date   string             `json:"date"`
	Total  decimal.Decimal    `json:"total"`
	Events []SpendingEventDTO `json:"events"`
}

type NarrationEntryDTO struct {
	ItemName      string          `json:"item_name"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	Class         string          `json:"class"`
}

type BalanceDTO struct {
	AsOf      string                     `json:"as_of"`
	Remaining map[string]decimal.Decimal `json:"remaining"`
}

type BusiestDayDTO struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type OverspendDTO struct {
	Item   string          `json:"item"`
	Excess decimal.Decimal `json:"excess"`
}

type AdvisoryDTO struct {
	Tag            string   `json:"tag"`
	Severity       string   `json:"severity"`
	Message        string   `json:"message"`
	OverspentItems []string `json:"overspent_items,omitempty"`
}

type StatisticsDTO struct {
	TotalSpent       decimal.Decimal            `json:"total_spent"`
	SpentPerItem     map[string]decimal.Decimal `json:"spent_per_item"`
	ItemUtilization  map[string]decimal.Decimal `json:"item_utilization"`
	DayTotals        map[string]decimal.Decimal `json:"day_totals"`
	BusiestDay       *BusiestDayDTO             `json:"busiest_day"`
	WeekdayAverages  map[string]decimal.Decimal `json:"weekday_averages"`
	BusiestWeekday   string                     `json:"busiest_weekday"`
	MaxOverspend     *OverspendDTO              `json:"max_overspend"`
	AdherencePercent decimal.Decimal            `json:"adherence_percent"`
	Advisory         AdvisoryDTO                `json:"advisory"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toPlanDTO(plan *budget.BudgetPlan) PlanDTO {
	dto := PlanDTO{
		ID:          plan.ID,
		TotalBudget: plan.TotalBudget,
		StartDate:   plan.Period.Start.String(),
		EndDate:     plan.Period.End.String(),
		Unallocated: plan.Unallocated(),
		Items:       make([]PlanItemDTO, len(plan.Items)),
	}
	for i, item := range plan.Items {
		dto.Items[i] = PlanItemDTO{Name: item.Name, Allocated: item.Allocated}
	}
	return dto
}

func toDayDTO(day budget.SpendingDay) SpendingDayDTO {
	dto := SpendingDayDTO{
		Date:   day.Date.String(),
		Total:  day.Total(),
		Events: make([]SpendingEventDTO, len(day.Events)),
	}
	for i, e := range day.Events {
		dto.Events[i] = SpendingEventDTO{ItemName: e.ItemName, Amount: e.Amount}
	}
	return dto
}

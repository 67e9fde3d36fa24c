package http

import (
	"context"
	"fmt"
	"net/http"

	"financas/internal/core"
)

type trendJSON struct {
	Value    string `json:"value"`
	Positive bool   `json:"positive"`
	Tooltip  string `json:"tooltip"`
}

func trendToJSON(current, previous int64) trendJSON {
	t := core.PercentageChange(current, previous)
	return trendJSON{
		Value:    t.Value,
		Positive: t.Positive,
		Tooltip:  core.TrendTooltip(current, previous),
	}
}

type categorySumJSON struct {
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Total      moneyJSON `json:"total"`
}

type dashboardResponse struct {
	From         string            `json:"from"`
	To           string            `json:"to"`
	Income       moneyJSON         `json:"income"`
	Expense      moneyJSON         `json:"expense"`
	Balance      moneyJSON         `json:"balance"`
	IncomeTrend  *trendJSON        `json:"income_trend,omitempty"`
	ExpenseTrend *trendJSON        `json:"expense_trend,omitempty"`
	ByCategory   []categorySumJSON `json:"by_category"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rng, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("dashboard|%s|%s", rng.From, rng.To)
	hit := true
	resp, err := s.dashboardCache.GetOrFetch(r.Context(), key, []string{tagTransactions, tagCategories},
		func(ctx context.Context) (dashboardResponse, error) {
			hit = false
			return s.buildDashboard(ctx, rng)
		})
	if err != nil {
		writeStorageError(w, r, err, "build dashboard")
		return
	}
	if hit {
		s.metrics.cacheHits.Add(1)
	} else {
		s.metrics.cacheMisses.Add(1)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) buildDashboard(ctx context.Context, rng core.DateRange) (dashboardResponse, error) {
	income, expense, err := s.store.RangeTotals(ctx, rng)
	if err != nil {
		return dashboardResponse{}, err
	}

	resp := dashboardResponse{
		From:    rng.From,
		To:      rng.To,
		Income:  money(core.Money{Cents: income}),
		Expense: money(core.Money{Cents: expense}),
		Balance: money(core.Money{Cents: income - expense}),
	}

	// trends compare against the previous calendar month when the
	// requested range lines up with a full month
	if prev, ok := core.PreviousMonthRange(rng); ok {
		prevIncome, prevExpense, err := s.store.RangeTotals(ctx, prev)
		if err != nil {
			return dashboardResponse{}, err
		}
		incomeTrend := trendToJSON(income, prevIncome)
		expenseTrend := trendToJSON(expense, prevExpense)
		resp.IncomeTrend = &incomeTrend
		resp.ExpenseTrend = &expenseTrend
	}

	sums, err := s.store.CategoryBreakdown(ctx, rng, core.Expense)
	if err != nil {
		return dashboardResponse{}, err
	}
	resp.ByCategory = make([]categorySumJSON, 0, len(sums))
	for _, cs := range sums {
		resp.ByCategory = append(resp.ByCategory, categorySumJSON{
			CategoryID: cs.CategoryID,
			Name:       cs.Name,
			Color:      cs.Color,
			Total:      money(core.Money{Cents: cs.TotalCents}),
		})
	}
	return resp, nil
}

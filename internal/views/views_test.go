package views

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"financas/internal/core"
)

type fakeViewStore struct {
	transactions []core.Transaction
	categories   []core.Category
	goals        []core.Goal
	launches     []core.FutureLaunch
	failNext     bool
}

func (f *fakeViewStore) ListTransactions(_ context.Context, rng core.DateRange, typ core.RecordType) ([]core.Transaction, error) {
	if f.failNext {
		return nil, errors.New("storage down")
	}
	var out []core.Transaction
	for _, t := range f.transactions {
		if typ != "" && t.Type != typ {
			continue
		}
		if !rng.IsZero() && !rng.Contains(t.Date) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeViewStore) ListCategories(_ context.Context, typ core.RecordType) ([]core.Category, error) {
	if f.failNext {
		return nil, errors.New("storage down")
	}
	var out []core.Category
	for _, c := range f.categories {
		if typ != "" && c.Type != typ {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeViewStore) ListGoals(_ context.Context, status core.GoalStatus) ([]core.Goal, error) {
	if f.failNext {
		return nil, errors.New("storage down")
	}
	var out []core.Goal
	for _, g := range f.goals {
		if status != "" && g.Status != status {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeViewStore) ListFutureLaunches(_ context.Context, status core.LaunchStatus) ([]core.FutureLaunch, error) {
	if f.failNext {
		return nil, errors.New("storage down")
	}
	var out []core.FutureLaunch
	for _, l := range f.launches {
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func TestPageStateFilterResetsPage(t *testing.T) {
	s := NewPageState(10)
	s.SetPage(5)

	s.SetSearch("mercado")
	if s.Page() != 1 {
		t.Errorf("page = %d after search change, want 1", s.Page())
	}

	s.SetPage(3)
	s.SetType(core.Expense)
	if s.Page() != 1 {
		t.Errorf("page = %d after type change, want 1", s.Page())
	}

	s.SetPage(3)
	s.SetRange(core.MonthRange(2025, 3))
	if s.Page() != 1 {
		t.Errorf("page = %d after range change, want 1", s.Page())
	}

	s.SetPage(3)
	s.SetStatus("active")
	if s.Page() != 1 {
		t.Errorf("page = %d after status change, want 1", s.Page())
	}
}

func TestPageStatePageKeepsFilters(t *testing.T) {
	s := NewPageState(10)
	s.SetSearch("mercado")
	s.SetType(core.Expense)

	s.SetPage(4)
	if s.Search() != "mercado" || s.Type() != core.Expense {
		t.Error("changing the page must not touch filters")
	}
	if s.Page() != 4 {
		t.Errorf("page = %d, want 4", s.Page())
	}
}

func TestPageStateSameFilterValueKeepsPage(t *testing.T) {
	s := NewPageState(10)
	s.SetSearch("mercado")
	s.SetPage(3)

	s.SetSearch("mercado")
	if s.Page() != 3 {
		t.Errorf("page = %d after re-setting the same search, want 3", s.Page())
	}
}

func TestTransactionsViewMergeSortPaginate(t *testing.T) {
	store := &fakeViewStore{
		categories: []core.Category{{ID: 1, Name: "Moradia", Type: core.Expense}},
		transactions: []core.Transaction{
			{ID: 1, Date: "2025-03-01", Description: "Salário", Amount: core.Money{Cents: 500000}, Type: core.Income},
			{ID: 2, Date: "2025-03-05", Description: "Aluguel", Amount: core.Money{Cents: 200000}, CategoryID: 1, Type: core.Expense},
			{ID: 3, Date: "2025-03-05", Description: "Freela", Amount: core.Money{Cents: 80000}, Type: core.Income},
			{ID: 4, Date: "2025-03-10", Description: "Mercado", Amount: core.Money{Cents: 30000}, Type: core.Expense},
		},
	}
	v := NewTransactionsView(store, 3)
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	page := v.Render()
	if page.TotalItems != 4 {
		t.Fatalf("TotalItems = %d, want 4", page.TotalItems)
	}
	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.TotalPages)
	}
	if len(page.Items) != 3 {
		t.Fatalf("page size = %d, want 3", len(page.Items))
	}
	// date desc, id desc within the same date
	wantOrder := []int64{4, 3, 2}
	for i, want := range wantOrder {
		if page.Items[i].ID != want {
			t.Errorf("item[%d].ID = %d, want %d", i, page.Items[i].ID, want)
		}
	}
	if page.Summary.TotalCents != 810000 {
		t.Errorf("summary total = %d, want 810000 over the whole filtered set", page.Summary.TotalCents)
	}
	if page.Summary.Count != 4 {
		t.Errorf("summary count = %d, want 4", page.Summary.Count)
	}
}

func TestTransactionsViewSearchMatchesCategoryName(t *testing.T) {
	store := &fakeViewStore{
		categories: []core.Category{{ID: 1, Name: "Moradia", Type: core.Expense}},
		transactions: []core.Transaction{
			{ID: 1, Date: "2025-03-05", Description: "Aluguel", Amount: core.Money{Cents: 200000}, CategoryID: 1, Type: core.Expense},
			{ID: 2, Date: "2025-03-10", Description: "Mercado", Amount: core.Money{Cents: 30000}, Type: core.Expense},
		},
	}
	v := NewTransactionsView(store, 10)
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	v.State.SetSearch("moradia")
	page := v.Render()
	if page.TotalItems != 1 || page.Items[0].ID != 1 {
		t.Errorf("search by category name matched %d items, want just the Moradia one", page.TotalItems)
	}
}

func TestTransactionsViewTypeFilter(t *testing.T) {
	store := &fakeViewStore{
		transactions: []core.Transaction{
			{ID: 1, Date: "2025-03-01", Description: "Salário", Amount: core.Money{Cents: 500000}, Type: core.Income},
			{ID: 2, Date: "2025-03-05", Description: "Aluguel", Amount: core.Money{Cents: 200000}, Type: core.Expense},
		},
	}
	v := NewTransactionsView(store, 10)
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	v.State.SetType(core.Income)
	page := v.Render()
	if page.TotalItems != 1 || page.Items[0].Type != core.Income {
		t.Errorf("type filter returned %d items, want only the income", page.TotalItems)
	}
}

func TestTransactionsViewKeepsSnapshotOnFailedRefresh(t *testing.T) {
	store := &fakeViewStore{
		transactions: []core.Transaction{
			{ID: 1, Date: "2025-03-01", Description: "Salário", Amount: core.Money{Cents: 500000}, Type: core.Income},
		},
	}
	v := NewTransactionsView(store, 10)
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	store.failNext = true
	if err := v.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should surface the storage error")
	}

	page := v.Render()
	if page.TotalItems != 1 {
		t.Errorf("TotalItems = %d after failed refresh, want stale snapshot of 1", page.TotalItems)
	}
}

func TestGoalsViewDerivedNumbers(t *testing.T) {
	store := &fakeViewStore{
		goals: []core.Goal{{
			ID: 1, Title: "Reserva", Type: core.GoalSave,
			TargetAmount:  core.Money{Cents: 100000},
			CurrentAmount: core.Money{Cents: 50000},
			Deadline:      "2025-12-31", Status: core.GoalActive, CreatedAt: "2025-01-01",
		}},
	}
	v := NewGoalsView(store, 10)
	v.now = func() time.Time {
		return time.Date(2025, 7, 2, 0, 0, 0, 0, time.Local)
	}
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	page := v.Render()
	if len(page.Items) != 1 {
		t.Fatalf("got %d cards, want 1", len(page.Items))
	}
	card := page.Items[0]
	if card.Progress != 50.0 {
		t.Errorf("Progress = %v, want 50.0", card.Progress)
	}
	// halfway through the year with half the target saved
	if card.Health != core.HealthOnTrack {
		t.Errorf("Health = %v, want on_track", card.Health)
	}
	if card.DaysRemaining != 182 {
		t.Errorf("DaysRemaining = %d, want 182", card.DaysRemaining)
	}
	if card.MonthsRemaining != 7 {
		t.Errorf("MonthsRemaining = %d, want 7", card.MonthsRemaining)
	}
	if card.MonthlySuggestion.Cents != 7143 {
		t.Errorf("MonthlySuggestion = %d, want ceil(50000/7) = 7143", card.MonthlySuggestion.Cents)
	}
}

func TestGoalsViewStatusFilter(t *testing.T) {
	store := &fakeViewStore{
		goals: []core.Goal{
			{ID: 1, Title: "Ativa", Status: core.GoalActive, TargetAmount: core.Money{Cents: 1000}, Deadline: "2025-12-31", CreatedAt: "2025-01-01"},
			{ID: 2, Title: "Pausada", Status: core.GoalPaused, TargetAmount: core.Money{Cents: 1000}, Deadline: "2025-12-31", CreatedAt: "2025-01-01"},
		},
	}
	v := NewGoalsView(store, 10)
	v.State.SetStatus(string(core.GoalActive))
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	page := v.Render()
	if page.TotalItems != 1 || page.Items[0].Goal.ID != 1 {
		t.Errorf("status filter returned %d goals, want only the active one", page.TotalItems)
	}
}

func TestLaunchesViewPartitions(t *testing.T) {
	store := &fakeViewStore{
		launches: []core.FutureLaunch{
			{ID: 1, Date: "2025-04-10", Description: "IPVA", Amount: core.Money{Cents: 120000}, Type: core.Expense, Status: core.LaunchPending},
			{ID: 2, Date: "2025-04-15", Description: "Décimo", Amount: core.Money{Cents: 300000}, Type: core.Income, Status: core.LaunchPending},
			{ID: 3, Date: "2025-03-01", Description: "Seguro", Amount: core.Money{Cents: 90000}, Type: core.Expense, Status: core.LaunchCompleted},
		},
	}
	v := NewLaunchesView(store, 10)
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	page := v.Render()
	if len(page.Pending) != 2 {
		t.Errorf("pending = %d, want 2", len(page.Pending))
	}
	if len(page.Completed) != 1 {
		t.Errorf("completed = %d, want 1", len(page.Completed))
	}
	if page.PendingSummary.TotalCents != 420000 {
		t.Errorf("pending summary total = %d, want 420000", page.PendingSummary.TotalCents)
	}

	// completing a launch moves it between lists on the next refresh
	store.launches[0].Status = core.LaunchCompleted
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	page = v.Render()
	if len(page.Pending) != 1 || len(page.Completed) != 2 {
		t.Errorf("after completion: pending = %d completed = %d, want 1 and 2",
			len(page.Pending), len(page.Completed))
	}
}

func TestCategoriesViewPartitionsAndSearch(t *testing.T) {
	store := &fakeViewStore{
		categories: []core.Category{
			{ID: 1, Name: "Salário", Type: core.Income},
			{ID: 2, Name: "Moradia", Type: core.Expense},
			{ID: 3, Name: "Mercado", Type: core.Expense},
		},
	}
	v := NewCategoriesView(store, 10)
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	page := v.Render()
	if len(page.Income) != 1 || len(page.Expense) != 2 {
		t.Fatalf("partitions = %d/%d, want 1 income and 2 expense", len(page.Income), len(page.Expense))
	}

	v.State.SetSearch("mer")
	page = v.Render()
	if len(page.Income) != 0 || len(page.Expense) != 1 || page.Expense[0].Name != "Mercado" {
		t.Errorf("search result = %d/%d, want only Mercado", len(page.Income), len(page.Expense))
	}
}

func TestTransactionsViewPageBeyondEnd(t *testing.T) {
	var transactions []core.Transaction
	for i := 1; i <= 5; i++ {
		transactions = append(transactions, core.Transaction{
			ID: int64(i), Date: fmt.Sprintf("2025-03-%02d", i),
			Description: fmt.Sprintf("item %d", i),
			Amount:      core.Money{Cents: 100}, Type: core.Expense,
		})
	}
	store := &fakeViewStore{transactions: transactions}
	v := NewTransactionsView(store, 2)
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	v.State.SetPage(9)
	page := v.Render()
	if len(page.Items) != 0 {
		t.Errorf("page beyond end returned %d items, want empty", len(page.Items))
	}
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages)
	}
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/report/memory"
	"financas/internal/storage"
)

type fakeStore struct {
	goals        map[int64]int64 // goal id -> current cents
	transactions []core.Transaction
	categories   []core.Category
	failProgress error
}

func newFakeStore() *fakeStore {
	return &fakeStore{goals: map[int64]int64{}}
}

func (f *fakeStore) AddGoalProgress(_ context.Context, goalID, addedCents int64) error {
	if f.failProgress != nil {
		return f.failProgress
	}
	if _, ok := f.goals[goalID]; !ok {
		return fmt.Errorf("goal %d: %w", goalID, storage.ErrNotFound)
	}
	f.goals[goalID] += addedCents
	return nil
}

func (f *fakeStore) MonthTransactions(_ context.Context, year, month int) ([]core.Transaction, error) {
	rng := core.MonthRange(year, month)
	var out []core.Transaction
	for _, t := range f.transactions {
		if rng.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCategories(_ context.Context, _ core.RecordType) ([]core.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) RangeTotals(_ context.Context, rng core.DateRange) (int64, int64, error) {
	var income, expense int64
	for _, t := range f.transactions {
		if !rng.Contains(t.Date) {
			continue
		}
		if t.Type == core.Income {
			income += t.Amount.Cents
		} else {
			expense += t.Amount.Cents
		}
	}
	return income, expense, nil
}

func TestHandleProgressMessage(t *testing.T) {
	store := newFakeStore()
	store.goals[7] = 1000
	w := New(store, store, memory.New())

	msg := &amqp.GoalProgressMessage{GoalID: 7, CheckInID: 3, AddedCents: 5000}
	if err := w.HandleProgressMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleProgressMessage() error = %v", err)
	}
	if got := store.goals[7]; got != 6000 {
		t.Errorf("goal total = %d, want 6000", got)
	}
}

func TestHandleProgressMessageZeroValue(t *testing.T) {
	store := newFakeStore()
	store.goals[7] = 1000
	w := New(store, store, memory.New())

	msg := &amqp.GoalProgressMessage{GoalID: 7, CheckInID: 3, AddedCents: 0}
	if err := w.HandleProgressMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleProgressMessage() error = %v", err)
	}
	if got := store.goals[7]; got != 1000 {
		t.Errorf("goal total = %d, want unchanged 1000", got)
	}
}

func TestHandleProgressMessageMissingGoal(t *testing.T) {
	store := newFakeStore()
	w := New(store, store, memory.New())

	// deleted goal drops the message instead of requeueing it forever
	msg := &amqp.GoalProgressMessage{GoalID: 99, CheckInID: 3, AddedCents: 5000}
	if err := w.HandleProgressMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleProgressMessage() error = %v, want nil for missing goal", err)
	}
}

func TestHandleProgressMessageStorageError(t *testing.T) {
	store := newFakeStore()
	store.failProgress = errors.New("disk full")
	w := New(store, store, memory.New())

	msg := &amqp.GoalProgressMessage{GoalID: 7, CheckInID: 3, AddedCents: 5000}
	if err := w.HandleProgressMessage(context.Background(), msg); err == nil {
		t.Fatal("HandleProgressMessage() should surface storage errors for requeue")
	}
}

func TestHandleReportMessage(t *testing.T) {
	store := newFakeStore()
	store.categories = []core.Category{
		{ID: 1, Name: "Moradia", Type: core.Expense},
	}
	store.transactions = []core.Transaction{
		{ID: 1, Date: "2025-03-01", Description: "Salário", Amount: core.Money{Cents: 500000}, Type: core.Income},
		{ID: 2, Date: "2025-03-05", Description: "Aluguel", Amount: core.Money{Cents: 200000}, CategoryID: 1, Type: core.Expense},
		{ID: 3, Date: "2025-04-01", Description: "Outro mês", Amount: core.Money{Cents: 1000}, Type: core.Expense},
	}
	writer := memory.New()
	w := New(store, store, writer)

	msg := &amqp.ReportExportMessage{Year: 2025, Month: 3}
	if err := w.HandleReportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleReportMessage() error = %v", err)
	}

	reports := writer.Reports()
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	m := reports[0]
	if m.Year != 2025 || m.Month != 3 {
		t.Errorf("report period = %d-%d, want 2025-3", m.Year, m.Month)
	}
	if len(m.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(m.Rows))
	}
	if m.Rows[0].Date != "01/03/2025" {
		t.Errorf("row date = %q, want 01/03/2025", m.Rows[0].Date)
	}
	if m.Rows[1].Category != "Moradia" {
		t.Errorf("row category = %q, want Moradia", m.Rows[1].Category)
	}
	if m.TotalIncome.Cents != 500000 {
		t.Errorf("total income = %d, want 500000", m.TotalIncome.Cents)
	}
	if m.TotalExpense.Cents != 200000 {
		t.Errorf("total expense = %d, want 200000", m.TotalExpense.Cents)
	}
	if m.Balance().Cents != 300000 {
		t.Errorf("balance = %d, want 300000", m.Balance().Cents)
	}
}

func TestHandleReportMessageInvalidPeriod(t *testing.T) {
	store := newFakeStore()
	writer := memory.New()
	w := New(store, store, writer)

	msg := &amqp.ReportExportMessage{Year: 2025, Month: 13}
	if err := w.HandleReportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleReportMessage() error = %v, want nil for invalid period", err)
	}
	if got := len(writer.Reports()); got != 0 {
		t.Errorf("got %d reports, want 0", got)
	}
}

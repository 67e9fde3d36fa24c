package views

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"financas/internal/core"
)

// TransactionStore is the slice of storage the transactions view needs.
type TransactionStore interface {
	ListTransactions(ctx context.Context, rng core.DateRange, typ core.RecordType) ([]core.Transaction, error)
	ListCategories(ctx context.Context, typ core.RecordType) ([]core.Category, error)
}

// TransactionsPage is one rendered page of the merged record list.
type TransactionsPage struct {
	Items      []core.Transaction
	Page       int
	TotalPages int
	TotalItems int
	Summary    core.Summary
}

// TransactionsView merges incomes and expenses into one filtered,
// paginated list. Fetches run concurrently on Refresh; the last good
// snapshot survives a failed refresh so the page can keep rendering
// stale data.
type TransactionsView struct {
	mu    sync.Mutex
	store TransactionStore

	State PageState

	incomes    []core.Transaction
	expenses   []core.Transaction
	categories map[int64]core.Category
}

func NewTransactionsView(store TransactionStore, pageSize int) *TransactionsView {
	return &TransactionsView{
		store:      store,
		State:      NewPageState(pageSize),
		categories: map[int64]core.Category{},
	}
}

// Refresh reloads incomes, expenses and categories concurrently. On
// error the previous snapshot is kept.
func (v *TransactionsView) Refresh(ctx context.Context) error {
	rng := v.State.Range()

	var incomes, expenses []core.Transaction
	var categories []core.Category

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = v.store.ListTransactions(ctx, rng, core.Income)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = v.store.ListTransactions(ctx, rng, core.Expense)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = v.store.ListCategories(ctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh transactions view: %w", err)
	}

	byID := make(map[int64]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	v.mu.Lock()
	v.incomes = incomes
	v.expenses = expenses
	v.categories = byID
	v.mu.Unlock()
	return nil
}

// Render applies type filter, search, sort and pagination to the
// current snapshot. The summary covers the whole filtered set, not
// just the visible page.
func (v *TransactionsView) Render() TransactionsPage {
	v.mu.Lock()
	defer v.mu.Unlock()

	var merged []core.Transaction
	switch v.State.Type() {
	case core.Income:
		merged = append(merged, v.incomes...)
	case core.Expense:
		merged = append(merged, v.expenses...)
	default:
		merged = append(merged, v.incomes...)
		merged = append(merged, v.expenses...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date != merged[j].Date {
			return merged[i].Date > merged[j].Date
		}
		return merged[i].ID > merged[j].ID
	})

	filtered := core.FilterBySearchTerm(merged, v.State.Search(), func(t core.Transaction) []string {
		return []string{t.Description, v.categories[t.CategoryID].Name}
	})

	return TransactionsPage{
		Items:      core.Paginate(filtered, v.State.Page(), v.State.PageSize()),
		Page:       v.State.Page(),
		TotalPages: core.TotalPages(len(filtered), v.State.PageSize()),
		TotalItems: len(filtered),
		Summary:    core.Summarize(filtered),
	}
}

// CategoryName resolves a category id against the current snapshot.
func (v *TransactionsView) CategoryName(id int64) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.categories[id].Name
}

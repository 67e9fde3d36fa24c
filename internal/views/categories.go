package views

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"financas/internal/core"
)

// CategoryStore is the slice of storage the categories view needs.
type CategoryStore interface {
	ListCategories(ctx context.Context, typ core.RecordType) ([]core.Category, error)
}

// CategoriesPage partitions categories by record type.
type CategoriesPage struct {
	Income  []core.Category
	Expense []core.Category
}

// CategoriesView keeps both partitions loaded, filtered by a shared
// name search.
type CategoriesView struct {
	mu    sync.Mutex
	store CategoryStore

	State PageState

	income  []core.Category
	expense []core.Category
}

func NewCategoriesView(store CategoryStore, pageSize int) *CategoriesView {
	return &CategoriesView{
		store: store,
		State: NewPageState(pageSize),
	}
}

func (v *CategoriesView) Refresh(ctx context.Context) error {
	var income, expense []core.Category

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = v.store.ListCategories(ctx, core.Income)
		return err
	})
	g.Go(func() error {
		var err error
		expense, err = v.store.ListCategories(ctx, core.Expense)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh categories view: %w", err)
	}

	v.mu.Lock()
	v.income = income
	v.expense = expense
	v.mu.Unlock()
	return nil
}

func (v *CategoriesView) Render() CategoriesPage {
	v.mu.Lock()
	defer v.mu.Unlock()

	fields := func(c core.Category) []string {
		return []string{c.Name, c.Description}
	}
	return CategoriesPage{
		Income:  core.FilterBySearchTerm(v.income, v.State.Search(), fields),
		Expense: core.FilterBySearchTerm(v.expense, v.State.Search(), fields),
	}
}

package views

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"financas/internal/core"
)

// LaunchStore is the slice of storage the launches view needs.
type LaunchStore interface {
	ListFutureLaunches(ctx context.Context, status core.LaunchStatus) ([]core.FutureLaunch, error)
}

// LaunchesPage shows the paginated pending list next to the full
// completed history.
type LaunchesPage struct {
	Pending        []core.FutureLaunch
	Completed      []core.FutureLaunch
	Page           int
	TotalPages     int
	TotalItems     int
	PendingSummary core.Summary
}

// LaunchesView lists scheduled records. A completed launch leaves the
// pending list and shows up under completed on the next refresh.
type LaunchesView struct {
	mu    sync.Mutex
	store LaunchStore

	State PageState

	pending   []core.FutureLaunch
	completed []core.FutureLaunch
}

func NewLaunchesView(store LaunchStore, pageSize int) *LaunchesView {
	return &LaunchesView{
		store: store,
		State: NewPageState(pageSize),
	}
}

func (v *LaunchesView) Refresh(ctx context.Context) error {
	var pending, completed []core.FutureLaunch

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = v.store.ListFutureLaunches(ctx, core.LaunchPending)
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = v.store.ListFutureLaunches(ctx, core.LaunchCompleted)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh launches view: %w", err)
	}

	v.mu.Lock()
	v.pending = pending
	v.completed = completed
	v.mu.Unlock()
	return nil
}

func (v *LaunchesView) Render() LaunchesPage {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := core.FilterBySearchTerm(v.pending, v.State.Search(), func(l core.FutureLaunch) []string {
		return []string{l.Description}
	})

	return LaunchesPage{
		Pending:        core.Paginate(filtered, v.State.Page(), v.State.PageSize()),
		Completed:      append([]core.FutureLaunch(nil), v.completed...),
		Page:           v.State.Page(),
		TotalPages:     core.TotalPages(len(filtered), v.State.PageSize()),
		TotalItems:     len(filtered),
		PendingSummary: core.Summarize(filtered),
	}
}

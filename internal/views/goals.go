package views

import (
	"context"
	"fmt"
	"sync"
	"time"

	"financas/internal/core"
)

// GoalStore is the slice of storage the goals view needs.
type GoalStore interface {
	ListGoals(ctx context.Context, status core.GoalStatus) ([]core.Goal, error)
}

// GoalCard is a goal with its derived presentation numbers.
type GoalCard struct {
	Goal              core.Goal
	Progress          float64
	Health            core.Health
	DaysRemaining     int
	MonthsRemaining   int
	MonthlySuggestion core.Money
}

// GoalsPage is one rendered page of goal cards.
type GoalsPage struct {
	Items      []GoalCard
	Page       int
	TotalPages int
	TotalItems int
}

// GoalsView lists goals with derived progress and health, filtered by
// status and title search.
type GoalsView struct {
	mu    sync.Mutex
	store GoalStore
	now   func() time.Time

	State PageState

	goals []core.Goal
}

func NewGoalsView(store GoalStore, pageSize int) *GoalsView {
	return &GoalsView{
		store: store,
		now:   time.Now,
		State: NewPageState(pageSize),
	}
}

func (v *GoalsView) Refresh(ctx context.Context) error {
	goals, err := v.store.ListGoals(ctx, core.GoalStatus(v.State.Status()))
	if err != nil {
		return fmt.Errorf("refresh goals view: %w", err)
	}

	v.mu.Lock()
	v.goals = goals
	v.mu.Unlock()
	return nil
}

func (v *GoalsView) Render() GoalsPage {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := core.FilterBySearchTerm(v.goals, v.State.Search(), func(g core.Goal) []string {
		return []string{g.Title, g.Description}
	})

	now := v.now()
	page := core.Paginate(filtered, v.State.Page(), v.State.PageSize())
	cards := make([]GoalCard, 0, len(page))
	for _, g := range page {
		cards = append(cards, buildGoalCard(g, now))
	}

	return GoalsPage{
		Items:      cards,
		Page:       v.State.Page(),
		TotalPages: core.TotalPages(len(filtered), v.State.PageSize()),
		TotalItems: len(filtered),
	}
}

func buildGoalCard(g core.Goal, now time.Time) GoalCard {
	card := GoalCard{
		Goal:     g,
		Progress: core.Progress(g.CurrentAmount.Cents, g.TargetAmount.Cents),
	}

	deadline, err := core.ParseLocalDate(g.Deadline)
	if err != nil {
		return card
	}
	createdAt, err := core.ParseLocalDate(g.CreatedAt)
	if err != nil {
		createdAt = now
	}

	card.Health = core.GoalHealth(g.CurrentAmount.Cents, g.TargetAmount.Cents, createdAt, deadline, now)
	card.DaysRemaining = core.DaysRemaining(deadline, now)
	card.MonthsRemaining = core.MonthsRemaining(deadline, now)
	card.MonthlySuggestion = core.Money{
		Cents: core.MonthlySuggestion(g.TargetAmount.Cents, g.CurrentAmount.Cents, deadline, now),
	}
	return card
}

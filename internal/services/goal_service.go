package services

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/core"
	applog "financas/internal/log"
)

// GoalStorage is the slice of storage the goal service needs.
type GoalStorage interface {
	GetGoal(ctx context.Context, id int64) (core.Goal, error)
	CreateCheckIn(ctx context.Context, c core.CheckIn) (core.CheckIn, error)
	AddGoalProgress(ctx context.Context, goalID, addedCents int64) error
}

// ProgressPublisher publishes goal progress messages for the worker.
type ProgressPublisher interface {
	PublishGoalProgress(ctx context.Context, goalID, checkInID, addedCents int64) error
}

// GoalService orchestrates check-ins across storage and AMQP. The
// check-in row is written first; the goal's running total is updated
// by the worker when the progress message lands, so a reader can see
// the check-in before the total moves.
type GoalService struct {
	storage   GoalStorage
	publisher ProgressPublisher
}

func NewGoalService(storage GoalStorage, publisher ProgressPublisher) *GoalService {
	return &GoalService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateCheckIn validates and stores a check-in, then hands its added
// value to the worker. Without a broker the value is applied inline so
// the app still works standalone.
func (s *GoalService) CreateCheckIn(ctx context.Context, c core.CheckIn) (core.CheckIn, error) {
	if err := c.Validate(); err != nil {
		return core.CheckIn{}, err
	}
	if _, err := s.storage.GetGoal(ctx, c.GoalID); err != nil {
		return core.CheckIn{}, fmt.Errorf("load goal: %w", err)
	}

	created, err := s.storage.CreateCheckIn(ctx, c)
	if err != nil {
		return core.CheckIn{}, fmt.Errorf("save check-in: %w", err)
	}

	if created.AddedValue.Cents > 0 {
		s.applyProgress(ctx, created)
	}

	return created, nil
}

func (s *GoalService) applyProgress(ctx context.Context, c core.CheckIn) {
	if s.publisher != nil {
		err := s.publisher.PublishGoalProgress(ctx, c.GoalID, c.ID, c.AddedValue.Cents)
		if err == nil {
			return
		}
		slog.ErrorContext(ctx, "Failed to publish progress message, applying inline",
			applog.FieldGoalID, c.GoalID,
			applog.FieldCheckInID, c.ID,
			applog.FieldError, err)
	}

	// Inline fallback. The check-in itself is already saved, so a
	// failure here only delays the total, it loses nothing.
	if err := s.storage.AddGoalProgress(ctx, c.GoalID, c.AddedValue.Cents); err != nil {
		slog.ErrorContext(ctx, "Failed to apply goal progress inline",
			applog.FieldGoalID, c.GoalID,
			applog.FieldCheckInID, c.ID,
			applog.FieldError, err)
	}
}

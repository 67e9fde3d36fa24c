package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/report"
	"financas/internal/storage"
)

// GoalStore is the slice of storage the progress worker needs.
type GoalStore interface {
	AddGoalProgress(ctx context.Context, goalID, addedCents int64) error
}

// ReportStore is the slice of storage the report worker needs.
type ReportStore interface {
	MonthTransactions(ctx context.Context, year, month int) ([]core.Transaction, error)
	ListCategories(ctx context.Context, typ core.RecordType) ([]core.Category, error)
	RangeTotals(ctx context.Context, rng core.DateRange) (income, expense int64, err error)
}

// Worker applies goal progress messages and exports monthly reports.
type Worker struct {
	goals   GoalStore
	reports ReportStore
	writer  report.Writer
}

func New(goals GoalStore, reports ReportStore, writer report.Writer) *Worker {
	return &Worker{
		goals:   goals,
		reports: reports,
		writer:  writer,
	}
}

// HandleProgressMessage applies a check-in's added value to its goal.
// A missing goal is logged and dropped rather than requeued, since the
// goal may have been deleted after the check-in was created.
func (w *Worker) HandleProgressMessage(ctx context.Context, msg *amqp.GoalProgressMessage) error {
	slog.InfoContext(ctx, "Processing goal progress message",
		applog.FieldGoalID, msg.GoalID,
		applog.FieldCheckInID, msg.CheckInID,
		applog.FieldAmountCents, msg.AddedCents)

	if msg.AddedCents <= 0 {
		slog.InfoContext(ctx, "Check-in carries no value, nothing to apply",
			applog.FieldGoalID, msg.GoalID,
			applog.FieldCheckInID, msg.CheckInID)
		return nil
	}

	if err := w.goals.AddGoalProgress(ctx, msg.GoalID, msg.AddedCents); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Goal no longer exists, dropping progress message",
				applog.FieldGoalID, msg.GoalID,
				applog.FieldCheckInID, msg.CheckInID)
			return nil
		}
		return fmt.Errorf("apply goal progress: %w", err)
	}

	slog.InfoContext(ctx, "Applied goal progress",
		applog.FieldGoalID, msg.GoalID,
		applog.FieldCheckInID, msg.CheckInID,
		applog.FieldAmountCents, msg.AddedCents)
	return nil
}

// HandleReportMessage builds a month's report from storage and exports
// it through the configured writer.
func (w *Worker) HandleReportMessage(ctx context.Context, msg *amqp.ReportExportMessage) error {
	slog.InfoContext(ctx, "Processing report export message",
		"year", msg.Year,
		"month", msg.Month)

	if msg.Month < 1 || msg.Month > 12 || msg.Year < 1 {
		slog.WarnContext(ctx, "Dropping report request with invalid period",
			"year", msg.Year,
			"month", msg.Month)
		return nil
	}

	m, err := w.BuildMonth(ctx, msg.Year, msg.Month)
	if err != nil {
		return fmt.Errorf("build month report: %w", err)
	}

	if err := w.writer.WriteMonth(ctx, m); err != nil {
		return fmt.Errorf("write month report: %w", err)
	}

	slog.InfoContext(ctx, "Exported month report",
		"year", msg.Year,
		"month", msg.Month,
		"rows", len(m.Rows))
	return nil
}

// BuildMonth assembles the export rows for one calendar month.
func (w *Worker) BuildMonth(ctx context.Context, year, month int) (report.Month, error) {
	transactions, err := w.reports.MonthTransactions(ctx, year, month)
	if err != nil {
		return report.Month{}, fmt.Errorf("month transactions: %w", err)
	}

	categories, err := w.reports.ListCategories(ctx, "")
	if err != nil {
		return report.Month{}, fmt.Errorf("list categories: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	income, expense, err := w.reports.RangeTotals(ctx, core.MonthRange(year, month))
	if err != nil {
		return report.Month{}, fmt.Errorf("range totals: %w", err)
	}

	m := report.Month{
		Year:         year,
		Month:        month,
		TotalIncome:  core.Money{Cents: income},
		TotalExpense: core.Money{Cents: expense},
	}
	for _, t := range transactions {
		m.Rows = append(m.Rows, report.Row{
			Date:        core.FormatLocalDate(t.Date),
			Description: t.Description,
			Category:    names[t.CategoryID],
			Type:        t.Type,
			Amount:      t.Amount,
		})
	}
	return m, nil
}

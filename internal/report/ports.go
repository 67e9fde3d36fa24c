package report

import (
	"context"

	"financas/internal/core"
)

// Month is a rendered monthly report ready for export.
type Month struct {
	Year  int
	Month int
	Rows  []Row

	TotalIncome  core.Money
	TotalExpense core.Money
}

// Row is one exported record.
type Row struct {
	Date        string // DD/MM/YYYY
	Description string
	Category    string
	Type        core.RecordType
	Amount      core.Money
}

// Balance is income minus expenses, possibly negative.
func (m Month) Balance() core.Money {
	return core.Money{Cents: m.TotalIncome.Cents - m.TotalExpense.Cents}
}

// Writer exports a monthly report to some destination.
type Writer interface {
	WriteMonth(ctx context.Context, m Month) error
}

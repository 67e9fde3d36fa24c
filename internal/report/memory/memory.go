package memory

import (
	"context"
	"sync"

	"financas/internal/report"
)

// Writer keeps exported reports in memory. Used in tests and when no
// spreadsheet is configured.
type Writer struct {
	mu      sync.Mutex
	reports []report.Month
}

var _ report.Writer = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteMonth(_ context.Context, m report.Month) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, m)
	return nil
}

// Reports returns a copy of everything written so far.
func (w *Writer) Reports() []report.Month {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]report.Month(nil), w.reports...)
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStorageError maps storage failures to status codes; not-found
// rows are the client's problem, everything else is ours.
func writeStorageError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	slog.ErrorContext(r.Context(), "Storage operation failed", applog.FieldOperation, op, applog.FieldError, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseRange reads from/to query params, falling back to the last N
// days ending today.
func (s *Server) parseRange(r *http.Request) (core.DateRange, error) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" && to == "" {
		return core.LastNDaysRange(s.rangeDays, s.now()), nil
	}

	rng := core.DateRange{From: from, To: to}
	if err := rng.Validate(); err != nil {
		return core.DateRange{}, err
	}
	return rng, nil
}

func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *Server) parsePageSize(r *http.Request) int {
	size, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || size < 1 || size > 100 {
		return s.pageSize
	}
	return size
}

func parseRecordType(r *http.Request) (core.RecordType, error) {
	typ := core.RecordType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ != "" && !typ.Valid() {
		return "", fmt.Errorf("invalid type %q", typ)
	}
	return typ, nil
}

// --- JSON shapes ---

// moneyJSON carries both the raw cents and the rendered pt-BR string
// so clients don't reimplement the formatting.
type moneyJSON struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func money(m core.Money) moneyJSON {
	return moneyJSON{Cents: m.Cents, Formatted: m.BRL()}
}

type transactionJSON struct {
	ID            int64           `json:"id"`
	Date          string          `json:"date"`
	DateFormatted string          `json:"date_formatted"`
	Description   string          `json:"description"`
	Amount        moneyJSON       `json:"amount"`
	CategoryID    int64           `json:"category_id,omitempty"`
	Type          core.RecordType `json:"type"`
}

func transactionToJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:            t.ID,
		Date:          t.Date,
		DateFormatted: core.FormatLocalDate(t.Date),
		Description:   t.Description,
		Amount:        money(t.Amount),
		CategoryID:    t.CategoryID,
		Type:          t.Type,
	}
}

type summaryJSON struct {
	Total   moneyJSON `json:"total"`
	Count   int       `json:"count"`
	Average moneyJSON `json:"average"`
}

func summaryToJSON(s core.Summary) summaryJSON {
	return summaryJSON{
		Total:   money(core.Money{Cents: s.TotalCents}),
		Count:   s.Count,
		Average: money(core.Money{Cents: s.AverageCents}),
	}
}

type pageMetaJSON struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

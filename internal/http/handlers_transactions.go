package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"financas/internal/core"
	"financas/internal/views"
)

// invalidate drops tagged entries across every response cache.
func (s *Server) invalidate(tags ...string) {
	s.transactionsCache.InvalidateTag(tags...)
	s.goalsCache.InvalidateTag(tags...)
	s.launchesCache.InvalidateTag(tags...)
	s.categoriesCache.InvalidateTag(tags...)
	s.dashboardCache.InvalidateTag(tags...)
}

type transactionRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	CategoryID  int64           `json:"category_id"`
	Type        core.RecordType `json:"type"`
}

func (s *Server) transactionFromRequest(req transactionRequest) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = core.ToLocalDateString(s.now())
	}
	t := core.Transaction{
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: cents},
		CategoryID:  req.CategoryID,
		Type:        req.Type,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

type transactionsResponse struct {
	Items   []transactionJSON `json:"items"`
	Meta    pageMetaJSON      `json:"meta"`
	Summary summaryJSON       `json:"summary"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	rng, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	typ, err := parseRecordType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page := parsePage(r)
	size := s.parsePageSize(r)

	key := fmt.Sprintf("transactions|%s|%s|%s|%s|%d|%d", rng.From, rng.To, typ, search, page, size)
	result, err := s.cachedTransactions(r.Context(), key, func(ctx context.Context) (views.TransactionsPage, error) {
		v := views.NewTransactionsView(s.store, size)
		v.State.SetRange(rng)
		v.State.SetType(typ)
		v.State.SetSearch(search)
		v.State.SetPage(page) // page applied last so the filters can't reset it
		if err := v.Refresh(ctx); err != nil {
			return views.TransactionsPage{}, err
		}
		return v.Render(), nil
	})
	if err != nil {
		writeStorageError(w, r, err, "list transactions")
		return
	}

	resp := transactionsResponse{
		Items: make([]transactionJSON, 0, len(result.Items)),
		Meta: pageMetaJSON{
			Page:       result.Page,
			TotalPages: result.TotalPages,
			TotalItems: result.TotalItems,
		},
		Summary: summaryToJSON(result.Summary),
	}
	for _, t := range result.Items {
		resp.Items = append(resp.Items, transactionToJSON(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) cachedTransactions(ctx context.Context, key string, fetch func(context.Context) (views.TransactionsPage, error)) (views.TransactionsPage, error) {
	hit := true
	result, err := s.transactionsCache.GetOrFetch(ctx, key, []string{tagTransactions, tagCategories},
		func(ctx context.Context) (views.TransactionsPage, error) {
			hit = false
			return fetch(ctx)
		})
	if err == nil {
		if hit {
			s.metrics.cacheHits.Add(1)
		} else {
			s.metrics.cacheMisses.Add(1)
		}
	}
	return result, err
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.transactionFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		writeStorageError(w, r, err, "create transaction")
		return
	}

	s.invalidate(tagTransactions)
	writeJSON(w, http.StatusCreated, transactionToJSON(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.transactionFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	t.ID = id

	if err := s.store.UpdateTransaction(r.Context(), t); err != nil {
		writeStorageError(w, r, err, "update transaction")
		return
	}

	s.invalidate(tagTransactions)
	writeJSON(w, http.StatusOK, transactionToJSON(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		writeStorageError(w, r, err, "delete transaction")
		return
	}

	s.invalidate(tagTransactions)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransactionsSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	typ, err := parseRecordType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.store.ListTransactions(r.Context(), rng, typ)
	if err != nil {
		writeStorageError(w, r, err, "summarize transactions")
		return
	}
	writeJSON(w, http.StatusOK, summaryToJSON(core.Summarize(records)))
}

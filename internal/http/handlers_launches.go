package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"financas/internal/core"
	"financas/internal/views"
)

type launchRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	CategoryID  int64           `json:"category_id"`
	Type        core.RecordType `json:"type"`
}

func launchFromRequest(req launchRequest) (core.FutureLaunch, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.FutureLaunch{}, fmt.Errorf("invalid amount: %w", err)
	}
	l := core.FutureLaunch{
		Date:        strings.TrimSpace(req.Date),
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: cents},
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Status:      core.LaunchPending,
	}
	if err := l.Validate(); err != nil {
		return core.FutureLaunch{}, err
	}
	return l, nil
}

type launchJSON struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	DateFormatted string    `json:"date_formatted"`
	Description   string    `json:"description"`
	Amount        moneyJSON `json:"amount"`
	CategoryID    int64     `json:"category_id,omitempty"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
}

func launchToJSON(l core.FutureLaunch) launchJSON {
	return launchJSON{
		ID:            l.ID,
		Date:          l.Date,
		DateFormatted: core.FormatLocalDate(l.Date),
		Description:   l.Description,
		Amount:        money(l.Amount),
		CategoryID:    l.CategoryID,
		Type:          string(l.Type),
		Status:        string(l.Status),
	}
}

type launchesResponse struct {
	Pending        []launchJSON `json:"pending"`
	Completed      []launchJSON `json:"completed"`
	Meta           pageMetaJSON `json:"meta"`
	PendingSummary summaryJSON  `json:"pending_summary"`
}

func (s *Server) handleListLaunches(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page := parsePage(r)
	size := s.parsePageSize(r)

	key := fmt.Sprintf("launches|%s|%d|%d", search, page, size)
	hit := true
	result, err := s.launchesCache.GetOrFetch(r.Context(), key, []string{tagLaunches},
		func(ctx context.Context) (views.LaunchesPage, error) {
			hit = false
			v := views.NewLaunchesView(s.store, size)
			v.State.SetSearch(search)
			v.State.SetPage(page)
			if err := v.Refresh(ctx); err != nil {
				return views.LaunchesPage{}, err
			}
			return v.Render(), nil
		})
	if err != nil {
		writeStorageError(w, r, err, "list launches")
		return
	}
	if hit {
		s.metrics.cacheHits.Add(1)
	} else {
		s.metrics.cacheMisses.Add(1)
	}

	resp := launchesResponse{
		Pending:   make([]launchJSON, 0, len(result.Pending)),
		Completed: make([]launchJSON, 0, len(result.Completed)),
		Meta: pageMetaJSON{
			Page:       result.Page,
			TotalPages: result.TotalPages,
			TotalItems: result.TotalItems,
		},
		PendingSummary: summaryToJSON(result.PendingSummary),
	}
	for _, l := range result.Pending {
		resp.Pending = append(resp.Pending, launchToJSON(l))
	}
	for _, l := range result.Completed {
		resp.Completed = append(resp.Completed, launchToJSON(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateLaunch(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, err := launchFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateFutureLaunch(r.Context(), l)
	if err != nil {
		writeStorageError(w, r, err, "create launch")
		return
	}

	s.invalidate(tagLaunches)
	writeJSON(w, http.StatusCreated, launchToJSON(created))
}

func (s *Server) handleUpdateLaunch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req launchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, err := launchFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	l.ID = id

	if err := s.store.UpdateFutureLaunch(r.Context(), l); err != nil {
		writeStorageError(w, r, err, "update launch")
		return
	}

	s.invalidate(tagLaunches)
	writeJSON(w, http.StatusOK, launchToJSON(l))
}

func (s *Server) handleDeleteLaunch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteFutureLaunch(r.Context(), id); err != nil {
		writeStorageError(w, r, err, "delete launch")
		return
	}

	s.invalidate(tagLaunches)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteLaunch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = core.ToLocalDateString(s.now())
	} else if _, err := core.ParseLocalDate(date); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}

	created, err := s.store.CompleteFutureLaunch(r.Context(), id, date)
	if err != nil {
		writeStorageError(w, r, err, "complete launch")
		return
	}

	// completion realizes a transaction, so both lists are stale
	s.invalidate(tagLaunches, tagTransactions)
	writeJSON(w, http.StatusOK, transactionToJSON(created))
}

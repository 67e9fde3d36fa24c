package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"financas/internal/core"
	"financas/internal/storage"
	"financas/internal/views"
)

type goalRequest struct {
	Title             string          `json:"title"`
	Type              core.GoalType   `json:"type"`
	Description       string          `json:"description"`
	TargetAmount      string          `json:"target_amount"`
	CurrentAmount     string          `json:"current_amount"`
	Deadline          string          `json:"deadline"`
	Status            core.GoalStatus `json:"status"`
	CategoryID        int64           `json:"category_id"`
	CardID            int64           `json:"card_id"`
	ReflectionWhy     string          `json:"reflection_why"`
	ReflectionChange  string          `json:"reflection_change"`
	ReflectionFeeling string          `json:"reflection_feeling"`
}

func (s *Server) goalFromRequest(req goalRequest) (core.Goal, error) {
	target, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		return core.Goal{}, fmt.Errorf("invalid target amount: %w", err)
	}
	var current int64
	if strings.TrimSpace(req.CurrentAmount) != "" {
		current, err = core.ParseDecimalToCents(req.CurrentAmount)
		if err != nil {
			return core.Goal{}, fmt.Errorf("invalid current amount: %w", err)
		}
	}
	status := req.Status
	if status == "" {
		status = core.GoalActive
	}
	g := core.Goal{
		Title:             strings.TrimSpace(req.Title),
		Type:              req.Type,
		Description:       strings.TrimSpace(req.Description),
		TargetAmount:      core.Money{Cents: target},
		CurrentAmount:     core.Money{Cents: current},
		Deadline:          strings.TrimSpace(req.Deadline),
		Status:            status,
		CategoryID:        req.CategoryID,
		CardID:            req.CardID,
		ReflectionWhy:     strings.TrimSpace(req.ReflectionWhy),
		ReflectionChange:  strings.TrimSpace(req.ReflectionChange),
		ReflectionFeeling: strings.TrimSpace(req.ReflectionFeeling),
		CreatedAt:         core.ToLocalDateString(s.now()),
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

type goalJSON struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Type              string    `json:"type"`
	Description       string    `json:"description"`
	TargetAmount      moneyJSON `json:"target_amount"`
	CurrentAmount     moneyJSON `json:"current_amount"`
	Deadline          string    `json:"deadline"`
	DeadlineFormatted string    `json:"deadline_formatted"`
	Status            string    `json:"status"`
	CategoryID        int64     `json:"category_id,omitempty"`
	CardID            int64     `json:"card_id,omitempty"`
	ReflectionWhy     string    `json:"reflection_why,omitempty"`
	ReflectionChange  string    `json:"reflection_change,omitempty"`
	ReflectionFeeling string    `json:"reflection_feeling,omitempty"`
	CreatedAt         string    `json:"created_at"`
}

func goalToJSON(g core.Goal) goalJSON {
	return goalJSON{
		ID:                g.ID,
		Title:             g.Title,
		Type:              string(g.Type),
		Description:       g.Description,
		TargetAmount:      money(g.TargetAmount),
		CurrentAmount:     money(g.CurrentAmount),
		Deadline:          g.Deadline,
		DeadlineFormatted: core.FormatLocalDate(g.Deadline),
		Status:            string(g.Status),
		CategoryID:        g.CategoryID,
		CardID:            g.CardID,
		ReflectionWhy:     g.ReflectionWhy,
		ReflectionChange:  g.ReflectionChange,
		ReflectionFeeling: g.ReflectionFeeling,
		CreatedAt:         g.CreatedAt,
	}
}

type goalCardJSON struct {
	Goal              goalJSON  `json:"goal"`
	Progress          float64   `json:"progress"`
	Health            string    `json:"health"`
	DaysRemaining     int       `json:"days_remaining"`
	MonthsRemaining   int       `json:"months_remaining"`
	MonthlySuggestion moneyJSON `json:"monthly_suggestion"`
}

type goalsResponse struct {
	Items []goalCardJSON `json:"items"`
	Meta  pageMetaJSON   `json:"meta"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" && !core.GoalStatus(status).Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page := parsePage(r)
	size := s.parsePageSize(r)

	key := fmt.Sprintf("goals|%s|%s|%d|%d|%s", status, search, page, size, core.ToLocalDateString(s.now()))
	hit := true
	result, err := s.goalsCache.GetOrFetch(r.Context(), key, []string{tagGoals},
		func(ctx context.Context) (views.GoalsPage, error) {
			hit = false
			v := views.NewGoalsView(s.store, size)
			v.State.SetStatus(status)
			v.State.SetSearch(search)
			v.State.SetPage(page)
			if err := v.Refresh(ctx); err != nil {
				return views.GoalsPage{}, err
			}
			return v.Render(), nil
		})
	if err != nil {
		writeStorageError(w, r, err, "list goals")
		return
	}
	if hit {
		s.metrics.cacheHits.Add(1)
	} else {
		s.metrics.cacheMisses.Add(1)
	}

	resp := goalsResponse{
		Items: make([]goalCardJSON, 0, len(result.Items)),
		Meta: pageMetaJSON{
			Page:       result.Page,
			TotalPages: result.TotalPages,
			TotalItems: result.TotalItems,
		},
	}
	for _, card := range result.Items {
		resp.Items = append(resp.Items, goalCardJSON{
			Goal:              goalToJSON(card.Goal),
			Progress:          card.Progress,
			Health:            string(card.Health),
			DaysRemaining:     card.DaysRemaining,
			MonthsRemaining:   card.MonthsRemaining,
			MonthlySuggestion: money(card.MonthlySuggestion),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.goalFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateGoal(r.Context(), g)
	if err != nil {
		writeStorageError(w, r, err, "create goal")
		return
	}

	s.invalidate(tagGoals)
	writeJSON(w, http.StatusCreated, goalToJSON(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	existing, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		writeStorageError(w, r, err, "get goal")
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.goalFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	g.ID = id
	g.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateGoal(r.Context(), g); err != nil {
		writeStorageError(w, r, err, "update goal")
		return
	}

	s.invalidate(tagGoals)
	writeJSON(w, http.StatusOK, goalToJSON(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		writeStorageError(w, r, err, "delete goal")
		return
	}

	s.invalidate(tagGoals)
	w.WriteHeader(http.StatusNoContent)
}

type checkInRequest struct {
	Date       string    `json:"date"`
	Mood       core.Mood `json:"mood"`
	Obstacles  string    `json:"obstacles"`
	AddedValue string    `json:"added_value"`
	Note       string    `json:"note"`
}

type checkInJSON struct {
	ID            int64     `json:"id"`
	GoalID        int64     `json:"goal_id"`
	Date          string    `json:"date"`
	DateFormatted string    `json:"date_formatted"`
	Mood          string    `json:"mood"`
	Obstacles     string    `json:"obstacles,omitempty"`
	AddedValue    moneyJSON `json:"added_value"`
	Note          string    `json:"note,omitempty"`
}

func checkInToJSON(c core.CheckIn) checkInJSON {
	return checkInJSON{
		ID:            c.ID,
		GoalID:        c.GoalID,
		Date:          c.Date,
		DateFormatted: core.FormatLocalDate(c.Date),
		Mood:          string(c.Mood),
		Obstacles:     c.Obstacles,
		AddedValue:    money(c.AddedValue),
		Note:          c.Note,
	}
}

func (s *Server) handleListCheckIns(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.store.GetGoal(r.Context(), id); err != nil {
		writeStorageError(w, r, err, "get goal")
		return
	}
	checkIns, err := s.store.ListCheckIns(r.Context(), id)
	if err != nil {
		writeStorageError(w, r, err, "list check-ins")
		return
	}
	out := make([]checkInJSON, 0, len(checkIns))
	for _, c := range checkIns {
		out = append(out, checkInToJSON(c))
	}
	writeJSON(w, http.StatusOK, map[string][]checkInJSON{"items": out})
}

func (s *Server) handleCreateCheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var added int64
	if strings.TrimSpace(req.AddedValue) != "" {
		added, err = core.ParseDecimalToCents(req.AddedValue)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid added value: %v", err))
			return
		}
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = core.ToLocalDateString(s.now())
	}

	checkIn := core.CheckIn{
		GoalID:     id,
		Date:       date,
		Mood:       req.Mood,
		Obstacles:  strings.TrimSpace(req.Obstacles),
		AddedValue: core.Money{Cents: added},
		Note:       strings.TrimSpace(req.Note),
	}

	created, err := s.goals.CreateCheckIn(r.Context(), checkIn)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "goal not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidate(tagGoals)
	writeJSON(w, http.StatusCreated, checkInToJSON(created))
}

package http

import (
	"net/http"
	"strings"

	"financas/internal/core"
)

type cardRequest struct {
	DisplayName string `json:"display_name"`
	Nickname    string `json:"nickname"`
	Issuer      string `json:"issuer"`
	Brand       string `json:"brand"`
	LastFour    string `json:"last_four"`
	TotalLimit  string `json:"total_limit"`
	UsedAmount  string `json:"used_amount"`
}

func cardFromRequest(req cardRequest) (core.Card, error) {
	limit, err := core.ParseDecimalToCents(req.TotalLimit)
	if err != nil {
		return core.Card{}, err
	}
	var used int64
	if strings.TrimSpace(req.UsedAmount) != "" {
		used, err = core.ParseDecimalToCents(req.UsedAmount)
		if err != nil {
			return core.Card{}, err
		}
	}
	c := core.Card{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Nickname:    strings.TrimSpace(req.Nickname),
		Issuer:      strings.TrimSpace(req.Issuer),
		Brand:       strings.TrimSpace(req.Brand),
		LastFour:    strings.TrimSpace(req.LastFour),
		TotalLimit:  core.Money{Cents: limit},
		UsedAmount:  core.Money{Cents: used},
	}
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}
	return c, nil
}

type cardJSON struct {
	ID            int64     `json:"id"`
	DisplayName   string    `json:"display_name"`
	Nickname      string    `json:"nickname"`
	Issuer        string    `json:"issuer"`
	Brand         string    `json:"brand"`
	LastFour      string    `json:"last_four"`
	TotalLimit    moneyJSON `json:"total_limit"`
	UsedAmount    moneyJSON `json:"used_amount"`
	Available     moneyJSON `json:"available"`
	UsagePercent  float64   `json:"usage_percent"`
	UsageBarWidth int       `json:"usage_bar_width"`
	IsPrimary     bool      `json:"is_primary"`
}

func cardToJSON(c core.Card) cardJSON {
	return cardJSON{
		ID:            c.ID,
		DisplayName:   c.DisplayName,
		Nickname:      c.Nickname,
		Issuer:        c.Issuer,
		Brand:         c.Brand,
		LastFour:      c.LastFour,
		TotalLimit:    money(c.TotalLimit),
		UsedAmount:    money(c.UsedAmount),
		Available:     money(c.Available()),
		UsagePercent:  c.UsagePercent(),
		UsageBarWidth: c.UsageBarWidth(),
		IsPrimary:     c.IsPrimary,
	}
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.ListCards(r.Context())
	if err != nil {
		writeStorageError(w, r, err, "list cards")
		return
	}
	out := make([]cardJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToJSON(c))
	}
	writeJSON(w, http.StatusOK, map[string][]cardJSON{"items": out})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := cardFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateCard(r.Context(), c)
	if err != nil {
		writeStorageError(w, r, err, "create card")
		return
	}

	s.invalidate(tagCards)
	writeJSON(w, http.StatusCreated, cardToJSON(created))
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := cardFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.ID = id

	if err := s.store.UpdateCard(r.Context(), c); err != nil {
		writeStorageError(w, r, err, "update card")
		return
	}

	s.invalidate(tagCards)
	writeJSON(w, http.StatusOK, cardToJSON(c))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteCard(r.Context(), id); err != nil {
		writeStorageError(w, r, err, "delete card")
		return
	}

	s.invalidate(tagCards)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPrimaryCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SetPrimaryCard(r.Context(), id); err != nil {
		writeStorageError(w, r, err, "set primary card")
		return
	}

	s.invalidate(tagCards)
	w.WriteHeader(http.StatusNoContent)
}

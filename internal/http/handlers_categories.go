package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"financas/internal/core"
	"financas/internal/views"
)

type categoryRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        core.RecordType `json:"type"`
	Color       string          `json:"color"`
}

func categoryFromRequest(req categoryRequest) (core.Category, error) {
	c := core.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
		Color:       strings.TrimSpace(req.Color),
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

type categoryJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Color       string `json:"color"`
}

func categoryToJSON(c core.Category) categoryJSON {
	return categoryJSON{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        string(c.Type),
		Color:       c.Color,
	}
}

type categoriesResponse struct {
	Income  []categoryJSON `json:"income"`
	Expense []categoryJSON `json:"expense"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	key := fmt.Sprintf("categories|%s", search)
	hit := true
	result, err := s.categoriesCache.GetOrFetch(r.Context(), key, []string{tagCategories},
		func(ctx context.Context) (views.CategoriesPage, error) {
			hit = false
			v := views.NewCategoriesView(s.store, s.pageSize)
			v.State.SetSearch(search)
			if err := v.Refresh(ctx); err != nil {
				return views.CategoriesPage{}, err
			}
			return v.Render(), nil
		})
	if err != nil {
		writeStorageError(w, r, err, "list categories")
		return
	}
	if hit {
		s.metrics.cacheHits.Add(1)
	} else {
		s.metrics.cacheMisses.Add(1)
	}

	resp := categoriesResponse{
		Income:  make([]categoryJSON, 0, len(result.Income)),
		Expense: make([]categoryJSON, 0, len(result.Expense)),
	}
	for _, c := range result.Income {
		resp.Income = append(resp.Income, categoryToJSON(c))
	}
	for _, c := range result.Expense {
		resp.Expense = append(resp.Expense, categoryToJSON(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := categoryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateCategory(r.Context(), c)
	if err != nil {
		writeStorageError(w, r, err, "create category")
		return
	}

	s.invalidate(tagCategories)
	writeJSON(w, http.StatusCreated, categoryToJSON(created))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := categoryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.ID = id

	if err := s.store.UpdateCategory(r.Context(), c); err != nil {
		writeStorageError(w, r, err, "update category")
		return
	}

	s.invalidate(tagCategories)
	writeJSON(w, http.StatusOK, categoryToJSON(c))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		writeStorageError(w, r, err, "delete category")
		return
	}

	// transactions keep pointing at the removed category as uncategorized,
	// so their cached pages are stale too
	s.invalidate(tagCategories, tagTransactions)
	w.WriteHeader(http.StatusNoContent)
}

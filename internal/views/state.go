package views

import "financas/internal/core"

// PageState holds the list controls shared by every paginated view.
// Changing any filter snaps back to the first page; moving between
// pages leaves the filters alone.
type PageState struct {
	page         int
	pageSize     int
	search       string
	typeFilter   core.RecordType
	statusFilter string
	rng          core.DateRange
}

func NewPageState(pageSize int) PageState {
	if pageSize <= 0 {
		pageSize = 10
	}
	return PageState{page: 1, pageSize: pageSize}
}

func (s *PageState) Page() int             { return s.page }
func (s *PageState) PageSize() int         { return s.pageSize }
func (s *PageState) Search() string        { return s.search }
func (s *PageState) Type() core.RecordType { return s.typeFilter }
func (s *PageState) Status() string        { return s.statusFilter }
func (s *PageState) Range() core.DateRange { return s.rng }

func (s *PageState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

func (s *PageState) SetSearch(term string) {
	if s.search == term {
		return
	}
	s.search = term
	s.page = 1
}

func (s *PageState) SetType(t core.RecordType) {
	if s.typeFilter == t {
		return
	}
	s.typeFilter = t
	s.page = 1
}

func (s *PageState) SetStatus(status string) {
	if s.statusFilter == status {
		return
	}
	s.statusFilter = status
	s.page = 1
}

func (s *PageState) SetRange(rng core.DateRange) {
	if s.rng == rng {
		return
	}
	s.rng = rng
	s.page = 1
}

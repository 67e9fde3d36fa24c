package http

import (
	"net/http"
	"time"
)

type reportExportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// handleExportReport queues a monthly spreadsheet export. The heavy
// lifting happens in the worker, so the endpoint answers 202 as soon
// as the message is on the wire.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report export is not configured")
		return
	}

	var req reportExportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusUnprocessableEntity, "month must be between 1 and 12")
		return
	}
	if req.Year < 2000 || req.Year > time.Now().Year()+1 {
		writeError(w, http.StatusUnprocessableEntity, "year out of range")
		return
	}

	if err := s.reports.PublishReportExport(r.Context(), req.Year, req.Month); err != nil {
		writeError(w, http.StatusServiceUnavailable, "could not queue report export")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

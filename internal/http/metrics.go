package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// metrics holds plain request counters, exposed as text on /metrics.
type metrics struct {
	requestsTotal atomic.Int64
	responses2xx  atomic.Int64
	responses4xx  atomic.Int64
	responses5xx  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
}

func newMetrics() *metrics {
	return &metrics{}
}

func (m *metrics) record(statusCode int) {
	m.requestsTotal.Add(1)
	switch {
	case statusCode >= 500:
		m.responses5xx.Add(1)
	case statusCode >= 400:
		m.responses4xx.Add(1)
	default:
		m.responses2xx.Add(1)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "http_requests_total %d\n", s.metrics.requestsTotal.Load())
	fmt.Fprintf(w, "http_responses_2xx_total %d\n", s.metrics.responses2xx.Load())
	fmt.Fprintf(w, "http_responses_4xx_total %d\n", s.metrics.responses4xx.Load())
	fmt.Fprintf(w, "http_responses_5xx_total %d\n", s.metrics.responses5xx.Load())
	fmt.Fprintf(w, "cache_hits_total %d\n", s.metrics.cacheHits.Load())
	fmt.Fprintf(w, "cache_misses_total %d\n", s.metrics.cacheMisses.Load())
	fmt.Fprintf(w, "cache_entries %d\n", s.cacheSize())
}

func (s *Server) cacheSize() int {
	return s.transactionsCache.Size() +
		s.goalsCache.Size() +
		s.launchesCache.Size() +
		s.categoriesCache.Size() +
		s.dashboardCache.Size()
}

package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"financas/internal/cache"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/views"
)

// Store is everything the HTTP layer needs from storage.
type Store interface {
	ListTransactions(ctx context.Context, rng core.DateRange, typ core.RecordType) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	RangeTotals(ctx context.Context, rng core.DateRange) (income, expense int64, err error)
	CategoryBreakdown(ctx context.Context, rng core.DateRange, typ core.RecordType) ([]core.CategorySum, error)

	ListCategories(ctx context.Context, typ core.RecordType) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListCards(ctx context.Context) ([]core.Card, error)
	CreateCard(ctx context.Context, c core.Card) (core.Card, error)
	UpdateCard(ctx context.Context, c core.Card) error
	DeleteCard(ctx context.Context, id int64) error
	SetPrimaryCard(ctx context.Context, id int64) error

	ListGoals(ctx context.Context, status core.GoalStatus) ([]core.Goal, error)
	GetGoal(ctx context.Context, id int64) (core.Goal, error)
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, id int64) error
	ListCheckIns(ctx context.Context, goalID int64) ([]core.CheckIn, error)

	ListFutureLaunches(ctx context.Context, status core.LaunchStatus) ([]core.FutureLaunch, error)
	CreateFutureLaunch(ctx context.Context, l core.FutureLaunch) (core.FutureLaunch, error)
	UpdateFutureLaunch(ctx context.Context, l core.FutureLaunch) error
	DeleteFutureLaunch(ctx context.Context, id int64) error
	CompleteFutureLaunch(ctx context.Context, id int64, date string) (core.Transaction, error)
}

// ReportPublisher triggers an async month export.
type ReportPublisher interface {
	PublishReportExport(ctx context.Context, year, month int) error
}

// Cache tags, one per entity kind. Mutations invalidate their own tag
// so list and dashboard responses derived from those rows are dropped.
const (
	tagTransactions = "transactions"
	tagCategories   = "categories"
	tagCards        = "cards"
	tagGoals        = "goals"
	tagLaunches     = "launches"
)

type Server struct {
	http.Server

	store     Store
	goals     *services.GoalService
	reports   ReportPublisher
	now       func() time.Time
	pageSize  int
	rangeDays int

	rateLimiter *rateLimiter
	metrics     *metrics

	transactionsCache *cache.Store[views.TransactionsPage]
	goalsCache        *cache.Store[views.GoalsPage]
	launchesCache     *cache.Store[views.LaunchesPage]
	categoriesCache   *cache.Store[views.CategoriesPage]
	dashboardCache    *cache.Store[dashboardResponse]
	cacheManager      *cache.Manager

	shutdownOnce sync.Once
}

type Options struct {
	Addr      string
	PageSize  int
	RangeDays int
	CacheSize int
	CacheTTL  time.Duration
}

// NewServer configures routes and caches, returning a ready-to-run
// server.
func NewServer(opts Options, store Store, goals *services.GoalService, reports ReportPublisher) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.RangeDays <= 0 {
		opts.RangeDays = 30
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 200
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		store:     store,
		goals:     goals,
		reports:   reports,
		now:       time.Now,
		pageSize:  opts.PageSize,
		rangeDays: opts.RangeDays,

		rateLimiter: newRateLimiter(),
		metrics:     newMetrics(),

		transactionsCache: cache.New[views.TransactionsPage](opts.CacheSize, opts.CacheTTL),
		goalsCache:        cache.New[views.GoalsPage](opts.CacheSize, opts.CacheTTL),
		launchesCache:     cache.New[views.LaunchesPage](opts.CacheSize, opts.CacheTTL),
		categoriesCache:   cache.New[views.CategoriesPage](opts.CacheSize, opts.CacheTTL),
		dashboardCache:    cache.New[dashboardResponse](opts.CacheSize, opts.CacheTTL),
		cacheManager:      cache.NewManager(),
	}

	s.cacheManager.Register(s.transactionsCache)
	s.cacheManager.Register(s.goalsCache)
	s.cacheManager.Register(s.launchesCache)
	s.cacheManager.Register(s.categoriesCache)
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/transactions/summary", s.withMiddleware(s.handleTransactionsSummary))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withMiddleware(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/cards", s.withMiddleware(s.handleListCards))
	mux.HandleFunc("POST /api/cards", s.withMiddleware(s.handleCreateCard))
	mux.HandleFunc("PUT /api/cards/{id}", s.withMiddleware(s.handleUpdateCard))
	mux.HandleFunc("DELETE /api/cards/{id}", s.withMiddleware(s.handleDeleteCard))
	mux.HandleFunc("POST /api/cards/{id}/primary", s.withMiddleware(s.handleSetPrimaryCard))

	mux.HandleFunc("GET /api/goals", s.withMiddleware(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.withMiddleware(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.withMiddleware(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withMiddleware(s.handleDeleteGoal))
	mux.HandleFunc("GET /api/goals/{id}/checkins", s.withMiddleware(s.handleListCheckIns))
	mux.HandleFunc("POST /api/goals/{id}/checkins", s.withMiddleware(s.handleCreateCheckIn))

	mux.HandleFunc("GET /api/launches", s.withMiddleware(s.handleListLaunches))
	mux.HandleFunc("POST /api/launches", s.withMiddleware(s.handleCreateLaunch))
	mux.HandleFunc("PUT /api/launches/{id}", s.withMiddleware(s.handleUpdateLaunch))
	mux.HandleFunc("DELETE /api/launches/{id}", s.withMiddleware(s.handleDeleteLaunch))
	mux.HandleFunc("POST /api/launches/{id}/complete", s.withMiddleware(s.handleCompleteLaunch))

	mux.HandleFunc("GET /api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("POST /api/reports/export", s.withMiddleware(s.handleExportReport))

	return s
}

// Shutdown stops the cleanup goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request IDs, security headers, rate limiting on
// mutations, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.metrics.record(rw.statusCode)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

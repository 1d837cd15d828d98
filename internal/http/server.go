// Package http serves the ledger, its derived views and reports over a
// JSON API scoped to the caller identified by the X-User-ID header.
package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"cassa/internal/analytics"
	"cassa/internal/cache"
	"cassa/internal/ledger"
	applog "cassa/internal/log"
	"cassa/internal/metrics"
	"cassa/internal/middleware/ratelimit"
	"cassa/internal/middleware/security"
	"cassa/internal/middleware/trace"
)

const (
	maxBodyBytes = 1 << 20

	defaultCacheSize = 500
	defaultCacheTTL  = 5 * time.Minute
)

type Options struct {
	Addr   string
	Store  *ledger.Store
	Logger *applog.Logger

	// Ready backs /readyz; nil means always ready.
	Ready func(context.Context) error

	CacheSize          int
	CacheTTL           time.Duration
	RateLimitPerMinute int

	// Metrics defaults to a fresh registry.
	Metrics *metrics.Metrics

	// Now is the clock for edit windows, views and report dates.
	Now func() time.Time
}

type Server struct {
	http.Server
	store    *ledger.Store
	logger   *applog.Logger
	ready    func(context.Context) error
	now      func() time.Time
	detector *security.Detector
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics

	dashboards  *cache.LRU[analytics.DashboardView]
	months      *cache.LRU[analytics.MonthView]
	generations *cache.Generations

	stopJanitor  context.CancelFunc
	shutdownOnce sync.Once
}

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}

	logger := opts.Logger.WithComponent(applog.ComponentHTTP)
	s := &Server{
		store:    opts.Store,
		logger:   logger,
		ready:    opts.Ready,
		now:      opts.Now,
		detector: security.NewDetector(),
		metrics:  opts.Metrics,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			Methods:           ratelimit.MutatingMethods,
		}),
		dashboards:  cache.NewLRU[analytics.DashboardView](opts.CacheSize, opts.CacheTTL),
		months:      cache.NewLRU[analytics.MonthView](opts.CacheSize, opts.CacheTTL),
		generations: cache.NewGenerations(),
	}

	janitorCtx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	janitor := cache.NewJanitor(logger.WithComponent(applog.ComponentCache).Logger, s.dashboards, s.months)
	go janitor.Run(janitorCtx, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.Handle("GET /api/transactions", s.withOwner(s.handleListTransactions))
	mux.Handle("POST /api/transactions", s.withOwner(s.handleCreateTransaction))
	mux.Handle("DELETE /api/transactions", s.withOwner(s.handlePurgeTransactions))
	mux.Handle("GET /api/transactions/{id}", s.withOwner(s.handleGetTransaction))
	mux.Handle("PATCH /api/transactions/{id}", s.withOwner(s.handleUpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", s.withOwner(s.handleDeleteTransaction))
	mux.Handle("POST /api/sample-data", s.withOwner(s.handleSampleData))

	mux.Handle("GET /api/dashboard", s.withOwner(s.handleDashboard))
	mux.Handle("GET /api/analytics", s.withOwner(s.handleAnalytics))
	mux.Handle("GET /api/categories", s.withOwner(s.handleCategories))

	mux.Handle("GET /api/reports", s.withOwner(s.handleReport))
	mux.Handle("GET /api/reports/export.csv", s.withOwner(s.handleExportCSV))
	mux.Handle("GET /api/reports/print", s.withOwner(s.handlePrint))

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ClientIP, s.handleRateLimited)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = s.detector.Middleware(logger.WithComponent(applog.ComponentSecurity).Logger)(handler)
	handler = s.metrics.Middleware(handler)
	handler = trace.Middleware(logger, s.detector.ClientIP)(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the background goroutines and then the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.stopJanitor()
		s.limiter.Stop()
	})
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).Warn("Readiness check failed", applog.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).Warn("Rate limit exceeded", applog.FieldClientIP, s.detector.ClientIP(r))
	writeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded, try again later"))
}

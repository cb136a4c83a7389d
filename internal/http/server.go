// Package http exposes the finance service as a JSON API. Every /api route is
// scoped to the user named by the X-User-ID header.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Config tunes the server. Zero values fall back to defaults.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	ReportCacheSize    int
	ReportCacheTTL     time.Duration
}

type Server struct {
	http.Server
	svc      *services.FinanceService
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	logs     *applog.StructuredLogger

	// Report responses per (user, period). Alerts are evaluated fresh on
	// every request and never go through here.
	reportCache  *cache.LRUCache[core.Report]
	cacheManager *cache.Manager

	mutations    int64
	shutdownOnce sync.Once
}

func NewServer(cfg Config, svc *services.FinanceService) *Server {
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 60
	}
	if cfg.ReportCacheSize <= 0 {
		cfg.ReportCacheSize = 256
	}
	if cfg.ReportCacheTTL <= 0 {
		cfg.ReportCacheTTL = 5 * time.Minute
	}

	detector := security.NewDetector()
	logger := applog.New(applog.DefaultConfig())
	s := &Server{
		svc:      svc,
		detector: detector,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
		tracer:       trace.NewMiddleware(detector.ExtractClientIP),
		logs:         applog.NewStructuredLogger(logger),
		reportCache:  cache.NewLRUCache[core.Report](cfg.ReportCacheSize, cfg.ReportCacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/categories", s.withUser(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withUser(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withUser(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withUser(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/transactions", s.withUser(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withUser(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withUser(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withUser(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/goals", s.withUser(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.withUser(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.withUser(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withUser(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/toggle", s.withUser(s.handleToggleGoal))

	mux.HandleFunc("GET /api/limits", s.withUser(s.handleListLimits))
	mux.HandleFunc("POST /api/limits", s.withUser(s.handleCreateLimit))
	mux.HandleFunc("PUT /api/limits/{id}", s.withUser(s.handleUpdateLimit))
	mux.HandleFunc("DELETE /api/limits/{id}", s.withUser(s.handleDeleteLimit))

	mux.HandleFunc("GET /api/alerts", s.withUser(s.handleAlerts))
	mux.HandleFunc("GET /api/reports", s.withUser(s.handleReport))
	mux.HandleFunc("GET /api/dashboard", s.withUser(s.handleDashboard))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	handler = s.rateLimitMutations(detector.ExtractClientIP)(handler)
	handler = s.flagSuspicious(handler)
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// rateLimitMutations throttles writes per client IP. Reads stay unthrottled.
func (s *Server) rateLimitMutations(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
				if !s.limiter.Allow(extractIP(r)) {
					w.Header().Set("Retry-After", "60")
					writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// flagSuspicious counts and logs requests that look like scans. They are
// served anyway; the counters surface on /metrics.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			s.logs.LogSuspiciousRequest(r.Context(), r, s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// withUser requires the X-User-ID header and passes it to the handler.
func (s *Server) withUser(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			writeError(w, r, http.StatusUnauthorized, "missing X-User-ID header")
			return
		}
		next(w, r, userID)
	}
}

// completeMutation logs the write and drops every cached report for the user.
func (s *Server) completeMutation(ctx context.Context, userID, kind, id, operation string) {
	s.logs.LogMutation(ctx, userID, kind, id, operation)
	atomic.AddInt64(&s.mutations, 1)
	s.reportCache.DeletePrefix(userID + ":")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	rateMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"totalRequests":      traceMetrics.TotalRequests,
		"avgResponseTimeUs":  traceMetrics.AverageResponseTime,
		"mutations":          atomic.LoadInt64(&s.mutations),
		"reportCacheEntries": s.reportCache.Size(),
		"rateLimitHits":      rateMetrics.TotalHits,
		"rateLimitedClients": rateMetrics.ClientCount,
		"suspiciousRequests": securityMetrics.SuspiciousRequests,
		"invalidIPAttempts":  securityMetrics.InvalidIPAttempts,
	})
}

// Shutdown stops background cleanup and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

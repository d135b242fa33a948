package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"rentbook/internal/backend"
	"rentbook/internal/cache"
	"rentbook/internal/core"
	"rentbook/internal/middleware/ratelimit"
	"rentbook/internal/middleware/security"
	"rentbook/internal/middleware/trace"
)

// Server is the JSON API over the rent ledger.
type Server struct {
	http.Server

	backend backend.Backend

	detector    *security.Detector
	headers     *security.HeadersMiddleware
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	// Derived ledger views are cheap to recompute but hot on the
	// dashboard, so they get a short TTL cache. Any write clears both.
	summaryCache *cache.LRUCache[core.DashboardSummary]
	historyCache *cache.LRUCache[core.TenantHistory]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, b backend.Backend) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()
	s := &Server{
		backend:      b,
		detector:     detector,
		headers:      security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:       trace.NewMiddleware(detector.ExtractClientIP),
		summaryCache: cache.NewLRUCache[core.DashboardSummary](10, 1*time.Minute),
		historyCache: cache.NewLRUCache[core.TenantHistory](200, 1*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.historyCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /tenants", s.handleCreateTenant)
	mux.HandleFunc("GET /tenants", s.handleListTenants)
	mux.HandleFunc("POST /payments", s.handleRecordPayment)
	mux.HandleFunc("GET /dashboard-summary", s.handleDashboardSummary)
	mux.HandleFunc("GET /tenants/{id}/history", s.handleTenantHistory)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.buildMiddleware(mux),
	}

	return s
}

// buildMiddleware wraps the mux with security checks, rate limiting and
// tracing, outermost first.
func (s *Server) buildMiddleware(next http.Handler) http.Handler {
	handler := next

	handler = s.rateLimiter.Middleware(s.detector.ExtractClientIP, nil)(handler)
	handler = s.suspiciousRequestFilter(handler)
	handler = s.headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	return handler
}

func (s *Server) suspiciousRequestFilter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request blocked",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateCaches drops every derived view after a write.
func (s *Server) invalidateCaches() {
	s.summaryCache.Clear()
	s.historyCache.Clear()
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

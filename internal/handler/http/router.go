package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/ReviewAnalyzer/internal/service"
	"github.com/utafrali/ReviewAnalyzer/pkg/health"
	"github.com/utafrali/ReviewAnalyzer/pkg/middleware"
)

// RouterOptions holds the optional parts of the HTTP surface.
type RouterOptions struct {
	ServiceName string
	CORS        middleware.CORSConfig

	// RateLimiter throttles submissions per client IP. Nil disables it.
	RateLimiter *middleware.RateLimiter

	// PprofAllowedCIDRs enables /debug/pprof for the given networks.
	PprofAllowedCIDRs []string

	// RequestTimeout bounds each request. Zero means 30s.
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with all review analyzer routes registered.
// Operational endpoints are matched on exact paths; every other path is
// served by the review handlers.
func NewRouter(
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	opts RouterOptions,
) http.Handler {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(opts.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Timeout(opts.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(opts.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(opts.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Pprof debug endpoints with IP allowlist.
	if len(opts.PprofAllowedCIDRs) > 0 {
		middleware.RegisterPprof(r, opts.PprofAllowedCIDRs, logger)
	}

	// Review endpoints on every other path.
	reviewHandler := NewReviewHandler(reviewService, logger)

	r.Get("/*", reviewHandler.ListReviews)
	if opts.RateLimiter != nil {
		r.With(opts.RateLimiter.Handler).Post("/*", reviewHandler.CreateReview)
	} else {
		r.Post("/*", reviewHandler.CreateReview)
	}
	r.MethodNotAllowed(reviewHandler.MethodNotAllowed)

	return r
}

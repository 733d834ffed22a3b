package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	apperrors "github.com/utafrali/ReviewAnalyzer/pkg/errors"
	"github.com/utafrali/ReviewAnalyzer/pkg/httputil"
)

const defaultVisitorTTL = 3 * time.Minute

// visitor tracks a rate limiter per client IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-IP token bucket. Stale visitors are evicted by
// Run, which the owner starts once and stops by cancelling its context.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger

	trustProxyHeaders bool
}

// RateLimitOption configures a RateLimiter.
type RateLimitOption func(*RateLimiter)

// WithRateLimitClock sets the clock used for token accounting and eviction.
func WithRateLimitClock(c clockwork.Clock) RateLimitOption {
	return func(rl *RateLimiter) { rl.clock = c }
}

// WithVisitorTTL sets how long an idle client is remembered.
func WithVisitorTTL(d time.Duration) RateLimitOption {
	return func(rl *RateLimiter) { rl.ttl = d }
}

// WithTrustedProxyHeaders keys clients on X-Forwarded-For and X-Real-IP
// instead of the connection address. Enable it only when every request passes
// through a proxy that sets those headers, otherwise clients can pick their
// own key.
func WithTrustedProxyHeaders(trust bool) RateLimitOption {
	return func(rl *RateLimiter) { rl.trustProxyHeaders = trust }
}

// NewRateLimiter creates a limiter allowing rps requests per second per client
// with the given burst.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger, opts ...RateLimitOption) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      defaultVisitorTTL,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Handler returns middleware that rejects requests over the limit with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, rl.trustProxyHeaders)
		now := rl.clock.Now()
		limiter := rl.visitor(ip, now)

		if !limiter.AllowN(now, 1) {
			rl.logger.WarnContext(r.Context(), "rate limit exceeded",
				slog.String("ip", ip),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			httputil.WriteError(w, r, apperrors.TooManyRequests(), rl.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Run evicts idle visitors every TTL until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := rl.clock.NewTicker(rl.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			rl.cleanup()
		}
	}
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

func (rl *RateLimiter) visitor(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) retryAfter() int {
	if rl.limit <= 0 {
		return 1
	}
	return int(math.Max(1, math.Ceil(1/float64(rl.limit))))
}

// clientIP extracts the client IP address from the request. With
// trustHeaders it checks X-Forwarded-For and X-Real-IP before falling back to
// RemoteAddr.
func clientIP(r *http.Request, trustHeaders bool) string {
	if !trustHeaders {
		return remoteHost(r)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String()
		}
	}

	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

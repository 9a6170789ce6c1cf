package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rahats/school/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTimeout     = time.Hour
)

// ipLimiterEntry holds a rate limiter and its last access time for cleanup.
type ipLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// LoginRateLimiter enforces per-IP token buckets on the unauthenticated login endpoint.
// It complements the per-identifier throttle of the login use case: the throttle
// protects a single account, this protects the endpoint from one client spraying
// many identifiers.
type LoginRateLimiter struct {
	limiters sync.Map // client IP -> *ipLimiterEntry
	rps      float64
	burst    int
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewLoginRateLimiter creates the limiter and starts its stale-entry cleanup loop.
// Call Stop to release it.
func NewLoginRateLimiter(rps float64, burst int, logger *slog.Logger) *LoginRateLimiter {
	ctx, cancel := context.WithCancel(context.Background())
	l := &LoginRateLimiter{
		rps:    rps,
		burst:  burst,
		logger: logger,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go l.cleanupStale(ctx, limiterCleanupInterval)
	return l
}

// Middleware returns the gin handler. Uses c.ClientIP(), which honors the trusted
// proxy headers configured on the engine.
func (l *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := l.getLimiter(clientIP)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
			reservation.Cancel()

			l.logger.Debug("login rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many login requests from this IP, please retry after the specified delay",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Stop ends the cleanup loop and waits for it to exit.
func (l *LoginRateLimiter) Stop() {
	l.cancel()
	<-l.done
}

// Len returns the number of tracked client IPs.
func (l *LoginRateLimiter) Len() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (l *LoginRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now()
	if val, ok := l.limiters.Load(ip); ok {
		entry := val.(*ipLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &ipLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastAccess: now,
	}
	actual, _ := l.limiters.LoadOrStore(ip, entry)
	return actual.(*ipLimiterEntry).limiter
}

func (l *LoginRateLimiter) cleanupStale(ctx context.Context, interval time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.prune(time.Now().Add(-limiterIdleTimeout))
		}
	}
}

// prune removes limiters not accessed since threshold.
func (l *LoginRateLimiter) prune(threshold time.Time) {
	l.limiters.Range(func(key, value any) bool {
		entry := value.(*ipLimiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			l.limiters.Delete(key)
		}
		return true
	})
}

package security

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter kept in Redis, shared by
// every instance behind the same Redis.
type RateLimiter struct {
	redis  redis.Cmdable
	limit  int64
	window time.Duration
	logger *slog.Logger
}

func NewRateLimiter(client redis.Cmdable, limit int, window time.Duration, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{redis: client, limit: int64(limit), window: window, logger: logger}
}

// Allow counts one hit for key and reports whether it is within the limit.
// Every hit sets the window if the key has none.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	var count *redis.IntCmd
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, r.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("count request: %w", err)
	}
	return count.Val() <= r.limit, nil
}

// Middleware limits each client IP per scope. Requests pass when Redis is
// unavailable.
func (r *RateLimiter) Middleware(scope string) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := fmt.Sprintf("ratelimit:%s:%s", scope, clientIP(e))

		ok, err := r.Allow(e.Request.Context(), key)
		if err != nil {
			r.logger.Warn("Rate limiter unavailable", "scope", scope, "error", err)
			return e.Next()
		}
		if !ok {
			return apis.NewTooManyRequestsError("Too many requests. Please try again later.", nil)
		}
		return e.Next()
	}
}

var suspiciousAgents = []string{"bot", "crawler", "spider", "scraper", "curl", "python-requests"}

// AntiBot rejects submissions from empty or automated user agents.
func AntiBot(e *core.RequestEvent) error {
	if isSuspiciousUserAgent(e.Request.Header.Get("User-Agent")) {
		return apis.NewForbiddenError("Access denied", nil)
	}
	return e.Next()
}

func isSuspiciousUserAgent(ua string) bool {
	ua = strings.ToLower(strings.TrimSpace(ua))
	if ua == "" {
		return true
	}
	for _, pattern := range suspiciousAgents {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}

func clientIP(e *core.RequestEvent) string {
	if e.App != nil {
		return e.RealIP()
	}
	return e.RemoteIP()
}

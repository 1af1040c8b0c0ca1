package middleware

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"blog_api/internal/common"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter keyed per client IP, backed by
// Redis so the window is shared across process instances. Redis being down
// fails open: losing the limiter must not take logins down with it.
type RateLimiter struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	timeout time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:  client,
		limit:   limit,
		window:  window,
		timeout: 250 * time.Millisecond,
	}
}

// Handler limits requests per client IP. A nil limiter or non-positive
// limit disables limiting entirely.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl == nil || rl.client == nil || rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !rl.allow(clientIP(r)) {
			common.RespondError(w, http.StatusTooManyRequests, "Too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	redisKey := "blog_api:ratelimit:" + key
	counter, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		log.Printf("rate limiter incr error: %v", err)
		return true
	}
	if counter == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			log.Printf("rate limiter expire error: %v", err)
		}
	}
	return int(counter) <= rl.limit
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from the forwarding
	// headers before this runs.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Package middleware provides the HTTP middleware used by the API.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/wardrobe/pkg/logger"
	"github.com/shashiranjanraj/wardrobe/pkg/response"
)

// RateStore counts hits per key inside fixed windows.
type RateStore interface {
	// Hit records one request for key and returns the count in the current
	// window and when that window resets.
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// ─── In-process store ────────────────────────────────────────────────────────

type bucket struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in process memory. Suitable for a single instance.
type MemoryStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*bucket), now: time.Now}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.After(s.nextSweep) {
		for k, b := range s.buckets {
			if now.After(b.resetAt) {
				delete(s.buckets, k)
			}
		}
		s.nextSweep = now.Add(window)
	}

	b, ok := s.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, b.resetAt, nil
}

// ─── Redis store ─────────────────────────────────────────────────────────────

// RedisStore shares windows between instances through INCR + PEXPIRE.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "wardrobe:ratelimit:"}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	k := s.prefix + key

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	ttl, err := s.client.PTTL(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	// A fresh key, or one whose expiry was lost, starts a new window.
	if count == 1 || ttl < 0 {
		if err := s.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		ttl = window
	}
	return int(count), time.Now().Add(ttl), nil
}

// ─── Middleware ──────────────────────────────────────────────────────────────

// RateLimit limits each client IP to max requests per window. Store errors
// fail open so a cache outage does not take the API down.
func RateLimit(store RateStore, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count, resetAt, err := store.Hit(r.Context(), ClientIP(r), window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limit store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if count > max {
				retry := int(time.Until(resetAt).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				response.Error(w, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-Ip, or the remote
// address without its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

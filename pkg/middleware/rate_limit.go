package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	apperrors "clinicbook/pkg/errors"
	httputil "clinicbook/pkg/http"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/sanitizer"
)

const rateLimiterCapacity = 10_000

// KeyFunc picks the identity a request is throttled by. An empty key is
// never limited.
type KeyFunc func(r *http.Request) string

// RateLimiter gives every key a token bucket of `requests` per `window`.
// Buckets are evicted one window after creation, when they would be full
// again anyway.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	key      KeyFunc
	log      *logger.Logger
}

func NewRateLimiter(requests int, window time.Duration, key KeyFunc, log *logger.Logger) *RateLimiter {
	if key == nil {
		key = PhoneOrAddress
	}
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](rateLimiterCapacity, nil, window),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		key:      key,
		log:      log,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	rl.mu.Lock()
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// RateLimit throttles requests that carry a body; reads pass freely.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !carriesBody(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := rl.key(r)
			if !rl.Allow(key) {
				rl.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r.Context()),
					"key", key,
					"path", r.URL.Path,
				)
				_ = httputil.WriteError(w, apperrors.RateLimited("Too many requests, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PhoneOrAddress keys a JSON body by its normalised "phone" member and
// otherwise by the client address. The body is handed on unchanged.
func PhoneOrAddress(r *http.Request) string {
	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), failingReader{err}))
		} else {
			r.Body = io.NopCloser(bytes.NewReader(body))

			var payload struct {
				Phone string `json:"phone"`
			}
			if json.Unmarshal(body, &payload) == nil && strings.TrimSpace(payload.Phone) != "" {
				return "phone:" + sanitizer.NormalizePhone(payload.Phone)
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

// failingReader replays a read error, so a body that exceeded its size limit
// still fails downstream.
type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

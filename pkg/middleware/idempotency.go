package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"clinicbook/pkg/logger"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"

	idempotencyCapacity = 10_000
)

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

type IdempotencyStore interface {
	Get(key string) (*CachedResponse, bool)
	Set(key string, response *CachedResponse)
}

// LRUIdempotencyStore keeps responses for ttl after they were stored.
type LRUIdempotencyStore struct {
	cache *expirable.LRU[string, *CachedResponse]
}

func NewLRUIdempotencyStore(ttl time.Duration) *LRUIdempotencyStore {
	return &LRUIdempotencyStore{
		cache: expirable.NewLRU[string, *CachedResponse](idempotencyCapacity, nil, ttl),
	}
}

func (s *LRUIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	return s.cache.Get(key)
}

func (s *LRUIdempotencyStore) Set(key string, response *CachedResponse) {
	s.cache.Add(key, response)
}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a write is retried with the
// same Idempotency-Key. Only 2xx responses are stored, so a rejected booking
// can be corrected and resent under the same key.
func Idempotency(store IdempotencyStore, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" || !carriesBody(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			key = r.Method + " " + r.URL.Path + " " + key

			if cached, ok := store.Get(key); ok {
				log.Info("Replaying idempotent response",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"status", cached.StatusCode,
				)
				replay(w, cached)
				return
			}

			capture := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(capture, r)

			if capture.statusCode >= 200 && capture.statusCode < 300 {
				store.Set(key, &CachedResponse{
					StatusCode: capture.statusCode,
					Headers:    w.Header().Clone(),
					Body:       capture.body.Bytes(),
				})
			}
		})
	}
}

func replay(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		if key == RequestIDHeader {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "clinicbook/pkg/errors"
	httputil "clinicbook/pkg/http"
)

// deadlineWriter forwards writes until the deadline response has been sent.
// The handler goroutine sets headers on its own map; they reach the real
// writer only when the response starts.
type deadlineWriter struct {
	w       http.ResponseWriter
	header  http.Header
	mu      sync.Mutex
	expired bool
	started bool
}

func newDeadlineWriter(w http.ResponseWriter) *deadlineWriter {
	return &deadlineWriter{w: w, header: make(http.Header)}
}

func (dw *deadlineWriter) Header() http.Header {
	return dw.header
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.expired || dw.started {
		return
	}
	dw.start()
	dw.w.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	if !dw.started {
		dw.start()
	}
	return dw.w.Write(b)
}

// start copies the handler's headers across. mu must be held.
func (dw *deadlineWriter) start() {
	dst := dw.w.Header()
	for k, v := range dw.header {
		dst[k] = append([]string(nil), v...)
	}
	dw.started = true
}

// finish flushes headers of a handler that returned without writing.
func (dw *deadlineWriter) finish() {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if !dw.expired && !dw.started {
		dw.start()
	}
}

// expire answers with a TIMEOUT error unless the handler already started
// its own response.
func (dw *deadlineWriter) expire() {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	dw.expired = true
	if !dw.started {
		_ = httputil.WriteError(dw.w, apperrors.Timeout("Request timeout"))
	}
}

// RequestTimeout bounds handler time. Panics in the handler are re-raised on
// the serving goroutine so Recovery still sees them.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := newDeadlineWriter(w)
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
						return
					}
					close(done)
				}()
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
				dw.finish()
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				dw.expire()
			}
		})
	}
}

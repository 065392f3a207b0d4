package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"clinicbook/pkg/config"
	"clinicbook/pkg/logger"
)

// Mock pinger for testing
type mockPinger struct {
	err error
}

func (m mockPinger) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return m.err
}

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		RequestTimeout:    time.Second,
		MaxRequestSize:    1024,
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
		IdempotencyTTL:    time.Minute,
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name           string
		db             Pinger
		expectedStatus int
	}{
		{"database up", mockPinger{}, http.StatusOK},
		{"database down", mockPinger{err: errors.New("no reachable servers")}, http.StatusServiceUnavailable},
		{"not connected", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(tt.db, logger.Discard()).RegisterRoutes(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestApplication_Routing(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(echoHandler{})

	tests := []struct {
		name           string
		method         string
		path           string
		contentType    string
		expectedStatus int
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK},
		{"readiness without database", http.MethodGet, "/ready", "", http.StatusServiceUnavailable},
		{"app route", http.MethodPost, "/api/v1/echo", "application/json", http.StatusNoContent},
		{"app route rejects other content types", http.MethodPost, "/api/v1/echo", "text/plain", http.StatusUnsupportedMediaType},
		{"unknown route", http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			a.Handler().ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("expected a request id header")
			}
		})
	}
}

func TestApplication_RateLimitsWrites(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(echoHandler{})

	var last int
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"phone":"+14155550123"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		a.Handler().ServeHTTP(w, req)
		last = w.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("expected the third write to be limited, got %d", last)
	}
}

func TestApplication_ClosersRunInReverse(t *testing.T) {
	a := NewApplication(testConfig())

	var order []string
	a.OnShutdown("producer", func() error { order = append(order, "producer"); return nil })
	a.OnShutdown("consumer", func() error { order = append(order, "consumer"); return errors.New("already closed") })

	a.runClosers()

	if strings.Join(order, ",") != "consumer,producer" {
		t.Errorf("unexpected close order %v", order)
	}
}

func TestApplication_WorkersStopOnCancel(t *testing.T) {
	a := NewApplication(testConfig())

	stopped := make(chan struct{})
	a.AddWorker("review-consumer", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	a.startWorkers(ctx)
	cancel()
	a.wg.Wait()

	select {
	case <-stopped:
	default:
		t.Fatal("worker did not observe cancellation")
	}
}

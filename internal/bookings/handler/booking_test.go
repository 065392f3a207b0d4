package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinicbook/internal/availability"
	"clinicbook/internal/bookings/service"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBookingService struct {
	availabilityFunc func(ctx context.Context, q availability.Query) (*model.Availability, error)
	submitFunc       func(ctx context.Context, form *model.BookingForm) (*service.Submission, error)
}

func (m *mockBookingService) Availability(ctx context.Context, q availability.Query) (*model.Availability, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, q)
	}
	return &model.Availability{State: model.StateNeedsSelection, Slots: []string{}}, nil
}

func (m *mockBookingService) Submit(ctx context.Context, form *model.BookingForm) (*service.Submission, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, form)
	}
	return &service.Submission{}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) ApplyReview(ctx context.Context, decision *model.ReviewDecision) error {
	return nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewBookingHandler(svc, time.UTC, log).RegisterRoutes(router)
	return router
}

func TestAvailability_QueryMapping(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantSpecific bool
		wantID       string
	}{
		{"specific practitioner", "?date=2026-10-19&service_id=S1&branch_id=B1&practitioner_id=D1", true, "D1"},
		{"omitted practitioner is no preference", "?date=2026-10-19&service_id=S1&branch_id=B1", false, ""},
		{"blank practitioner is no preference", "?date=2026-10-19&service_id=S1&branch_id=B1&practitioner_id=%20", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received availability.Query
			router := newTestRouter(&mockBookingService{
				availabilityFunc: func(ctx context.Context, q availability.Query) (*model.Availability, error) {
					received = q
					return &model.Availability{State: model.StateReady, Slots: []string{"09:00 AM"}}, nil
				},
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/availability"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			id, specific := received.Selection.PractitionerID()
			if specific != tt.wantSpecific || id != tt.wantID {
				t.Errorf("selection = %s, want specific=%v id=%q", received.Selection, tt.wantSpecific, tt.wantID)
			}
			if received.ServiceID != "S1" || received.BranchID != "B1" {
				t.Errorf("unexpected query %+v", received)
			}
			if !received.Date.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)) {
				t.Errorf("unexpected date %v", received.Date)
			}
		})
	}
}

func TestAvailability_BadDate(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	for _, query := range []string{"", "?date=19-10-2026"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/availability"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected status %d, got %d", query, http.StatusBadRequest, w.Code)
		}
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		submitErr  error
		wantStatus int
	}{
		{"created", `{"name":"Jane Doe","slot":"09:00 AM"}`, nil, http.StatusCreated},
		{"malformed body", `{"name":`, nil, http.StatusBadRequest},
		{"stale slot", `{"slot":"09:00 AM"}`, apperrors.SlotUnavailable("09:00 AM"), http.StatusConflict},
		{"missing fields", `{}`, apperrors.MissingFields("name"), http.StatusUnprocessableEntity},
		{"storage down", `{}`, apperrors.Unavailable("Booking storage", nil), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockBookingService{
				submitFunc: func(ctx context.Context, form *model.BookingForm) (*service.Submission, error) {
					if tt.submitErr != nil {
						return nil, tt.submitErr
					}
					return &service.Submission{Booking: &model.Booking{Name: form.Name, Slot: form.Slot, Status: model.StatusPending}}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			var body struct {
				Data service.Submission `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Data.Booking == nil || body.Data.Booking.Status != model.StatusPending {
				t.Errorf("unexpected submission %+v", body.Data)
			}
		})
	}
}

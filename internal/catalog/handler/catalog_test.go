package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockCatalogService struct {
	listServicesFunc      func(ctx context.Context) ([]*model.Service, error)
	listPractitionersFunc func(ctx context.Context, branchID string) ([]*model.Practitioner, error)
}

func (m *mockCatalogService) ListServices(ctx context.Context) ([]*model.Service, error) {
	if m.listServicesFunc != nil {
		return m.listServicesFunc(ctx)
	}
	return []*model.Service{}, nil
}

func (m *mockCatalogService) ListBranches(ctx context.Context) ([]*model.Branch, error) {
	return []*model.Branch{}, nil
}

func (m *mockCatalogService) ListPractitioners(ctx context.Context, branchID string) ([]*model.Practitioner, error) {
	if m.listPractitionersFunc != nil {
		return m.listPractitionersFunc(ctx, branchID)
	}
	return []*model.Practitioner{}, nil
}

func newTestRouter(svc *mockCatalogService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewCatalogHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestListServices(t *testing.T) {
	router := newTestRouter(&mockCatalogService{
		listServicesFunc: func(ctx context.Context) ([]*model.Service, error) {
			return []*model.Service{{ID: "S1", Name: "Routine Check-up", DurationMin: 30}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var body struct {
		Data []model.Service `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].DurationMin != 30 {
		t.Errorf("unexpected services %+v", body.Data)
	}
}

func TestListPractitioners_PassesBranchFilter(t *testing.T) {
	var received string
	router := newTestRouter(&mockCatalogService{
		listPractitionersFunc: func(ctx context.Context, branchID string) ([]*model.Practitioner, error) {
			received = branchID
			return []*model.Practitioner{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/practitioners?branch_id=B2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if received != "B2" {
		t.Errorf("expected branch filter B2, got %q", received)
	}
}

func TestListServices_StorageDown(t *testing.T) {
	router := newTestRouter(&mockCatalogService{
		listServicesFunc: func(ctx context.Context) ([]*model.Service, error) {
			return nil, apperrors.Unavailable("Catalog", errors.New("no reachable servers"))
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var body struct {
		Error apperrors.ErrorResponse `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error.Code != apperrors.CodeUnavailable {
		t.Errorf("expected code %s, got %s", apperrors.CodeUnavailable, body.Error.Code)
	}
}

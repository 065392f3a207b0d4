package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"clinicbook/internal/bookings/service"
	"clinicbook/internal/selection"
	apperrors "clinicbook/pkg/errors"
	httputil "clinicbook/pkg/http"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service  service.BookingService
	location *time.Location
	log      *logger.Logger
}

func NewBookingHandler(service service.BookingService, location *time.Location, log *logger.Logger) *BookingHandler {
	if location == nil {
		location = time.UTC
	}
	return &BookingHandler{
		service:  service,
		location: location,
		log:      log,
	}
}

// Availability answers GET /api/v1/availability. An omitted practitioner_id
// means no preference.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.QueryDate(r, "date", h.location)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	sel := selection.New(date).
		WithService(httputil.QueryParam(r, "service_id")).
		WithBranch(httputil.QueryParam(r, "branch_id"))
	if id := httputil.QueryParam(r, "practitioner_id"); id != "" {
		sel = sel.WithPreference(model.Specific(id))
	}

	result, err := h.service.Availability(r.Context(), sel.Query())
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var form model.BookingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	submission, err := h.service.Submit(r.Context(), &form)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, submission); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Availability)
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/:id", h.GetByID)
}

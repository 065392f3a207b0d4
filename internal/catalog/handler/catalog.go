package handler

import (
	"net/http"

	"clinicbook/internal/catalog/service"
	httputil "clinicbook/pkg/http"
	"clinicbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	services, err := h.service.ListServices(r.Context())
	h.respond(w, "ListServices", services, err)
}

func (h *CatalogHandler) ListBranches(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	branches, err := h.service.ListBranches(r.Context())
	h.respond(w, "ListBranches", branches, err)
}

func (h *CatalogHandler) ListPractitioners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	practitioners, err := h.service.ListPractitioners(r.Context(), httputil.QueryParam(r, "branch_id"))
	h.respond(w, "ListPractitioners", practitioners, err)
}

func (h *CatalogHandler) respond(w http.ResponseWriter, name string, data any, err error) {
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}
	if writeErr := httputil.WriteSuccess(w, data); writeErr != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/services", h.ListServices)
	router.GET("/api/v1/branches", h.ListBranches)
	router.GET("/api/v1/practitioners", h.ListPractitioners)
}

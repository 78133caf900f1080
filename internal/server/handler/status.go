package handler

import (
	"net/http"

	"github.com/sevigo/warden-judge/internal/core"
)

// ServiceName is reported by the status endpoint.
const ServiceName = "Warden Judge"

// StatusResponse describes collaborator readiness.
type StatusResponse struct {
	Status   string         `json:"status"`
	Service  string         `json:"service"`
	Services core.Readiness `json:"services"`
}

// StatusHandler reports which collaborators are available.
type StatusHandler struct {
	services *core.Services
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(services *core.Services) *StatusHandler {
	return &StatusHandler{services: services}
}

// Handle always answers 200; partial readiness is reported in the body.
func (h *StatusHandler) Handle(w http.ResponseWriter, r *http.Request) {
	readiness := h.services.Readiness(r.Context())
	status := "partial"
	if readiness.OK() {
		status = "ok"
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status, Service: ServiceName, Services: readiness})
}

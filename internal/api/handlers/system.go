package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health reports the session store, the session and the time of the last published refresh.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with model.HealthInfo
// Error: 503 Service Unavailable if the session store is unreachable
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	info := h.systemService.Info()
	if info.Status != "healthy" {
		response.RespondJSON(w, http.StatusServiceUnavailable, info)
		return
	}
	response.RespondJSON(w, http.StatusOK, info)
}

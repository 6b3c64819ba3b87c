package handlers

import (
	"github.com/gin-gonic/gin"

	"gims/internal/domain/metrics"
)

// MetricsHandler handles lead-time prediction endpoints.
type MetricsHandler struct {
	*BaseHandler
	service *metrics.Service
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(base *BaseHandler, service *metrics.Service) *MetricsHandler {
	return &MetricsHandler{BaseHandler: base, service: service}
}

// Get handles GET /metrics/lead-time/:nacCode.
func (h *MetricsHandler) Get(c *gin.Context) {
	metric, err := h.service.Get(c.Request.Context(), c.Param("nacCode"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, metric)
}

// Refresh handles POST /metrics/lead-time/:nacCode/refresh.
// Recomputes from approved request/receive pairs.
func (h *MetricsHandler) Refresh(c *gin.Context) {
	metric, err := h.service.Refresh(c.Request.Context(), c.Param("nacCode"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, metric)
}

// RefreshAll handles POST /metrics/lead-time/refresh.
func (h *MetricsHandler) RefreshAll(c *gin.Context) {
	refreshed, err := h.service.RefreshAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"refreshed": refreshed})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/service"
	"linkbio/pkg/logger"
)

// AnalyticsHandler serves dashboard metrics
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service service.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger}
}

// OwnerMetrics handles GET /api/v1/analytics
func (h *AnalyticsHandler) OwnerMetrics(c *gin.Context) {
	metrics, err := h.service.OwnerMetrics(c.Request.Context(), callerID(c), capabilities(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// LinkMetrics handles GET /api/v1/analytics/links/:id
func (h *AnalyticsHandler) LinkMetrics(c *gin.Context) {
	metrics, err := h.service.LinkMetrics(c.Request.Context(), callerID(c), c.Param("id"), capabilities(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

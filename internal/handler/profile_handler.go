package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/domain"
	"linkbio/internal/service"
	"linkbio/pkg/logger"
)

// ProfileHandler serves the caller's page customization
type ProfileHandler struct {
	service service.ProfileService
	logger  *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service service.ProfileService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

// GetCustomization handles GET /api/v1/profile/customization
func (h *ProfileHandler) GetCustomization(c *gin.Context) {
	resp, err := h.service.GetCustomization(c.Request.Context(), callerID(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCustomization handles PUT /api/v1/profile/customization
func (h *ProfileHandler) UpdateCustomization(c *gin.Context) {
	var req domain.UpdateCustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.UpdateCustomization(c.Request.Context(), callerID(c), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/domain"
	"linkbio/internal/service"
	"linkbio/pkg/logger"
)

// SlugHandler serves the caller's public slug
type SlugHandler struct {
	service service.SlugService
	logger  *logger.Logger
}

// NewSlugHandler creates a new slug handler
func NewSlugHandler(service service.SlugService, logger *logger.Logger) *SlugHandler {
	return &SlugHandler{service: service, logger: logger}
}

// GetSlug handles GET /api/v1/profile/slug
func (h *SlugHandler) GetSlug(c *gin.Context) {
	resp, err := h.service.GetSlug(c.Request.Context(), callerID(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckAvailability handles GET /api/v1/profile/slug/availability?slug=
func (h *SlugHandler) CheckAvailability(c *gin.Context) {
	resp, err := h.service.CheckAvailability(c.Request.Context(), c.Query("slug"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClaimSlug handles PUT /api/v1/profile/slug
func (h *SlugHandler) ClaimSlug(c *gin.Context) {
	var req domain.ClaimSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.service.ClaimSlug(c.Request.Context(), callerID(c), req.Slug)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

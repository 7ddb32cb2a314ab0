package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/domain"
	"linkbio/internal/service"
	"linkbio/pkg/logger"
)

// ClickHandler receives click reports from public pages
type ClickHandler struct {
	service service.ClickService
	logger  *logger.Logger
}

// NewClickHandler creates a new click handler
func NewClickHandler(service service.ClickService, logger *logger.Logger) *ClickHandler {
	return &ClickHandler{service: service, logger: logger}
}

// TrackClick handles POST /track-click. The response never depends on
// whether the event reached the analytics store.
func (h *ClickHandler) TrackClick(c *gin.Context) {
	var req domain.TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Malformed click payload", "error", err, "ip", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track click"})
		return
	}

	meta := domain.RequestMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		Headers:   c.Request.Header,
	}

	if err := h.service.Track(c.Request.Context(), &req, meta); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		h.logger.Error("Failed to track click", "error", err, "profile", req.ProfileUsername)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track click"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

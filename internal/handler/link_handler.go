package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/domain"
	"linkbio/internal/service"
	"linkbio/pkg/logger"
)

// LinkHandler handles HTTP requests for link management
type LinkHandler struct {
	service  service.LinkService
	profiles service.ProfileService
	logger   *logger.Logger
}

// NewLinkHandler creates a new link handler with dependencies
func NewLinkHandler(service service.LinkService, profiles service.ProfileService, logger *logger.Logger) *LinkHandler {
	return &LinkHandler{
		service:  service,
		profiles: profiles,
		logger:   logger,
	}
}

// ListLinks handles GET /api/v1/links
func (h *LinkHandler) ListLinks(c *gin.Context) {
	links, err := h.service.ListByOwner(c.Request.Context(), callerID(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

// CountLinks handles GET /api/v1/links/count
func (h *LinkHandler) CountLinks(c *gin.Context) {
	resp, err := h.service.CountByOwner(c.Request.Context(), callerID(c), capabilities(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateLink handles POST /api/v1/links
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		badRequest(c, err)
		return
	}

	link, err := h.service.Create(c.Request.Context(), callerID(c), capabilities(c), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// UpdateLink handles PUT /api/v1/links/:id
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	var req domain.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	link, err := h.service.Update(c.Request.Context(), callerID(c), c.Param("id"), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// DeleteLink handles DELETE /api/v1/links/:id
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), callerID(c), id); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Link deleted successfully",
		"id":      id,
	})
}

// ReorderLinks handles POST /api/v1/links/reorder
func (h *LinkHandler) ReorderLinks(c *gin.Context) {
	var req domain.ReorderLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.service.Reorder(c.Request.Context(), callerID(c), req.LinkIDs); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PublicLinks handles GET /api/v1/public/:slug/links
func (h *LinkHandler) PublicLinks(c *gin.Context) {
	slug := c.Param("slug")
	links, err := h.service.ListBySlug(c.Request.Context(), slug)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	customization, err := h.profiles.PublicCustomization(c.Request.Context(), slug)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slug":          slug,
		"links":         links,
		"customization": customization,
	})
}

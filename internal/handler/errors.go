package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/domain"
	"linkbio/pkg/logger"
)

// errorCodes maps domain sentinels to stable machine-readable codes
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInvalidInput, "validation_error"},
	{domain.ErrForbidden, "unauthorized"},
	{domain.ErrLinkNotFound, "not_found"},
	{domain.ErrProfileNotFound, "profile_not_found"},
	{domain.ErrSlugTaken, "slug_taken"},
	{domain.ErrLinkLimitReached, "link_limit_reached"},
	{domain.ErrFeatureLocked, "feature_locked"},
	{domain.ErrMetricsUnavailable, "analytics_unavailable"},
}

// handleError processes domain errors and returns appropriate HTTP responses
func handleError(c *gin.Context, log *logger.Logger, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		log.Error("Unexpected error", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	// Log internal errors but don't expose details to users
	if appErr.Internal {
		log.Error("Internal server error", "error", appErr.Err, "path", c.FullPath())
		c.JSON(appErr.StatusCode, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
			Code:    appErr.StatusCode,
		})
		return
	}

	if appErr.StatusCode == http.StatusServiceUnavailable {
		log.Warn("Dependency unavailable", "error", appErr.Err, "path", c.FullPath())
	}

	c.JSON(appErr.StatusCode, domain.ErrorResponse{
		Error:   errorCode(appErr),
		Message: appErr.Message,
		Field:   appErr.Field,
		Code:    appErr.StatusCode,
	})
}

func errorCode(appErr *domain.AppError) string {
	for _, ec := range errorCodes {
		if errors.Is(appErr, ec.err) {
			return ec.code
		}
	}
	return "client_error"
}

// badRequest answers a body that couldn't be bound
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, domain.ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body: " + err.Error(),
		Code:    http.StatusBadRequest,
	})
}

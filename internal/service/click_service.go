package service

import (
	"context"
	"time"

	"linkbio/internal/analytics"
	"linkbio/internal/domain"
	"linkbio/internal/geo"
	"linkbio/pkg/logger"
)

// Dispatcher hands an event off for delivery without blocking
type Dispatcher interface {
	Dispatch(event domain.ClickEvent) bool
}

// clickService implements the ClickService interface
type clickService struct {
	slugs      SlugService
	locator    geo.Locator
	dispatcher Dispatcher
	logger     *logger.Logger
	now        func() time.Time
}

// NewClickService creates a new click service
func NewClickService(slugs SlugService, locator geo.Locator, dispatcher Dispatcher, logger *logger.Logger) ClickService {
	return &clickService{
		slugs:      slugs,
		locator:    locator,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Track resolves the profile, enriches the click and dispatches it.
// Delivery outcome never reaches the caller.
func (s *clickService) Track(ctx context.Context, req *domain.TrackClickRequest, meta domain.RequestMeta) error {
	ownerID, err := s.slugs.ResolveOwner(ctx, req.ProfileUsername)
	if err != nil {
		s.logger.Info("Click for unknown profile", "profile", req.ProfileUsername, "link_id", req.LinkID)
		return err
	}

	userAgent := firstNonEmpty(req.UserAgent, meta.UserAgent, "unknown")

	var referrer *string
	if ref := firstNonEmpty(req.Referrer, meta.Referer); ref != "" {
		referrer = &ref
	}

	event := domain.ClickEvent{
		Timestamp:       s.now().UTC(),
		ProfileUsername: req.ProfileUsername,
		OwnerID:         ownerID,
		LinkID:          req.LinkID,
		LinkTitle:       req.LinkTitle,
		LinkURL:         req.LinkURL,
		UserAgent:       userAgent,
		Referrer:        referrer,
		VisitorID:       analytics.VisitorID(meta.ClientIP, userAgent),
	}
	if s.locator != nil {
		event.Location = s.locator.Locate(meta.ClientIP, meta.Headers)
	}

	s.dispatcher.Dispatch(event)

	s.logger.Debug("Click tracked", "owner_id", ownerID, "link_id", req.LinkID, "country", event.Location.Country)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

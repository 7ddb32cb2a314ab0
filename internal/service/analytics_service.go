package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"linkbio/internal/analytics"
	"linkbio/internal/cache"
	"linkbio/internal/config"
	"linkbio/internal/domain"
	"linkbio/internal/plan"
	"linkbio/internal/repository"
	"linkbio/internal/sink"
	"linkbio/pkg/logger"
)

// analyticsService implements the AnalyticsService interface
type analyticsService struct {
	source sink.EventSource
	links  repository.LinkRepository
	cache  cache.Cache
	cfg    *config.Config
	logger *logger.Logger
	now    func() time.Time
}

// NewAnalyticsService creates a new analytics service. cache may be nil.
func NewAnalyticsService(
	source sink.EventSource,
	links repository.LinkRepository,
	cache cache.Cache,
	cfg *config.Config,
	logger *logger.Logger,
) AnalyticsService {
	return &analyticsService{
		source: source,
		links:  links,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// OwnerMetrics aggregates every click on the owner's page in the window
func (s *analyticsService) OwnerMetrics(ctx context.Context, ownerID string, caps plan.Capabilities) (*domain.Metrics, error) {
	metrics, err := s.metrics(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}
	return s.gate(metrics, caps), nil
}

// LinkMetrics aggregates the clicks of one link the caller owns
func (s *analyticsService) LinkMetrics(ctx context.Context, callerID, linkID string, caps plan.Capabilities) (*domain.Metrics, error) {
	link, err := s.links.FindByID(ctx, linkID)
	if errors.Is(err, domain.ErrLinkNotFound) {
		return nil, domain.NewNotFoundError()
	}
	if err != nil {
		s.logger.Error("Failed to load link", "error", err, "link_id", linkID)
		return nil, domain.NewInternalError(err)
	}
	if !link.OwnedBy(callerID) {
		s.logger.Warn("Rejected link metrics for non-owner", "link_id", linkID, "caller_id", callerID)
		return nil, domain.NewAuthorizationError()
	}

	metrics, err := s.metrics(ctx, callerID, linkID)
	if err != nil {
		return nil, err
	}
	metrics.LinkID = linkID
	return s.gate(metrics, caps), nil
}

// metrics returns the ungated aggregate, from cache when possible
func (s *analyticsService) metrics(ctx context.Context, ownerID, linkID string) (*domain.Metrics, error) {
	key := cache.MetricsKey(ownerID, linkID, s.cfg.AnalyticsWindowDays)
	if cached := s.cached(ctx, key); cached != nil {
		return cached, nil
	}

	until := s.now().UTC()
	events, err := s.source.Events(ctx, domain.ClickQuery{
		OwnerID: ownerID,
		LinkID:  linkID,
		Since:   until.AddDate(0, 0, -s.cfg.AnalyticsWindowDays),
		Until:   until,
	})
	if err != nil {
		s.logger.Error("Failed to query click events", "error", err, "owner_id", ownerID, "link_id", linkID)
		return nil, domain.NewMetricsUnavailableError(err)
	}

	metrics := analytics.Aggregate(events)
	metrics.WindowDays = s.cfg.AnalyticsWindowDays

	s.store(ctx, key, &metrics)
	return &metrics, nil
}

// gate strips fields the caller's plan doesn't include
func (s *analyticsService) gate(m *domain.Metrics, caps plan.Capabilities) *domain.Metrics {
	if !caps.Has(plan.GeoAnalytics) {
		m.StripGeo()
	}
	return m
}

func (s *analyticsService) cached(ctx context.Context, key string) *domain.Metrics {
	if s.cache == nil || s.cfg.MetricsCacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil
	}
	var m domain.Metrics
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		s.logger.Warn("Discarding unreadable cached metrics", "error", err, "key", key)
		return nil
	}
	s.logger.Debug("Cache hit", "key", key)
	return &m
}

func (s *analyticsService) store(ctx context.Context, key string, m *domain.Metrics) {
	if s.cache == nil || s.cfg.MetricsCacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cfg.MetricsCacheTTL); err != nil {
		s.logger.Warn("Failed to cache metrics", "error", err, "key", key)
	}
}

package sink

import (
	"context"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

// StoreSink uses the click repository as both forwarder and event source
type StoreSink struct {
	clicks repository.ClickRepository
}

// NewStoreSink wraps a click repository
func NewStoreSink(clicks repository.ClickRepository) *StoreSink {
	return &StoreSink{clicks: clicks}
}

// Forward implements Forwarder
func (s *StoreSink) Forward(ctx context.Context, event *domain.ClickEvent) error {
	return s.clicks.Insert(ctx, event)
}

// Events implements EventSource
func (s *StoreSink) Events(ctx context.Context, q domain.ClickQuery) ([]domain.ClickEvent, error) {
	return s.clicks.List(ctx, q)
}

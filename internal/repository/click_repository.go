package repository

import (
	"context"

	"linkbio/internal/domain"
)

// ClickRepository records and reads enriched click events when the
// database itself acts as the analytics store
type ClickRepository interface {
	Insert(ctx context.Context, event *domain.ClickEvent) error
	List(ctx context.Context, q domain.ClickQuery) ([]domain.ClickEvent, error)
}

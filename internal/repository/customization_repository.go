package repository

import (
	"context"

	"linkbio/internal/domain"
)

// CustomizationRepository stores one page customization per owner
type CustomizationRepository interface {
	// FindByOwner returns domain.ErrCustomizationNotFound when nothing was saved
	FindByOwner(ctx context.Context, ownerID string) (*domain.Customization, error)

	// Upsert creates or replaces the owner's customization
	Upsert(ctx context.Context, c *domain.Customization) error
}

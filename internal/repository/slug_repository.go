package repository

import (
	"context"

	"linkbio/internal/domain"
)

// SlugRepository stores the one-to-one slug ↔ owner mapping
type SlugRepository interface {
	// FindBySlug returns domain.ErrSlugNotFound when unmapped
	FindBySlug(ctx context.Context, slug string) (*domain.SlugMapping, error)

	// FindByOwner returns domain.ErrSlugNotFound when the owner has no slug
	FindByOwner(ctx context.Context, ownerID string) (*domain.SlugMapping, error)

	// Claim maps slug to owner, renaming the owner's existing slug if any.
	// Returns the previous slug ("" if none) and domain.ErrSlugTaken when
	// another owner holds the slug.
	Claim(ctx context.Context, ownerID, slug string) (previous string, err error)
}

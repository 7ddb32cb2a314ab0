package service

import (
	"context"

	"linkbio/internal/domain"
	"linkbio/internal/plan"
)

// LinkService defines the business logic for a creator's links.
// Errors returned are *domain.AppError ready for the HTTP layer.
type LinkService interface {
	// ListByOwner returns the owner's links in display order
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error)

	// ListBySlug returns the links shown on a public page
	ListBySlug(ctx context.Context, slug string) ([]domain.Link, error)

	// CountByOwner reports usage against the caller's link limit
	CountByOwner(ctx context.Context, ownerID string, caps plan.Capabilities) (*domain.LinkCountResponse, error)

	// Create validates and appends a link at the end of the owner's list
	Create(ctx context.Context, ownerID string, caps plan.Capabilities, req *domain.CreateLinkRequest) (*domain.Link, error)

	// Update edits title and url of a link the caller owns
	Update(ctx context.Context, callerID, linkID string, req *domain.UpdateLinkRequest) (*domain.Link, error)

	// Delete removes a link the caller owns
	Delete(ctx context.Context, callerID, linkID string) error

	// Reorder applies the caller's final order
	Reorder(ctx context.Context, callerID string, linkIDs []string) error
}

// SlugService manages the public slug of a creator and resolves it back
type SlugService interface {
	GetSlug(ctx context.Context, ownerID string) (*domain.SlugResponse, error)
	CheckAvailability(ctx context.Context, slug string) (*domain.SlugAvailability, error)
	ClaimSlug(ctx context.Context, ownerID, slug string) (*domain.SlugResponse, error)

	// ResolveOwner maps a public slug to its owner id
	ResolveOwner(ctx context.Context, slug string) (string, error)
}

// ProfileService manages the presentation settings of a public page
type ProfileService interface {
	GetCustomization(ctx context.Context, ownerID string) (*domain.Customization, error)
	UpdateCustomization(ctx context.Context, ownerID string, req *domain.UpdateCustomizationRequest) (*domain.Customization, error)

	// PublicCustomization returns the settings shown on the page at slug
	PublicCustomization(ctx context.Context, slug string) (*domain.Customization, error)
}

// ClickService records public link clicks
type ClickService interface {
	// Track enriches the click and hands it off for delivery.
	// It fails only when the profile can't be resolved.
	Track(ctx context.Context, req *domain.TrackClickRequest, meta domain.RequestMeta) error
}

// AnalyticsService aggregates click events for the dashboard
type AnalyticsService interface {
	OwnerMetrics(ctx context.Context, ownerID string, caps plan.Capabilities) (*domain.Metrics, error)
	LinkMetrics(ctx context.Context, callerID, linkID string, caps plan.Capabilities) (*domain.Metrics, error)
}

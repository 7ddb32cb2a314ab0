package service

import (
	"context"
	"errors"
	"strings"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
	"linkbio/pkg/logger"
	"linkbio/pkg/validator"
)

// profileService implements the ProfileService interface
type profileService struct {
	customizations repository.CustomizationRepository
	slugs          repository.SlugRepository
	logger         *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	customizations repository.CustomizationRepository,
	slugs repository.SlugRepository,
	logger *logger.Logger,
) ProfileService {
	return &profileService{
		customizations: customizations,
		slugs:          slugs,
		logger:         logger,
	}
}

// GetCustomization returns saved settings, or the defaults when none exist
func (s *profileService) GetCustomization(ctx context.Context, ownerID string) (*domain.Customization, error) {
	c, err := s.customizations.FindByOwner(ctx, ownerID)
	if errors.Is(err, domain.ErrCustomizationNotFound) {
		return domain.DefaultCustomization(ownerID), nil
	}
	if err != nil {
		s.logger.Error("Failed to load customization", "error", err, "owner_id", ownerID)
		return nil, domain.NewInternalError(err)
	}
	return c, nil
}

// UpdateCustomization validates and replaces the owner's settings
func (s *profileService) UpdateCustomization(ctx context.Context, ownerID string, req *domain.UpdateCustomizationRequest) (*domain.Customization, error) {
	description := strings.TrimSpace(req.Description)
	accent := strings.TrimSpace(req.AccentColor)

	picture, err := validator.ValidateCustomization(description, accent, req.ProfilePictureURL)
	if err != nil {
		return nil, toValidationError(err)
	}
	if accent == "" {
		accent = domain.DefaultAccentColor
	}

	c := &domain.Customization{
		OwnerID:           ownerID,
		Description:       description,
		AccentColor:       strings.ToUpper(accent),
		ProfilePictureURL: picture,
	}
	if err := s.customizations.Upsert(ctx, c); err != nil {
		s.logger.Error("Failed to save customization", "error", err, "owner_id", ownerID)
		return nil, domain.NewInternalError(err)
	}

	s.logger.Info("Customization updated", "owner_id", ownerID)
	return c, nil
}

// PublicCustomization resolves a page slug the same way public links do
func (s *profileService) PublicCustomization(ctx context.Context, slug string) (*domain.Customization, error) {
	ownerID, err := pageOwner(ctx, s.slugs, slug)
	if err != nil {
		s.logger.Error("Failed to resolve slug", "error", err, "slug", slug)
		return nil, domain.NewInternalError(err)
	}
	return s.GetCustomization(ctx, ownerID)
}

// pageOwner maps a public slug to its owner. An unmapped slug is taken to be
// the owner id itself.
func pageOwner(ctx context.Context, slugs repository.SlugRepository, slug string) (string, error) {
	mapping, err := slugs.FindBySlug(ctx, slug)
	switch {
	case err == nil:
		return mapping.OwnerID, nil
	case errors.Is(err, domain.ErrSlugNotFound):
		return slug, nil
	default:
		return "", err
	}
}

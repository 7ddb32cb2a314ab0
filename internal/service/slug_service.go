package service

import (
	"context"
	"errors"
	"net/http"

	"linkbio/internal/cache"
	"linkbio/internal/config"
	"linkbio/internal/domain"
	"linkbio/internal/repository"
	"linkbio/pkg/logger"
	"linkbio/pkg/validator"
)

const slugTakenMessage = "Username is already taken."

// slugService implements the SlugService interface
type slugService struct {
	slugs  repository.SlugRepository
	links  repository.LinkRepository
	cache  cache.Cache
	cfg    *config.Config
	logger *logger.Logger
}

// NewSlugService creates a new slug service. cache may be nil.
func NewSlugService(
	slugs repository.SlugRepository,
	links repository.LinkRepository,
	cache cache.Cache,
	cfg *config.Config,
	logger *logger.Logger,
) SlugService {
	return &slugService{
		slugs:  slugs,
		links:  links,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

// GetSlug returns the claimed slug, or the owner id when none was claimed
func (s *slugService) GetSlug(ctx context.Context, ownerID string) (*domain.SlugResponse, error) {
	mapping, err := s.slugs.FindByOwner(ctx, ownerID)
	if errors.Is(err, domain.ErrSlugNotFound) {
		return &domain.SlugResponse{Slug: ownerID, Claimed: false}, nil
	}
	if err != nil {
		s.logger.Error("Failed to load slug", "error", err, "owner_id", ownerID)
		return nil, domain.NewInternalError(err)
	}
	return &domain.SlugResponse{Slug: mapping.Slug, Claimed: true}, nil
}

// CheckAvailability answers the username form without claiming anything
func (s *slugService) CheckAvailability(ctx context.Context, slug string) (*domain.SlugAvailability, error) {
	if err := validator.ValidateSlug(slug); err != nil {
		return &domain.SlugAvailability{Available: false, Error: err.Error()}, nil
	}

	_, err := s.slugs.FindBySlug(ctx, slug)
	switch {
	case errors.Is(err, domain.ErrSlugNotFound):
		return &domain.SlugAvailability{Available: true}, nil
	case err != nil:
		s.logger.Error("Failed to check slug availability", "error", err, "slug", slug)
		return nil, domain.NewInternalError(err)
	default:
		return &domain.SlugAvailability{Available: false, Error: slugTakenMessage}, nil
	}
}

// ClaimSlug maps slug to the owner, renaming any slug the owner had before
func (s *slugService) ClaimSlug(ctx context.Context, ownerID, slug string) (*domain.SlugResponse, error) {
	if err := validator.ValidateSlug(slug); err != nil {
		return nil, toValidationError(err)
	}

	previous, err := s.slugs.Claim(ctx, ownerID, slug)
	if errors.Is(err, domain.ErrSlugTaken) {
		return nil, &domain.AppError{
			Err:        domain.ErrSlugTaken,
			Message:    slugTakenMessage,
			Field:      "slug",
			StatusCode: http.StatusConflict,
		}
	}
	if err != nil {
		s.logger.Error("Failed to claim slug", "error", err, "owner_id", ownerID, "slug", slug)
		return nil, domain.NewInternalError(err)
	}

	s.invalidate(ctx, previous, slug)

	s.logger.Info("Slug claimed", "owner_id", ownerID, "slug", slug, "previous", previous)
	return &domain.SlugResponse{Slug: slug, Claimed: true}, nil
}

// ResolveOwner uses the cache-aside pattern: cache, then mapping, then the
// slug taken as an owner id that has links
func (s *slugService) ResolveOwner(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", profileNotFound()
	}

	if s.cache != nil {
		ownerID, err := s.cache.Get(ctx, cache.SlugKey(slug))
		if err == nil && ownerID != "" {
			s.logger.Debug("Cache hit", "slug", slug)
			return ownerID, nil
		}
	}

	ownerID, err := s.lookupOwner(ctx, slug)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.SlugKey(slug), ownerID, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("Failed to cache slug resolution", "error", err, "slug", slug)
		}
	}
	return ownerID, nil
}

func (s *slugService) lookupOwner(ctx context.Context, slug string) (string, error) {
	mapping, err := s.slugs.FindBySlug(ctx, slug)
	if err == nil {
		return mapping.OwnerID, nil
	}
	if !errors.Is(err, domain.ErrSlugNotFound) {
		s.logger.Error("Failed to resolve slug", "error", err, "slug", slug)
		return "", domain.NewInternalError(err)
	}

	hasLinks, err := s.links.HasLinks(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to check links for slug", "error", err, "slug", slug)
		return "", domain.NewInternalError(err)
	}
	if !hasLinks {
		return "", profileNotFound()
	}
	return slug, nil
}

func (s *slugService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug != "" {
			keys = append(keys, cache.SlugKey(slug))
		}
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Failed to invalidate slug cache", "error", err, "keys", keys)
	}
}

func profileNotFound() *domain.AppError {
	return domain.NewAppError(domain.ErrProfileNotFound, "Profile not found", http.StatusNotFound, false)
}

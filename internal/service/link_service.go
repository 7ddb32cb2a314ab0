package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"linkbio/internal/domain"
	"linkbio/internal/plan"
	"linkbio/internal/repository"
	"linkbio/pkg/logger"
	"linkbio/pkg/validator"
)

// linkService implements the LinkService interface
type linkService struct {
	links  repository.LinkRepository
	slugs  repository.SlugRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewLinkService creates a new link service with dependencies injected
func NewLinkService(links repository.LinkRepository, slugs repository.SlugRepository, logger *logger.Logger) LinkService {
	return &linkService{
		links:  links,
		slugs:  slugs,
		logger: logger,
		now:    time.Now,
	}
}

// ListByOwner returns the owner's links ordered by order key, then id
func (s *linkService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error) {
	links, err := s.links.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list links", "error", err, "owner_id", ownerID)
		return nil, domain.NewInternalError(err)
	}
	return links, nil
}

// ListBySlug resolves the slug through its mapping. An unmapped slug is taken
// to be the owner id itself.
func (s *linkService) ListBySlug(ctx context.Context, slug string) ([]domain.Link, error) {
	ownerID, err := pageOwner(ctx, s.slugs, slug)
	if err != nil {
		s.logger.Error("Failed to resolve slug", "error", err, "slug", slug)
		return nil, domain.NewInternalError(err)
	}
	return s.ListByOwner(ctx, ownerID)
}

// CountByOwner counts the same rows ListByOwner returns
func (s *linkService) CountByOwner(ctx context.Context, ownerID string, caps plan.Capabilities) (*domain.LinkCountResponse, error) {
	count, err := s.links.CountByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to count links", "error", err, "owner_id", ownerID)
		return nil, domain.NewInternalError(err)
	}

	limit, unlimited := caps.LinkLimit()
	return &domain.LinkCountResponse{
		Count:     count,
		Limit:     limit,
		Unlimited: unlimited,
		CanCreate: caps.CanCreateLink(count),
	}, nil
}

// Create validates the link, checks plan capacity and stores it with an
// order key of the current time in milliseconds
func (s *linkService) Create(ctx context.Context, ownerID string, caps plan.Capabilities, req *domain.CreateLinkRequest) (*domain.Link, error) {
	normalizedURL, err := validator.ValidateLink(req.Title, req.URL)
	if err != nil {
		s.logger.Warn("Invalid link provided", "owner_id", ownerID, "error", err)
		return nil, toValidationError(err)
	}

	count, err := s.links.CountByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to count links", "error", err, "owner_id", ownerID)
		return nil, domain.NewInternalError(err)
	}
	if !caps.CanCreateLink(count) {
		limit, _ := caps.LinkLimit()
		s.logger.Info("Link limit reached", "owner_id", ownerID, "count", count, "limit", limit)
		return nil, domain.NewAppError(domain.ErrLinkLimitReached,
			"Link limit reached for your plan", http.StatusForbidden, false)
	}

	link := &domain.Link{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Title:   strings.TrimSpace(req.Title),
		URL:     normalizedURL,
		Order:   s.now().UnixMilli(),
	}
	if err := s.links.Create(ctx, link); err != nil {
		s.logger.Error("Failed to create link", "error", err, "owner_id", ownerID)
		return nil, domain.NewInternalError(err)
	}

	s.logger.Info("Link created", "link_id", link.ID, "owner_id", ownerID)
	return link, nil
}

// Update edits a link after the same validation as create
func (s *linkService) Update(ctx context.Context, callerID, linkID string, req *domain.UpdateLinkRequest) (*domain.Link, error) {
	normalizedURL, err := validator.ValidateLink(req.Title, req.URL)
	if err != nil {
		return nil, toValidationError(err)
	}

	if err := s.links.UpdateContent(ctx, callerID, linkID, strings.TrimSpace(req.Title), normalizedURL); err != nil {
		return nil, s.mapMutationError(err, "update", callerID, linkID)
	}

	link, err := s.links.FindByID(ctx, linkID)
	if err != nil {
		return nil, s.mapMutationError(err, "reload", callerID, linkID)
	}

	s.logger.Info("Link updated", "link_id", linkID, "owner_id", callerID)
	return link, nil
}

// Delete removes a link the caller owns
func (s *linkService) Delete(ctx context.Context, callerID, linkID string) error {
	if err := s.links.Delete(ctx, callerID, linkID); err != nil {
		return s.mapMutationError(err, "delete", callerID, linkID)
	}

	s.logger.Info("Link deleted", "link_id", linkID, "owner_id", callerID)
	return nil
}

// Reorder assigns dense order keys in the requested sequence; ids that are
// missing or owned by someone else are skipped
func (s *linkService) Reorder(ctx context.Context, callerID string, linkIDs []string) error {
	written, err := s.links.Reorder(ctx, callerID, linkIDs)
	if err != nil {
		s.logger.Error("Failed to reorder links", "error", err, "owner_id", callerID)
		return domain.NewInternalError(err)
	}

	if written != len(linkIDs) {
		s.logger.Debug("Reorder skipped ids", "owner_id", callerID, "requested", len(linkIDs), "written", written)
	}
	return nil
}

func (s *linkService) mapMutationError(err error, op, callerID, linkID string) error {
	switch {
	case errors.Is(err, domain.ErrLinkNotFound):
		return domain.NewNotFoundError()
	case errors.Is(err, domain.ErrForbidden):
		s.logger.Warn("Rejected link mutation by non-owner", "op", op, "link_id", linkID, "caller_id", callerID)
		return domain.NewAuthorizationError()
	default:
		s.logger.Error("Failed to "+op+" link", "error", err, "link_id", linkID)
		return domain.NewInternalError(err)
	}
}

// toValidationError converts a validator error into the HTTP-facing error
func toValidationError(err error) error {
	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		return domain.NewValidationError(ve.Field, ve.Message)
	}
	return domain.NewValidationError("", err.Error())
}

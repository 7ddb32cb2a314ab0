package repository

import (
	"context"

	"linkbio/internal/domain"
)

// LinkRepository is the durable store of creators' links.
// Mutations serialize per link record; implementations return
// domain.ErrLinkNotFound and domain.ErrForbidden for the caller to map.
type LinkRepository interface {
	// Create inserts a new link; the caller sets ID and Order
	Create(ctx context.Context, link *domain.Link) error

	// FindByID retrieves a link by id
	FindByID(ctx context.Context, id string) (*domain.Link, error)

	// ListByOwner returns the owner's links ordered by order key, then id
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error)

	// CountByOwner counts the same rows ListByOwner returns
	CountByOwner(ctx context.Context, ownerID string) (int64, error)

	// HasLinks reports whether the owner has at least one link
	HasLinks(ctx context.Context, ownerID string) (bool, error)

	// UpdateContent replaces title and url of a link the caller owns
	UpdateContent(ctx context.Context, callerID, id, title, url string) error

	// Delete removes a link the caller owns
	Delete(ctx context.Context, callerID, id string) error

	// Reorder assigns dense order keys to the caller's links in the given
	// sequence, ignoring ids that are missing or owned by someone else.
	// It returns the number of links written.
	Reorder(ctx context.Context, callerID string, ids []string) (int, error)
}

package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

// linkRepository implements repository.LinkRepository for PostgreSQL
type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new PostgreSQL link repository
func NewLinkRepository(db *gorm.DB) repository.LinkRepository {
	return &linkRepository{db: db}
}

// Create inserts a new link record
func (r *linkRepository) Create(ctx context.Context, link *domain.Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

// FindByID retrieves a link by id
func (r *linkRepository) FindByID(ctx context.Context, id string) (*domain.Link, error) {
	var link domain.Link

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, domain.NewInternalError(err)
	}

	return &link, nil
}

// ListByOwner returns links in display order; ties on order_key fall back to id
func (r *linkRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error) {
	links := make([]domain.Link, 0)

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("order_key ASC").
		Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	return links, nil
}

// CountByOwner counts the owner's links
func (r *linkRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, domain.NewInternalError(err)
	}

	return count, nil
}

// HasLinks checks existence without loading rows
func (r *linkRepository) HasLinks(ctx context.Context, ownerID string) (bool, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("owner_id = ?", ownerID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, domain.NewInternalError(err)
	}

	return len(ids) > 0, nil
}

// UpdateContent locks the row, checks ownership and writes title/url
func (r *linkRepository) UpdateContent(ctx context.Context, callerID, id, title, url string) error {
	return r.withOwnedLink(ctx, callerID, id, func(tx *gorm.DB, link *domain.Link) error {
		return tx.Model(link).Updates(map[string]interface{}{
			"title": title,
			"url":   url,
		}).Error
	})
}

// Delete locks the row, checks ownership and removes it
func (r *linkRepository) Delete(ctx context.Context, callerID, id string) error {
	return r.withOwnedLink(ctx, callerID, id, func(tx *gorm.DB, link *domain.Link) error {
		return tx.Delete(link).Error
	})
}

// Reorder locks the caller's requested rows and rewrites their order keys.
// Rows owned by someone else are never selected, so they drop out here.
func (r *linkRepository) Reorder(ctx context.Context, callerID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	written := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []string
		err := tx.Model(&domain.Link{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND owner_id = ?", ids, callerID).
			Order("id").
			Pluck("id", &owned).Error
		if err != nil {
			return err
		}

		ownedSet := make(map[string]bool, len(owned))
		for _, id := range owned {
			ownedSet[id] = true
		}

		for _, a := range domain.AssignOrder(ids, ownedSet) {
			err := tx.Model(&domain.Link{}).
				Where("id = ? AND owner_id = ?", a.LinkID, callerID).
				Update("order_key", a.Order).Error
			if err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, domain.NewInternalError(err)
	}

	return written, nil
}

// withOwnedLink runs fn inside a transaction holding a row lock on the link
func (r *linkRepository) withOwnedLink(ctx context.Context, callerID, id string, fn func(tx *gorm.DB, link *domain.Link) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link domain.Link
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&link).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLinkNotFound
			}
			return err
		}

		if !link.OwnedBy(callerID) {
			return domain.ErrForbidden
		}

		return fn(tx, &link)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrLinkNotFound), errors.Is(err, domain.ErrForbidden):
		return err
	default:
		return domain.NewInternalError(err)
	}
}

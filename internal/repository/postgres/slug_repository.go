package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

// slugRepository implements repository.SlugRepository for PostgreSQL
type slugRepository struct {
	db *gorm.DB
}

// NewSlugRepository creates a new PostgreSQL slug repository
func NewSlugRepository(db *gorm.DB) repository.SlugRepository {
	return &slugRepository{db: db}
}

// FindBySlug resolves a slug to its mapping
func (r *slugRepository) FindBySlug(ctx context.Context, slug string) (*domain.SlugMapping, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

// FindByOwner returns the owner's claimed slug
func (r *slugRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.SlugMapping, error) {
	return r.findOne(ctx, "owner_id = ?", ownerID)
}

// Claim checks the slug inside a transaction and then renames or inserts.
// The unique indexes catch a concurrent claimer that slipped past the read.
func (r *slugRepository) Claim(ctx context.Context, ownerID, slug string) (string, error) {
	previous := ""

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.SlugMapping
		err := tx.Where("slug = ?", slug).First(&existing).Error
		switch {
		case err == nil && existing.OwnerID != ownerID:
			return domain.ErrSlugTaken
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var current domain.SlugMapping
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ownerID).
			First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&domain.SlugMapping{OwnerID: ownerID, Slug: slug}).Error
		}
		if err != nil {
			return err
		}

		previous = current.Slug
		return tx.Model(&current).Update("slug", slug).Error
	})

	switch {
	case err == nil:
		return previous, nil
	case errors.Is(err, domain.ErrSlugTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return "", domain.ErrSlugTaken
	default:
		return "", domain.NewInternalError(err)
	}
}

func (r *slugRepository) findOne(ctx context.Context, query string, arg string) (*domain.SlugMapping, error) {
	var mapping domain.SlugMapping

	err := r.db.WithContext(ctx).Where(query, arg).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSlugNotFound
		}
		return nil, domain.NewInternalError(err)
	}

	return &mapping, nil
}

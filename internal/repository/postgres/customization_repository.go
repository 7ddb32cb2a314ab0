package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

type customizationRepository struct {
	db *gorm.DB
}

// NewCustomizationRepository creates a new PostgreSQL customization repository
func NewCustomizationRepository(db *gorm.DB) repository.CustomizationRepository {
	return &customizationRepository{db: db}
}

func (r *customizationRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Customization, error) {
	var c domain.Customization

	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomizationNotFound
		}
		return nil, domain.NewInternalError(err)
	}
	return &c, nil
}

// Upsert relies on the unique owner_id index to turn a second save into an update
func (r *customizationRepository) Upsert(ctx context.Context, c *domain.Customization) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "accent_color", "profile_picture_url", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

package postgres

import (
	"gorm.io/gorm"

	"linkbio/internal/domain"
)

// Migrate creates or updates the tables this service owns
func Migrate(db *gorm.DB, withClicks bool) error {
	models := []interface{}{&domain.Link{}, &domain.SlugMapping{}, &domain.Customization{}}
	if withClicks {
		models = append(models, &ClickRecord{})
	}
	return db.AutoMigrate(models...)
}

package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

// ClickRecord is the row shape of click_events, used when Postgres is the
// analytics store instead of an external sink
type ClickRecord struct {
	ID              uint      `gorm:"primaryKey"`
	Timestamp       time.Time `gorm:"not null;index:idx_clicks_owner_ts,priority:2"`
	ProfileUsername string    `gorm:"size:255"`
	OwnerID         string    `gorm:"not null;size:255;index:idx_clicks_owner_ts,priority:1"`
	LinkID          string    `gorm:"size:36;index"`
	LinkTitle       string    `gorm:"size:255"`
	LinkURL         string    `gorm:"type:text"`
	UserAgent       string    `gorm:"type:text"`
	Referrer        *string   `gorm:"type:text"`
	VisitorID       string    `gorm:"size:32"`
	Country         string    `gorm:"size:100"`
	Region          string    `gorm:"size:100"`
	City            string    `gorm:"size:100"`
	Latitude        string    `gorm:"size:32"`
	Longitude       string    `gorm:"size:32"`
}

// TableName specifies the table name for GORM
func (ClickRecord) TableName() string {
	return "click_events"
}

type clickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates a new PostgreSQL click repository
func NewClickRepository(db *gorm.DB) repository.ClickRepository {
	return &clickRepository{db: db}
}

// Insert appends one event
func (r *clickRepository) Insert(ctx context.Context, event *domain.ClickEvent) error {
	record := ClickRecord{
		Timestamp:       event.Timestamp.UTC(),
		ProfileUsername: event.ProfileUsername,
		OwnerID:         event.OwnerID,
		LinkID:          event.LinkID,
		LinkTitle:       event.LinkTitle,
		LinkURL:         event.LinkURL,
		UserAgent:       event.UserAgent,
		Referrer:        event.Referrer,
		VisitorID:       event.VisitorID,
		Country:         event.Location.Country,
		Region:          event.Location.Region,
		City:            event.Location.City,
		Latitude:        event.Location.Latitude,
		Longitude:       event.Location.Longitude,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// List returns the owner's events in [Since, Until), optionally for one link
func (r *clickRepository) List(ctx context.Context, q domain.ClickQuery) ([]domain.ClickEvent, error) {
	var records []ClickRecord

	query := r.db.WithContext(ctx).
		Where("owner_id = ? AND timestamp >= ? AND timestamp < ?", q.OwnerID, q.Since, q.Until)
	if q.LinkID != "" {
		query = query.Where("link_id = ?", q.LinkID)
	}

	if err := query.Order("timestamp ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	events := make([]domain.ClickEvent, len(records))
	for i, rec := range records {
		events[i] = domain.ClickEvent{
			Timestamp:       rec.Timestamp.UTC(),
			ProfileUsername: rec.ProfileUsername,
			OwnerID:         rec.OwnerID,
			LinkID:          rec.LinkID,
			LinkTitle:       rec.LinkTitle,
			LinkURL:         rec.LinkURL,
			UserAgent:       rec.UserAgent,
			Referrer:        rec.Referrer,
			VisitorID:       rec.VisitorID,
			Location: domain.Location{
				Country:   rec.Country,
				Region:    rec.Region,
				City:      rec.City,
				Latitude:  rec.Latitude,
				Longitude: rec.Longitude,
			},
		}
	}
	return events, nil
}

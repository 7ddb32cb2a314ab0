package domain

import "time"

// SlugMapping maps a human-chosen slug to its owner. Both columns are unique.
type SlugMapping struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OwnerID   string    `gorm:"uniqueIndex;not null;size:255" json:"owner_id"`
	Slug      string    `gorm:"uniqueIndex;not null;size:50" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (SlugMapping) TableName() string {
	return "slug_mappings"
}

// ClaimSlugRequest is the payload for claiming or renaming a slug
type ClaimSlugRequest struct {
	Slug string `json:"slug"`
}

// SlugAvailability mirrors the answer given to the username form
type SlugAvailability struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// SlugResponse is the caller's public slug
type SlugResponse struct {
	Slug    string `json:"slug"`
	Claimed bool   `json:"claimed"`
}

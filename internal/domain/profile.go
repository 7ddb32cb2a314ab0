package domain

import "time"

// DefaultAccentColor is the accent shown until the owner picks one
const DefaultAccentColor = "#08CB00"

// Customization holds the presentation settings of an owner's public page
type Customization struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	OwnerID           string    `gorm:"uniqueIndex;not null;size:255" json:"owner_id"`
	Description       string    `gorm:"size:200" json:"description"`
	AccentColor       string    `gorm:"size:7" json:"accent_color"`
	ProfilePictureURL string    `gorm:"type:text" json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Customization) TableName() string {
	return "user_customizations"
}

// DefaultCustomization is what an owner without saved settings gets
func DefaultCustomization(ownerID string) *Customization {
	return &Customization{OwnerID: ownerID, AccentColor: DefaultAccentColor}
}

// UpdateCustomizationRequest replaces the owner's settings. Empty fields
// clear the stored value; an empty accent colour falls back to the default.
type UpdateCustomizationRequest struct {
	Description       string `json:"description"`
	AccentColor       string `json:"accent_color"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

package domain

import (
	"sort"
	"time"
)

// Link is one outbound link on a creator's page
type Link struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"not null;size:255;index:idx_links_owner_order,priority:1" json:"owner_id"`
	Title     string    `gorm:"not null;size:100" json:"title"`
	URL       string    `gorm:"not null;type:text" json:"url"`
	Order     int64     `gorm:"column:order_key;not null;index:idx_links_owner_order,priority:2" json:"order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Link) TableName() string {
	return "links"
}

// OwnedBy reports whether the caller owns the link
func (l *Link) OwnedBy(callerID string) bool {
	return l.OwnerID == callerID
}

// SortLinks orders links by order key, breaking ties by id
func SortLinks(links []Link) {
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Order != links[j].Order {
			return links[i].Order < links[j].Order
		}
		return links[i].ID < links[j].ID
	})
}

// OrderAssignment is a new order key for one link
type OrderAssignment struct {
	LinkID string
	Order  int64
}

// AssignOrder walks the requested sequence, drops ids the caller doesn't own
// (missing or foreign) and numbers the survivors densely from zero.
func AssignOrder(requested []string, owned map[string]bool) []OrderAssignment {
	out := make([]OrderAssignment, 0, len(requested))
	for _, id := range requested {
		if !owned[id] {
			continue
		}
		out = append(out, OrderAssignment{LinkID: id, Order: int64(len(out))})
	}
	return out
}

// CreateLinkRequest is the payload for creating a link
type CreateLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// UpdateLinkRequest is the payload for editing a link
type UpdateLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ReorderLinksRequest carries the client's final order
type ReorderLinksRequest struct {
	LinkIDs []string `json:"link_ids" binding:"required"`
}

// LinkCountResponse reports usage against the plan's link limit
type LinkCountResponse struct {
	Count     int64 `json:"count"`
	Limit     int   `json:"limit,omitempty"`
	Unlimited bool  `json:"unlimited"`
	CanCreate bool  `json:"can_create"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Code    int    `json:"code"`
}

package domain

import (
	"net/http"
	"time"
)

// TrackClickRequest is the client-reported click payload
type TrackClickRequest struct {
	ProfileUsername string `json:"profileUsername"`
	LinkID          string `json:"linkId"`
	LinkTitle       string `json:"linkTitle"`
	LinkURL         string `json:"linkUrl"`
	UserAgent       string `json:"userAgent,omitempty"`
	Referrer        string `json:"referrer,omitempty"`
}

// RequestMeta is what the server observes about the click request itself
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referer   string
	Headers   http.Header
}

// Location is a best-effort coarse geolocation; every field may be empty
type Location struct {
	Country   string `json:"country"`
	Region    string `json:"region"`
	City      string `json:"city"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// ClickEvent is an enriched click. It is forwarded once and never mutated.
type ClickEvent struct {
	Timestamp       time.Time
	ProfileUsername string
	OwnerID         string
	LinkID          string
	LinkTitle       string
	LinkURL         string
	UserAgent       string
	Referrer        *string
	VisitorID       string
	Location        Location
}

// ClickQuery selects events for aggregation
type ClickQuery struct {
	OwnerID string
	LinkID  string // optional
	Since   time.Time
	Until   time.Time
}

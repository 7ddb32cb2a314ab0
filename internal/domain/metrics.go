package domain

import "time"

// DailyBucket is the activity of one UTC calendar day
type DailyBucket struct {
	Date           string `json:"date"`
	Clicks         int64  `json:"clicks"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

// CountryBucket is the share of clicks from one country
type CountryBucket struct {
	Country    string  `json:"country"`
	Clicks     int64   `json:"clicks"`
	Percentage float64 `json:"percentage"`
}

// Metrics is the aggregated view of an owner's (or a single link's) clicks
type Metrics struct {
	LinkID            string          `json:"link_id,omitempty"`
	TotalClicks       int64           `json:"total_clicks"`
	UniqueVisitors    int64           `json:"unique_visitors"`
	CountriesReached  int64           `json:"countries_reached"`
	TotalLinksClicked int64           `json:"total_links_clicked"`
	LastClick         *time.Time      `json:"last_click"`
	TopLinkTitle      string          `json:"top_link_title,omitempty"`
	TopReferrer       string          `json:"top_referrer,omitempty"`
	PeakDailyClicks   int64           `json:"peak_daily_clicks"`
	Daily             []DailyBucket   `json:"daily"`
	Countries         []CountryBucket `json:"countries,omitempty"`
	GeoLocked         bool            `json:"geo_locked"`
	WindowDays        int             `json:"window_days"`
}

// StripGeo removes every country-derived field
func (m *Metrics) StripGeo() {
	m.CountriesReached = 0
	m.Countries = nil
	m.GeoLocked = true
}

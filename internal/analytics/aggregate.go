// Package analytics folds raw click events into dashboard metrics.
package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"net/url"
	"sort"
	"strings"

	"linkbio/internal/domain"
)

const dayLayout = "2006-01-02"

// VisitorID derives the forwarded visitor id from what the server saw
func VisitorID(clientIP, userAgent string) string {
	return shortHash(clientIP + "|" + userAgent)
}

// VisitorKey is the identity counted for unique visitors. Events forwarded
// without a visitor id fall back to user agent plus coarse location.
func VisitorKey(e *domain.ClickEvent) string {
	if e.VisitorID != "" {
		return e.VisitorID
	}
	return shortHash(strings.Join([]string{e.UserAgent, e.Location.Country, e.Location.Region, e.Location.City}, "|"))
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}

// ReferrerHost reduces a referrer to its lowercased hostname without "www.".
// Values that don't parse to a hostname pass through unchanged.
func ReferrerHost(referrer string) string {
	parsed, err := url.Parse(referrer)
	if err != nil || parsed.Hostname() == "" {
		return referrer
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

// Aggregate computes metrics over events. An empty slice yields the
// all-zero metrics with empty (non-nil) daily buckets.
func Aggregate(events []domain.ClickEvent) domain.Metrics {
	m := domain.Metrics{Daily: []domain.DailyBucket{}}
	if len(events) == 0 {
		return m
	}

	visitors := make(map[string]struct{})
	links := make(map[string]struct{})
	titles := make(map[string]int64)
	referrers := make(map[string]int64)
	countries := make(map[string]int64)

	type day struct {
		clicks   int64
		visitors map[string]struct{}
	}
	days := make(map[string]*day)

	for i := range events {
		e := &events[i]
		key := VisitorKey(e)

		m.TotalClicks++
		visitors[key] = struct{}{}
		links[e.LinkID] = struct{}{}
		titles[e.LinkTitle]++

		if m.LastClick == nil || e.Timestamp.After(*m.LastClick) {
			ts := e.Timestamp.UTC()
			m.LastClick = &ts
		}

		if e.Referrer != nil {
			ref := strings.TrimSpace(*e.Referrer)
			if ref != "" && !strings.EqualFold(ref, "direct") {
				referrers[ReferrerHost(ref)]++
			}
		}

		if c := strings.TrimSpace(e.Location.Country); c != "" {
			countries[c]++
		}

		date := e.Timestamp.UTC().Format(dayLayout)
		d, ok := days[date]
		if !ok {
			d = &day{visitors: make(map[string]struct{})}
			days[date] = d
		}
		d.clicks++
		d.visitors[key] = struct{}{}
	}

	m.UniqueVisitors = int64(len(visitors))
	m.TotalLinksClicked = int64(len(links))
	m.CountriesReached = int64(len(countries))
	m.TopLinkTitle = topKey(titles)
	m.TopReferrer = topKey(referrers)

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		d := days[date]
		m.Daily = append(m.Daily, domain.DailyBucket{
			Date:           date,
			Clicks:         d.clicks,
			UniqueVisitors: int64(len(d.visitors)),
		})
		if d.clicks > m.PeakDailyClicks {
			m.PeakDailyClicks = d.clicks
		}
	}

	m.Countries = make([]domain.CountryBucket, 0, len(countries))
	for country, clicks := range countries {
		m.Countries = append(m.Countries, domain.CountryBucket{
			Country:    country,
			Clicks:     clicks,
			Percentage: percentOf(clicks, m.TotalClicks),
		})
	}
	sort.Slice(m.Countries, func(i, j int) bool {
		if m.Countries[i].Clicks != m.Countries[j].Clicks {
			return m.Countries[i].Clicks > m.Countries[j].Clicks
		}
		return m.Countries[i].Country < m.Countries[j].Country
	})

	return m
}

// topKey returns the most frequent key; ties go to the lexicographically smallest
func topKey(counts map[string]int64) string {
	best := ""
	var bestCount int64
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < best) {
			best, bestCount = key, count
		}
	}
	return best
}

// percentOf rounds to one decimal place
func percentOf(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// Package geo resolves a coarse location for a click request
package geo

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/oschwald/geoip2-golang"

	"linkbio/internal/domain"
	"linkbio/pkg/logger"
)

// Locator resolves a best-effort location. It never fails; unknown fields stay empty.
type Locator interface {
	Locate(clientIP string, headers http.Header) domain.Location
}

// Platform geolocation hints set by the edge in front of the service
const (
	headerVercelCountry   = "X-Vercel-IP-Country"
	headerVercelRegion    = "X-Vercel-IP-Country-Region"
	headerVercelCity      = "X-Vercel-IP-City"
	headerVercelLatitude  = "X-Vercel-IP-Latitude"
	headerVercelLongitude = "X-Vercel-IP-Longitude"
	headerCloudflare      = "CF-IPCountry"
)

// cityReader is the part of *geoip2.Reader the locator uses
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// MaxMindLocator prefers trusted edge headers and falls back to a GeoIP database
type MaxMindLocator struct {
	trustHeaders bool
	logger       *logger.Logger

	mu     sync.RWMutex
	reader cityReader
}

// NewLocator opens the GeoIP database at dbPath if given. A missing or
// unreadable database only disables the fallback.
func NewLocator(dbPath string, trustHeaders bool, log *logger.Logger) *MaxMindLocator {
	l := &MaxMindLocator{trustHeaders: trustHeaders, logger: log}
	if dbPath == "" {
		log.Info("GeoIP database not configured, using edge headers only")
		return l
	}

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		log.Warn("Failed to open GeoIP database, lookups disabled", "path", dbPath, "error", err)
		return l
	}
	meta := reader.Metadata()
	log.Info("GeoIP database loaded", "path", dbPath, "epoch", meta.BuildEpoch)
	l.reader = reader
	return l
}

// Locate implements Locator
func (l *MaxMindLocator) Locate(clientIP string, headers http.Header) domain.Location {
	if l.trustHeaders {
		if loc, ok := fromHeaders(headers); ok {
			return loc
		}
	}
	return l.fromDatabase(clientIP)
}

// Close releases the GeoIP database
func (l *MaxMindLocator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reader == nil {
		return nil
	}
	err := l.reader.Close()
	l.reader = nil
	return err
}

func fromHeaders(h http.Header) (domain.Location, bool) {
	if h == nil {
		return domain.Location{}, false
	}

	loc := domain.Location{
		Country:   h.Get(headerVercelCountry),
		Region:    h.Get(headerVercelRegion),
		City:      unescape(h.Get(headerVercelCity)),
		Latitude:  h.Get(headerVercelLatitude),
		Longitude: h.Get(headerVercelLongitude),
	}
	if loc.Country == "" {
		// XX and T1 are Cloudflare's unknown and Tor markers
		if cc := h.Get(headerCloudflare); cc != "" && cc != "XX" && cc != "T1" {
			loc.Country = cc
		}
	}
	return loc, loc.Country != ""
}

func (l *MaxMindLocator) fromDatabase(clientIP string) domain.Location {
	l.mu.RLock()
	reader := l.reader
	l.mu.RUnlock()
	if reader == nil {
		return domain.Location{}
	}

	ip := net.ParseIP(clientIP)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() {
		return domain.Location{}
	}

	record, err := reader.City(ip)
	if err != nil {
		l.logger.Debug("GeoIP lookup failed", "ip", clientIP, "error", err)
		return domain.Location{}
	}

	loc := domain.Location{
		Country: record.Country.IsoCode,
		City:    record.City.Names["en"],
	}
	if len(record.Subdivisions) > 0 {
		loc.Region = record.Subdivisions[0].IsoCode
	}
	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		loc.Latitude = strconv.FormatFloat(record.Location.Latitude, 'f', 4, 64)
		loc.Longitude = strconv.FormatFloat(record.Location.Longitude, 'f', 4, 64)
	}
	return loc
}

func unescape(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}

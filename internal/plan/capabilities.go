// Package plan turns the external plan tier and feature grants into one
// explicit capability set. Business code asks the set, never the tier name.
package plan

import (
	"sort"
	"strings"
)

// Capability is a single feature grant
type Capability string

const (
	Analytics     Capability = "analytics"
	GeoAnalytics  Capability = "geo_analytics"
	ProCapacity   Capability = "pro_capacity"
	UltraCapacity Capability = "ultra_capacity"
)

// Tier names issued by the billing provider
const (
	TierFree  = "free"
	TierPro   = "pro"
	TierUltra = "ultra"
)

const (
	freeLinkLimit = 3
	proLinkLimit  = 10
)

var tierGrants = map[string][]Capability{
	TierFree:  nil,
	TierPro:   {Analytics, ProCapacity},
	TierUltra: {Analytics, GeoAnalytics, ProCapacity, UltraCapacity},
}

// Capabilities is the resolved set for one caller
type Capabilities struct {
	granted map[Capability]bool
}

// Resolve merges the tier's grants with any individually granted features.
// Unknown tiers resolve like free; unknown features are ignored.
func Resolve(tier string, features []string) Capabilities {
	c := Capabilities{granted: make(map[Capability]bool)}
	for _, capability := range tierGrants[strings.ToLower(strings.TrimSpace(tier))] {
		c.granted[capability] = true
	}
	for _, f := range features {
		switch capability := Capability(strings.ToLower(strings.TrimSpace(f))); capability {
		case Analytics, GeoAnalytics, ProCapacity, UltraCapacity:
			c.granted[capability] = true
		}
	}
	return c
}

// Of builds a set directly, mostly for tests
func Of(capabilities ...Capability) Capabilities {
	c := Capabilities{granted: make(map[Capability]bool, len(capabilities))}
	for _, capability := range capabilities {
		c.granted[capability] = true
	}
	return c
}

// Has reports whether the capability is granted
func (c Capabilities) Has(capability Capability) bool {
	return c.granted[capability]
}

// LinkLimit returns the maximum number of links and whether the caller is unlimited
func (c Capabilities) LinkLimit() (limit int, unlimited bool) {
	switch {
	case c.Has(UltraCapacity):
		return 0, true
	case c.Has(ProCapacity):
		return proLinkLimit, false
	default:
		return freeLinkLimit, false
	}
}

// CanCreateLink reports whether one more link fits under the limit
func (c Capabilities) CanCreateLink(current int64) bool {
	limit, unlimited := c.LinkLimit()
	return unlimited || current < int64(limit)
}

// List returns the granted capabilities in a stable order
func (c Capabilities) List() []string {
	out := make([]string, 0, len(c.granted))
	for capability := range c.granted {
		out = append(out, string(capability))
	}
	sort.Strings(out)
	return out
}

// Package catalog serves the static reference data behind the address and
// insurer suggestion dropdowns.
package catalog

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/soulconnect/clinic-console/internal/client"
	"github.com/soulconnect/clinic-console/internal/model"
)

// EPSList is the fixed set of Colombian health insurers offered as
// suggestions. Free text remains allowed; the list is not a constraint.
var EPSList = []string{
	"Nueva EPS",
	"EPS Sura",
	"Sanitas",
	"Salud Total",
	"Compensar",
	"Famisanar",
	"Coosalud",
	"Mutual Ser",
	"Aliansalud",
	"Savia Salud",
	"Emssanar",
	"Capital Salud",
	"Ecoopsos",
	"Cajacopi",
	"Asmet Salud",
	"SOS EPS",
	"EPS Familiar de Colombia",
	"Dusakawi EPSI",
	"Mallamas EPSI",
	"AIC EPSI",
}

// FilterEPS returns the insurers whose name contains term,
// case-insensitively. An empty term returns the full list.
func FilterEPS(term string) []string {
	value := strings.ToLower(strings.TrimSpace(term))
	if value == "" {
		return EPSList
	}
	var out []string
	for _, eps := range EPSList {
		if strings.Contains(strings.ToLower(eps), value) {
			out = append(out, eps)
		}
	}
	return out
}

// FilterLocations returns the locations whose "city department" haystack
// contains term, case-insensitively. An empty term returns all.
func FilterLocations(all []model.Location, term string) []model.Location {
	value := strings.ToLower(strings.TrimSpace(term))
	if value == "" {
		return all
	}
	var out []model.Location
	for _, loc := range all {
		if strings.Contains(loc.SearchKey(), value) {
			out = append(out, loc)
		}
	}
	return out
}

const locationsCacheKey = "locations"

// Locations memoizes the static city/department dataset. The asset is
// fetched at most once per cache window rather than on every page load.
type Locations struct {
	src   *client.Locations
	cache *gocache.Cache
}

// NewLocations wraps the asset client with an expiring cache.
func NewLocations(src *client.Locations, ttl time.Duration) *Locations {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Locations{
		src:   src,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Load returns the flattened dataset, fetching it only when the cached copy
// has expired.
func (l *Locations) Load(ctx context.Context) ([]model.Location, error) {
	if cached, ok := l.cache.Get(locationsCacheKey); ok {
		return cached.([]model.Location), nil
	}
	locations, err := l.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.Set(locationsCacheKey, locations, gocache.DefaultExpiration)
	return locations, nil
}

package geo

import (
	"context"
	"fmt"
	"log"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// Geocoder resolves location strings to coordinates, consulting the cache
// before the external provider. The geocoder owns the cache exclusively.
type Geocoder struct {
	cache    Cache
	provider Provider
}

// NewGeocoder wires a cache and a provider into a geocoder.
func NewGeocoder(cache Cache, provider Provider) *Geocoder {
	return &Geocoder{cache: cache, provider: provider}
}

// Resolve returns coordinates for a free-text location, or (nil, nil) when
// the provider has no match. "No match" is deliberately not cached so a
// later run can retry once the provider's data improves. Transport failures
// are logged and returned; only the caller decides whether to persist the
// listing without coordinates.
func (g *Geocoder) Resolve(ctx context.Context, location string) (*model.Coordinates, error) {
	key := NormalizeLocation(location)
	if key == "" {
		return nil, nil
	}

	cached, hit, err := g.cache.Get(ctx, key)
	if err != nil {
		// Cache trouble degrades to a provider call rather than failing the resolve.
		log.Printf("[geocoder] cache read for %q failed: %v — falling through to provider", key, err)
	} else if hit {
		return cached, nil
	}

	results, err := g.provider.Geocode(ctx, location)
	if err != nil {
		log.Printf("[geocoder] provider call for %q failed: %v", key, err)
		return nil, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	coords := results[0]
	if err := g.cache.Set(ctx, key, coords); err != nil {
		log.Printf("[geocoder] cache write for %q failed: %v", key, err)
	}
	return &coords, nil
}

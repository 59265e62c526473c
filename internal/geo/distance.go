package geo

import (
	"errors"
	"math"
	"sort"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// ErrInvalidRadius rejects non-positive search radii.
var ErrInvalidRadius = errors.New("radiusKm must be greater than zero")

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two WGS84 points in
// kilometers.
func Haversine(a, b model.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// FilterByDistance returns the listings within radiusKm of ref, sorted
// ascending by distance with ties keeping input order. A listing without
// coordinates keeps a nil DistanceKm (+Inf does not survive JSON encoding):
// it is included only when includeRemote is true and always sorts last.
// Pure — the input slice is left untouched.
func FilterByDistance(
	listings []model.ScorableListing,
	ref model.Coordinates,
	radiusKm float64,
	includeRemote bool,
) ([]model.ScorableListing, error) {
	if radiusKm <= 0 {
		return nil, ErrInvalidRadius
	}

	out := make([]model.ScorableListing, 0, len(listings))
	for _, l := range listings {
		if l.Coords == nil {
			if !includeRemote {
				continue
			}
			l.DistanceKm = nil
			out = append(out, l)
			continue
		}
		d := Haversine(ref, *l.Coords)
		if d > radiusKm {
			continue
		}
		l.DistanceKm = &d
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return distanceOf(out[i]) < distanceOf(out[j])
	})
	return out, nil
}

func distanceOf(l model.ScorableListing) float64 {
	if l.DistanceKm == nil {
		return math.Inf(1)
	}
	return *l.DistanceKm
}

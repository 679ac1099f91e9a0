package geo

import (
	"academy-map-api/internal/models"

	"github.com/umahmood/haversine"
)

// DistanceMeters returns the great-circle distance between a and b on a sphere of
// radius 6371 km.
func DistanceMeters(a, b models.LatLng) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lng},
		haversine.Coord{Lat: b.Lat, Lon: b.Lng},
	)
	return km * 1000
}

// Plan is the circular search area derived from a map viewport.
type Plan struct {
	Center  models.LatLng
	RadiusM float64
	Bounds  []Range
}

// PlanViewport turns the northeast/southwest corners of a viewport into a center, a
// radius of half the corner-to-corner distance, and the geohash ranges covering it.
func PlanViewport(ne, sw models.LatLng) Plan {
	center := models.LatLng{
		Lat: (ne.Lat + sw.Lat) / 2,
		Lng: (ne.Lng + sw.Lng) / 2,
	}
	radius := DistanceMeters(ne, sw) / 2

	return Plan{
		Center:  center,
		RadiusM: radius,
		Bounds:  QueryBounds(center, radius),
	}
}

// Within reports whether p lies inside the plan's circle. A point exactly on the
// boundary is inside.
func (p Plan) Within(point models.LatLng) bool {
	return WithinRadius(DistanceMeters(p.Center, point), p.RadiusM)
}

// WithinRadius reports whether distanceM does not exceed radiusM.
func WithinRadius(distanceM, radiusM float64) bool {
	return distanceM <= radiusM
}

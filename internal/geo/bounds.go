package geo

import (
	"math"

	"academy-map-api/internal/models"
)

const (
	earthMeridionalCircumference = 40007860.0
	metersPerDegreeLatitude      = 110574.0
	earthEquatorialRadius        = 6378137.0
	earthEccentricitySquared     = 0.00669447819799
	epsilon                      = 1e-12
)

// Range is an inclusive [Start, End] interval of geohash strings.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether the geohash h sorts inside the range.
func (r Range) Contains(h string) bool {
	return h >= r.Start && h <= r.End
}

// QueryBounds returns the geohash ranges that together cover every point within
// radiusM meters of center. Duplicate ranges are removed, order is stable.
func QueryBounds(center models.LatLng, radiusM float64) []Range {
	queryBits := math.Max(1, float64(boundingBoxBits(center, radiusM)))
	precision := int(math.Ceil(queryBits / bitsPerChar))

	var ranges []Range
	seen := make(map[Range]struct{}, 9)
	for _, p := range boundingBoxProbes(center, radiusM) {
		r := rangeForPrefix(EncodeWithPrecision(p.Lat, p.Lng, precision), int(queryBits))
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		ranges = append(ranges, r)
	}
	return ranges
}

// rangeForPrefix widens the geohash to the cell addressed by its first bits bits.
func rangeForPrefix(hash string, bits int) Range {
	precision := int(math.Ceil(float64(bits) / bitsPerChar))
	if len(hash) < precision {
		return Range{Start: hash, End: hash + "~"}
	}
	hash = hash[:precision]
	base := hash[:len(hash)-1]
	last := indexBase32(hash[len(hash)-1])
	significant := bits - len(base)*bitsPerChar
	unused := bitsPerChar - significant

	start := (last >> unused) << unused
	end := start + (1 << unused)
	if end > 31 {
		return Range{Start: base + string(base32[start]), End: base + "~"}
	}
	return Range{Start: base + string(base32[start]), End: base + string(base32[end])}
}

func indexBase32(c byte) int {
	for i := 0; i < len(base32); i++ {
		if base32[i] == c {
			return i
		}
	}
	return 0
}

// boundingBoxBits is the number of geohash bits whose cells are at least size meters wide
// at every latitude the search box touches.
func boundingBoxBits(center models.LatLng, size float64) int {
	latDelta := size / metersPerDegreeLatitude
	north := math.Min(90, center.Lat+latDelta)
	south := math.Max(-90, center.Lat-latDelta)

	bitsLat := int(math.Floor(latitudeBitsForResolution(size))) * 2
	bitsLngNorth := int(math.Floor(longitudeBitsForResolution(size, north)))*2 - 1
	bitsLngSouth := int(math.Floor(longitudeBitsForResolution(size, south)))*2 - 1

	return min(bitsLat, bitsLngNorth, bitsLngSouth, maxQueryBits)
}

// boundingBoxProbes returns the center, the four edge midpoints and the four corners
// of the box enclosing the circle.
func boundingBoxProbes(center models.LatLng, radius float64) []models.LatLng {
	latDegrees := radius / metersPerDegreeLatitude
	north := math.Min(90, center.Lat+latDegrees)
	south := math.Max(-90, center.Lat-latDegrees)
	lngDegrees := math.Max(
		metersToLongitudeDegrees(radius, north),
		metersToLongitudeDegrees(radius, south),
	)
	west := wrapLongitude(center.Lng - lngDegrees)
	east := wrapLongitude(center.Lng + lngDegrees)

	return []models.LatLng{
		{Lat: center.Lat, Lng: center.Lng},
		{Lat: center.Lat, Lng: west},
		{Lat: center.Lat, Lng: east},
		{Lat: north, Lng: center.Lng},
		{Lat: north, Lng: west},
		{Lat: south, Lng: center.Lng},
		{Lat: south, Lng: west},
		{Lat: north, Lng: east},
		{Lat: south, Lng: east},
	}
}

func metersToLongitudeDegrees(distance, latitude float64) float64 {
	rad := latitude * math.Pi / 180
	num := math.Cos(rad) * earthEquatorialRadius * math.Pi / 180
	denom := 1 / math.Sqrt(1-earthEccentricitySquared*math.Sin(rad)*math.Sin(rad))
	deltaDeg := num * denom
	if deltaDeg < epsilon {
		if distance > 0 {
			return 360
		}
		return 0
	}
	return math.Min(360, distance/deltaDeg)
}

func longitudeBitsForResolution(resolution, latitude float64) float64 {
	degs := metersToLongitudeDegrees(resolution, latitude)
	if math.Abs(degs) > 0.000001 {
		return math.Max(1, math.Log2(360/degs))
	}
	return 1
}

func latitudeBitsForResolution(resolution float64) float64 {
	return math.Min(math.Log2(earthMeridionalCircumference/2/resolution), maxQueryBits)
}

func wrapLongitude(lng float64) float64 {
	if lng <= 180 && lng >= -180 {
		return lng
	}
	adjusted := lng + 180
	if adjusted > 0 {
		return math.Mod(adjusted, 360) - 180
	}
	return 180 - math.Mod(-adjusted, 360)
}

package models

import "math"

// Academy represents a single registered tutoring academy as stored in the academies table.
// Coordinates and geohash stay nil until the geocoding pass and the geohash backfill have run.
type Academy struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Course       string   `json:"course"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Latitude     *float64 `json:"lat"`
	Longitude    *float64 `json:"lng"`
	Geohash      *string  `json:"geohash,omitempty"`
	RegionCode   string   `json:"region_code"`
	RegionName   string   `json:"region_name"`
	DistrictArea string   `json:"district_area"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (a Academy) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// HasValidCoordinates reports whether the academy carries finite, in-range coordinates.
func (a Academy) HasValidCoordinates() bool {
	if !a.HasCoordinates() {
		return false
	}
	return ValidLatLng(*a.Latitude, *a.Longitude)
}

// ValidLatLng reports whether lat/lng are finite and within WGS84 bounds.
func ValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

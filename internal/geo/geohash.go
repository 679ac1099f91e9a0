// Package geo plans geohash range queries for circular search areas.
//
// Geohash precision determines the cell size:
//
//	1 → ~5000 km    4 → ~39 km     7 → ~153 m    10 → ~1.2 m
//	2 → ~1250 km    5 → ~5 km      8 → ~19 m     11 → ~15 cm
//	3 → ~156 km     6 → ~1.2 km    9 → ~2.4 m    12 → ~1.9 cm
//
// Stored academies use precision 10. A circle of any radius is covered by at most
// nine [start, end] string ranges over that column; the ranges over-cover, so
// callers must still check the true distance of every candidate.
package geo

import (
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// Precision is the length of the geohash stored for every academy.
const Precision = 10

const (
	base32       = "0123456789bcdefghjkmnpqrstuvwxyz"
	bitsPerChar  = 5
	maxQueryBits = 22 * bitsPerChar
)

// Encode returns the geohash of lat/lng at the stored precision.
func Encode(lat, lng float64) string {
	return EncodeWithPrecision(lat, lng, Precision)
}

// EncodeWithPrecision returns the geohash of lat/lng with the given number of characters.
func EncodeWithPrecision(lat, lng float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > 22 {
		precision = 22
	}
	return geohash.EncodeWithPrecision(lat, lng, precision)
}

// ValidGeohash reports whether s is a non-empty string of geohash base32 characters.
func ValidGeohash(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(base32, s[i]) < 0 {
			return false
		}
	}
	return true
}

package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Reputation holds the aggregated review score of one academy.
// AcademyName is the normalized join key, see NormalizeName.
type Reputation struct {
	AcademyName  string  `json:"academy_name"`
	DisplayName  string  `json:"display_name"`
	Score        float64 `json:"reputation_score_100"`
	RawScore     float64 `json:"raw_reputation_score"`
	TotalReviews int     `json:"total_reviews"`
}

// NormalizeName trims surrounding whitespace and lower-cases an academy name.
// Two names join only when their normalized forms are byte-equal.
func NormalizeName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

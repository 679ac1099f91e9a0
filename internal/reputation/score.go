// Package reputation derives academy reputation scores from raw reviews.
//
// Each review gets a trust score, the product of three factors:
//
//	content      0.1 when the text is missing or shorter than 10 characters,
//	             0.2 when shorter than 50 and made of a generic phrase,
//	             0.9 when longer than 100, else 0.5
//	repetition   0.1 when the same text appears twice in the same source, else 1
//	discrepancy  0.2 when a rating of 4+ comes with clearly negative text, else 1
//
// Per academy the raw score is
//
//	0.4*avg(rating) + 0.2*(avg(sentiment)+1)/2 + 0.2*reviews/maxReviews
//	  + 0.1*(1 - newestAgeDays/maxNewestAgeDays) + 0.1*avg(trust)
//
// and the 100-point score divides it by the highest reachable raw score.
package reputation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"academy-map-api/internal/models"
)

const (
	WeightRating      = 0.4
	WeightSentiment   = 0.2
	WeightReviewCount = 0.2
	WeightFreshness   = 0.1
	WeightTrust       = 0.1

	// MaxRating is the top of the review rating scale.
	MaxRating = 5.0
)

// TheoreticalMax is the raw score of an academy that maxes out every feature.
const TheoreticalMax = WeightRating*MaxRating + WeightSentiment + WeightReviewCount + WeightFreshness + WeightTrust

var (
	genericPhrases   = []string{"최고의 학원", "강추", "좋아요", "만족합니다", "매우 만족", "별로예요", "비추천"}
	positiveKeywords = []string{"좋아요", "만족", "좋은 점", "추천", "꼼꼼히", "친절", "감사", "도움"}
	negativeKeywords = []string{"아쉬운 점", "단점", "부족", "불편", "비추천", "불만", "힘들"}
)

// ContentTrust rates how informative a review text is.
func ContentTrust(text *string) float64 {
	if text == nil {
		return 0.1
	}
	n := utf8.RuneCountInString(*text)
	switch {
	case n < 10:
		return 0.1
	case n < 50 && containsAny(*text, genericPhrases):
		return 0.2
	case n > 100:
		return 0.9
	default:
		return 0.5
	}
}

// Sentiment returns (positive - negative) / (positive + negative) keyword hits, in
// [-1, 1], or 0 when no keyword occurs.
func Sentiment(text *string) float64 {
	if text == nil {
		return 0
	}
	pos := countAll(*text, positiveKeywords)
	neg := countAll(*text, negativeKeywords)
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// DiscrepancyTrust penalizes a high rating paired with clearly negative text.
func DiscrepancyTrust(rating *float64, sentiment float64) float64 {
	if rating != nil && *rating >= 4.0 && sentiment < -0.5 {
		return 0.2
	}
	return 1.0
}

var leadingNumber = regexp.MustCompile(`\d+`)

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006.01.02.",
	"2006.01.02",
	"2006/01/02",
}

// ParseReviewDate understands relative Korean dates such as "3일 전" or "2개월 전"
// (a month counts as 30 days, a year as 365) and a few absolute layouts.
func ParseReviewDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	units := []struct {
		suffix string
		unit   time.Duration
	}{
		{"년 전", 365 * 24 * time.Hour},
		{"개월 전", 30 * 24 * time.Hour},
		{"일 전", 24 * time.Hour},
		{"시간 전", time.Hour},
		{"분 전", time.Minute},
		{"초 전", time.Second},
	}
	for _, u := range units {
		if !strings.Contains(s, u.suffix) {
			continue
		}
		n, err := strconv.Atoi(leadingNumber.FindString(s))
		if err != nil {
			return time.Time{}, false
		}
		return now.Add(-time.Duration(n) * u.unit), true
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type aggregate struct {
	displayName  string
	reviews      int
	ratingSum    float64
	ratings      int
	trustSum     float64
	sentimentSum float64
	newestDays   int
}

// Score computes the reputation of every academy that has at least one review with a
// readable date. Academies are keyed by their normalized name and returned best first.
func Score(reviews []models.Review, now time.Time) []models.Reputation {
	type repeatKey struct {
		text   string
		hasTxt bool
		source string
	}
	seen := make(map[repeatKey]int, len(reviews))
	keyOf := func(r models.Review) repeatKey {
		k := repeatKey{source: r.SourceFile}
		if r.Text != nil {
			k.text, k.hasTxt = *r.Text, true
		}
		return k
	}
	for _, r := range reviews {
		seen[keyOf(r)]++
	}

	groups := make(map[string]*aggregate)
	for _, r := range reviews {
		if r.DateCreated == nil {
			continue
		}
		created, ok := ParseReviewDate(*r.DateCreated, now)
		if !ok {
			continue
		}
		name := models.NormalizeName(r.AcademyName)
		if name == "" {
			continue
		}

		repetition := 1.0
		if seen[keyOf(r)] > 1 {
			repetition = 0.1
		}
		sentiment := Sentiment(r.Text)
		trust := ContentTrust(r.Text) * repetition * DiscrepancyTrust(r.Rating, sentiment)
		days := int(now.Sub(created).Hours() / 24)

		g, ok := groups[name]
		if !ok {
			g = &aggregate{displayName: strings.TrimSpace(r.AcademyName), newestDays: days}
			groups[name] = g
		}
		g.reviews++
		g.trustSum += trust
		g.sentimentSum += sentiment
		if r.Rating != nil {
			g.ratingSum += *r.Rating
			g.ratings++
		}
		g.newestDays = min(g.newestDays, days)
	}

	maxReviews, maxDays := 0, 0
	for _, g := range groups {
		maxReviews = max(maxReviews, g.reviews)
		maxDays = max(maxDays, g.newestDays)
	}

	out := make([]models.Reputation, 0, len(groups))
	for name, g := range groups {
		n := float64(g.reviews)
		avgRating := 0.0
		if g.ratings > 0 {
			avgRating = g.ratingSum / float64(g.ratings)
		}
		freshness := 1.0
		if maxDays > 0 {
			freshness = 1 - float64(g.newestDays)/float64(maxDays)
		}

		raw := WeightRating*avgRating +
			WeightSentiment*(g.sentimentSum/n+1)/2 +
			WeightReviewCount*n/float64(maxReviews) +
			WeightFreshness*freshness +
			WeightTrust*g.trustSum/n

		out = append(out, models.Reputation{
			AcademyName:  name,
			DisplayName:  g.displayName,
			Score:        raw / TheoreticalMax * 100,
			RawScore:     raw,
			TotalReviews: g.reviews,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].AcademyName < out[j].AcademyName
	})
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func countAll(s string, subs []string) int {
	n := 0
	for _, sub := range subs {
		n += strings.Count(s, sub)
	}
	return n
}

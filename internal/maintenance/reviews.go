package maintenance

import (
	"context"
	"time"

	"academy-map-api/internal/batch"
	"academy-map-api/internal/models"
	"academy-map-api/internal/reputation"

	"github.com/rotisserie/eris"
)

// ReviewCounter exposes review counts and the reputations they belong to.
type ReviewCounter interface {
	CountReviewsByAcademy(ctx context.Context) (map[string]int, error)
	ListReputations(ctx context.Context) ([]models.Reputation, error)
}

// RecountReviews sets the review count of every reputation to the number of raw reviews
// whose academy name normalizes to the reputation's name. Reputations whose count is
// already right are left alone.
func RecountReviews(ctx context.Context, src ReviewCounter, c batch.Committer, size int) (Report, error) {
	var rep Report

	raw, err := src.CountReviewsByAcademy(ctx)
	if err != nil {
		return rep, eris.Wrap(err, "recount reviews")
	}
	counts := make(map[string]int, len(raw))
	for name, n := range raw {
		counts[models.NormalizeName(name)] += n
	}

	reps, err := src.ListReputations(ctx)
	if err != nil {
		return rep, eris.Wrap(err, "recount reviews")
	}

	w := newWriter(c, size, "reviews-recount")
	for _, r := range reps {
		rep.Scanned++
		n := counts[models.NormalizeName(r.AcademyName)]
		if n == r.TotalReviews {
			rep.Skipped++
			continue
		}
		if err := w.Add(ctx, batch.SetTotalReviews(r.AcademyName, n)); err != nil {
			return rep, eris.Wrap(err, "recount reviews")
		}
		rep.Written++
	}
	if err := w.Flush(ctx); err != nil {
		return rep, eris.Wrap(err, "recount reviews")
	}
	return rep, nil
}

// ReviewLister lists every raw review.
type ReviewLister interface {
	ListReviews(ctx context.Context) ([]models.Review, error)
}

// ScoreReputations recomputes the reputation of every reviewed academy and upserts it.
func ScoreReputations(ctx context.Context, src ReviewLister, c batch.Committer, size int, now time.Time) (Report, error) {
	var rep Report

	reviews, err := src.ListReviews(ctx)
	if err != nil {
		return rep, eris.Wrap(err, "score reputations")
	}
	rep.Scanned = len(reviews)

	w := newWriter(c, size, "reputation-score")
	for _, r := range reputation.Score(reviews, now) {
		if err := w.Add(ctx, batch.UpsertReputation(r)); err != nil {
			return rep, eris.Wrap(err, "score reputations")
		}
		rep.Written++
	}
	if err := w.Flush(ctx); err != nil {
		return rep, eris.Wrap(err, "score reputations")
	}
	return rep, nil
}

package maintenance

import (
	"context"
	"io"
	"strings"

	"academy-map-api/internal/batch"
	"academy-map-api/internal/geo"
	"academy-map-api/internal/models"
	"academy-map-api/internal/ndjson"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// UploadAcademies inserts the academies read from an NDJSON stream. Academies without an
// ID get a random one. Name and course are trimmed so the exact course filter matches
// the course list. Valid coordinates are indexed right away; invalid ones are dropped
// so the geocoding pass picks the academy up later. Rows without a name are skipped.
// The upload halts at the first failed commit; earlier commits stay.
func UploadAcademies(ctx context.Context, r io.Reader, c batch.Committer, size int) (Report, error) {
	var rep Report
	w := newWriter(c, size, "upload")

	_, err := ndjson.Read(r, func(a models.Academy) error {
		rep.Scanned++
		a.Name = strings.TrimSpace(a.Name)
		a.Course = strings.TrimSpace(a.Course)
		if a.Name == "" {
			rep.Skipped++
			return nil
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		prepareCoordinates(&a)

		if err := w.Add(ctx, batch.InsertAcademy(a)); err != nil {
			return err
		}
		rep.Written++
		return nil
	})
	if err != nil {
		return rep, eris.Wrap(err, "upload academies")
	}
	if err := w.Flush(ctx); err != nil {
		return rep, eris.Wrap(err, "upload academies")
	}
	return rep, nil
}

func prepareCoordinates(a *models.Academy) {
	if a.HasValidCoordinates() {
		gh := geo.Encode(*a.Latitude, *a.Longitude)
		a.Geohash = &gh
		return
	}
	a.Latitude, a.Longitude, a.Geohash = nil, nil, nil
}

// UploadReviews inserts the reviews read from an NDJSON stream. Reviews without an ID
// get a random one, reviews without a source take sourceFile, and reviews without an
// academy name are skipped.
func UploadReviews(ctx context.Context, r io.Reader, sourceFile string, c batch.Committer, size int) (Report, error) {
	var rep Report
	w := newWriter(c, size, "reviews-upload")

	_, err := ndjson.Read(r, func(rv models.Review) error {
		rep.Scanned++
		if strings.TrimSpace(rv.AcademyName) == "" {
			rep.Skipped++
			return nil
		}
		if rv.ReviewID == "" {
			rv.ReviewID = uuid.NewString()
		}
		if rv.SourceFile == "" {
			rv.SourceFile = sourceFile
		}

		if err := w.Add(ctx, batch.InsertReview(rv)); err != nil {
			return err
		}
		rep.Written++
		return nil
	})
	if err != nil {
		return rep, eris.Wrap(err, "upload reviews")
	}
	if err := w.Flush(ctx); err != nil {
		return rep, eris.Wrap(err, "upload reviews")
	}
	return rep, nil
}

// UploadReputations upserts reputations collected outside the scorer. Names are stored
// normalized so both reputation lookup modes find them; the raw name is kept as the
// display name when none is given. Rows without a name are skipped.
func UploadReputations(ctx context.Context, r io.Reader, c batch.Committer, size int) (Report, error) {
	var rep Report
	w := newWriter(c, size, "reputation-upload")

	_, err := ndjson.Read(r, func(rp models.Reputation) error {
		rep.Scanned++
		raw := strings.TrimSpace(rp.AcademyName)
		if raw == "" {
			rep.Skipped++
			return nil
		}
		if rp.DisplayName == "" {
			rp.DisplayName = raw
		}
		rp.AcademyName = models.NormalizeName(raw)

		if err := w.Add(ctx, batch.UpsertReputation(rp)); err != nil {
			return err
		}
		rep.Written++
		return nil
	})
	if err != nil {
		return rep, eris.Wrap(err, "upload reputations")
	}
	if err := w.Flush(ctx); err != nil {
		return rep, eris.Wrap(err, "upload reputations")
	}
	return rep, nil
}

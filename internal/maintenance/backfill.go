package maintenance

import (
	"context"

	"academy-map-api/internal/batch"
	"academy-map-api/internal/geo"
	"academy-map-api/internal/models"

	"github.com/rotisserie/eris"
)

// BackfillSource lists academies that still lack a geohash.
type BackfillSource interface {
	ListAcademiesWithoutGeohash(ctx context.Context) ([]models.Academy, error)
}

// GeohashBackfill computes the geohash of every academy that has valid coordinates
// but no geohash yet. Academies with missing or invalid coordinates are skipped and
// stay out of the spatial index. Running it again updates nothing new.
func GeohashBackfill(ctx context.Context, src BackfillSource, c batch.Committer, size int) (Report, error) {
	var rep Report
	logger := jobLogger("geohash")

	academies, err := src.ListAcademiesWithoutGeohash(ctx)
	if err != nil {
		return rep, eris.Wrap(err, "geohash backfill: list academies")
	}

	w := newWriter(c, size, "geohash")
	for _, a := range academies {
		rep.Scanned++
		if !a.HasValidCoordinates() {
			rep.Skipped++
			logger.Debug().Str("id", a.ID).Msg("no valid coordinates")
			continue
		}
		if err := w.Add(ctx, batch.SetGeohash(a.ID, geo.Encode(*a.Latitude, *a.Longitude))); err != nil {
			return rep, eris.Wrap(err, "geohash backfill")
		}
		rep.Written++
	}
	if err := w.Flush(ctx); err != nil {
		return rep, eris.Wrap(err, "geohash backfill")
	}
	return rep, nil
}

package maintenance

import (
	"context"
	"errors"
	"strings"

	"academy-map-api/internal/batch"
	"academy-map-api/internal/geo"
	"academy-map-api/internal/models"
	"academy-map-api/pkg/kakao"

	"github.com/rotisserie/eris"
)

// GeocodeSource lists academies without coordinates, optionally limited to regions.
type GeocodeSource interface {
	ListAcademiesWithoutCoordinates(ctx context.Context, regionNames []string) ([]models.Academy, error)
}

// Geocoder resolves a road address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kakao.Coordinates, error)
}

// GeocodePass resolves the address of every academy without coordinates.
//
// A resolved address stores the coordinates together with their geohash. An address
// the geocoder cannot find removes the academy. Any other geocoder error is logged and
// the academy is left for a later pass. When the geocoder reports an exhausted budget
// the pass stops, commits what it has and returns without error.
func GeocodePass(ctx context.Context, src GeocodeSource, g Geocoder, c batch.Committer, size int, regionNames []string) (Report, error) {
	var rep Report
	logger := jobLogger("geocode")

	academies, err := src.ListAcademiesWithoutCoordinates(ctx, regionNames)
	if err != nil {
		return rep, eris.Wrap(err, "geocode pass: list academies")
	}
	logger.Info().Int("candidates", len(academies)).Strs("regions", regionNames).Msg("geocode pass started")

	w := newWriter(c, size, "geocode")
	for _, a := range academies {
		if err := ctx.Err(); err != nil {
			return rep, eris.Wrap(err, "geocode pass")
		}

		address := strings.TrimSpace(a.Address)
		if address == "" {
			rep.Scanned++
			rep.Skipped++
			continue
		}

		coords, err := g.Geocode(ctx, address)
		if errors.Is(err, kakao.ErrQuotaExhausted) {
			logger.Warn().Int("scanned", rep.Scanned).Msg("geocoding budget exhausted, stopping")
			rep.Stopped = true
			break
		}
		rep.Scanned++

		var m batch.Mutation
		switch {
		case err == nil:
			if !models.ValidLatLng(coords.Lat, coords.Lng) {
				rep.Skipped++
				logger.Warn().Str("id", a.ID).Float64("lat", coords.Lat).Float64("lng", coords.Lng).Msg("geocoder returned invalid coordinates")
				continue
			}
			m = batch.SetCoordinates(a.ID, coords.Lat, coords.Lng, geo.Encode(coords.Lat, coords.Lng))
			rep.Written++
		case errors.Is(err, kakao.ErrNotFound):
			logger.Debug().Str("id", a.ID).Str("address", address).Msg("address not found, removing academy")
			m = batch.DeleteAcademy(a.ID)
			rep.Deleted++
		default:
			if ctx.Err() != nil {
				return rep, eris.Wrap(err, "geocode pass")
			}
			rep.Failed++
			logger.Error().Err(err).Str("id", a.ID).Msg("geocode failed")
			continue
		}

		if err := w.Add(ctx, m); err != nil {
			return rep, eris.Wrap(err, "geocode pass")
		}
	}

	if err := w.Flush(ctx); err != nil {
		return rep, eris.Wrap(err, "geocode pass")
	}
	return rep, nil
}

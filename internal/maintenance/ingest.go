package maintenance

import (
	"context"

	"academy-map-api/internal/ndjson"
	"academy-map-api/pkg/neis"

	"github.com/rotisserie/eris"
)

// RegionFetcher pages through the registry listing of one region.
type RegionFetcher interface {
	FetchRegion(ctx context.Context, regionCode string, fn func([]neis.Row) error) (int, error)
}

// Ingest fetches every region from the registry and writes the academies to out, one
// per line. A region that fails is logged and counted; the remaining regions still run.
// Rows of a failed region delivered before the failure stay in the output.
func Ingest(ctx context.Context, f RegionFetcher, regionCodes []string, out *ndjson.Writer) (Report, error) {
	var rep Report
	logger := jobLogger("ingest")

	for _, region := range regionCodes {
		var writeErr error
		n, err := f.FetchRegion(ctx, region, func(rows []neis.Row) error {
			for _, row := range rows {
				a := row.Academy()
				if a.Name == "" {
					rep.Skipped++
					continue
				}
				if writeErr = out.Write(a); writeErr != nil {
					return writeErr
				}
				rep.Written++
			}
			return nil
		})
		rep.Scanned += n

		switch {
		case writeErr != nil:
			return rep, eris.Wrapf(writeErr, "ingest: region %s", region)
		case err != nil && ctx.Err() != nil:
			return rep, eris.Wrap(ctx.Err(), "ingest")
		case err != nil:
			rep.Failed++
			logger.Error().Err(err).Str("region", region).Int("rows", n).Msg("region failed")
		default:
			logger.Info().Str("region", region).Int("rows", n).Msg("region fetched")
		}
	}

	if err := out.Flush(); err != nil {
		return rep, eris.Wrap(err, "ingest")
	}
	return rep, nil
}

// Package maintenance holds the offline jobs that load, enrich and export the academy
// store: registry ingestion, bulk uploads, the geocoding pass, the geohash backfill,
// review bookkeeping and reputation scoring. Every write goes through batch.Writer.
package maintenance

import (
	"academy-map-api/internal/batch"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Report summarizes one job run.
type Report struct {
	Scanned int `json:"scanned"`
	Written int `json:"written"`
	Deleted int `json:"deleted"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	// Stopped is set when the job ended early without an error, e.g. on an exhausted
	// geocoding budget.
	Stopped bool `json:"stopped"`
}

// Log writes the report as one structured line.
func (r Report) Log(job string) {
	log.Info().
		Str("job", job).
		Int("scanned", r.Scanned).
		Int("written", r.Written).
		Int("deleted", r.Deleted).
		Int("skipped", r.Skipped).
		Int("failed", r.Failed).
		Bool("stopped", r.Stopped).
		Msg("job finished")
}

func newWriter(c batch.Committer, size int, job string) *batch.Writer {
	w := batch.NewWriter(c, size)
	logger := log.With().Str("job", job).Logger()
	w.OnCommit = func(n, total int) {
		logger.Info().Int("batch", n).Int("total", total).Msg("batch committed")
	}
	return w
}

func jobLogger(job string) zerolog.Logger {
	return log.With().Str("job", job).Logger()
}

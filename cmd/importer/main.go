package main

import (
	"context"
	"os"

	"academy-map-api/internal/config"
	"academy-map-api/internal/logger"
	"academy-map-api/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	configDir string
)

var rootCmd = &cobra.Command{
	Use:           "importer",
	Short:         "Load, enrich and export the academy store",
	Long:          "Offline jobs around the academy store: registry ingestion, uploads, geocoding, geohash backfill, review bookkeeping, reputation scoring and exports.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(configDir)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c
		logger.Setup(cfg.Log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./configs", "directory holding app.yaml and .env")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// openRepository connects to the store and makes sure the schema exists. The returned
// func closes the pool.
func openRepository(ctx context.Context) (*repository.Repository, func(), error) {
	if cfg.DBSource == "" {
		return nil, nil, eris.New("no db_source configured (set ACADEMY_DB_SOURCE)")
	}
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		return nil, nil, eris.Wrap(err, "connect to db")
	}
	repo := repository.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, eris.Wrap(err, "prepare schema")
	}
	return repo, pool.Close, nil
}

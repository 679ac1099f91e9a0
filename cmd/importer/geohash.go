package main

import (
	"os/signal"
	"syscall"

	"academy-map-api/internal/maintenance"

	"github.com/spf13/cobra"
)

var geohashCmd = &cobra.Command{
	Use:   "geohash",
	Short: "Backfill geohashes for academies with coordinates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		rep, err := maintenance.GeohashBackfill(ctx, repo, repo, cfg.Batch.Size)
		rep.Log("geohash")
		return err
	},
}

func init() {
	rootCmd.AddCommand(geohashCmd)
}

package main

import (
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"academy-map-api/internal/cache"
	"academy-map-api/internal/maintenance"
	"academy-map-api/pkg/kakao"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve coordinates for academies that have none",
	Long: `Looks up the road address of every academy without coordinates. Resolved
academies get coordinates and a geohash, academies whose address cannot be
found are removed. The pass stops early once the daily call budget is spent.
With redis.addr set, results are cached across runs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Geocoder.APIKey == "" {
			return eris.New("geocode: no geocoder api key configured (set ACADEMY_GEOCODER_API_KEY)")
		}
		regions, _ := cmd.Flags().GetStringSlice("region")
		if len(regions) == 0 {
			regions = cfg.Geocoder.RegionNames
		}

		client := kakao.NewClient(cfg.Geocoder.APIKey,
			kakao.WithBaseURL(cfg.Geocoder.BaseURL),
			kakao.WithRateLimit(cfg.Geocoder.RatePerSecond),
			kakao.WithDailyLimit(cfg.Geocoder.DailyLimit),
			kakao.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Geocoder.TimeoutSecs) * time.Second}),
		)

		var geocoder maintenance.Geocoder = client
		if cfg.Redis.Addr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, geocoding without cache")
			} else {
				geocoder = cache.NewGeocodeCache(client, rdb, time.Duration(cfg.Redis.TTLHours)*time.Hour)
			}
		}

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		rep, err := maintenance.GeocodePass(ctx, repo, geocoder, repo, cfg.Batch.Size, regions)
		rep.Log("geocode")
		log.Info().Int64("api_calls", client.Calls()).Msg("geocoder usage")
		return err
	},
}

func init() {
	geocodeCmd.Flags().StringSlice("region", nil, "region names to geocode (default: geocoder.region_names, empty means all)")
	rootCmd.AddCommand(geocodeCmd)
}

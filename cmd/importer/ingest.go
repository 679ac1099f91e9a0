package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academy-map-api/internal/maintenance"
	"academy-map-api/internal/ndjson"
	"academy-map-api/pkg/neis"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch the academy registry into an NDJSON file",
	Long: `Pages through the registry listing of every configured region code and
writes one academy per line. A region that keeps failing is logged and skipped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out, _ := cmd.Flags().GetString("out")
		regions, _ := cmd.Flags().GetStringSlice("region")
		if len(regions) == 0 {
			regions = cfg.Registry.RegionCodes
		}
		if len(regions) == 0 {
			return eris.New("ingest: no region codes configured")
		}

		client := neis.NewClient(cfg.Registry.APIKey,
			neis.WithBaseURL(cfg.Registry.BaseURL),
			neis.WithPageSize(cfg.Registry.PageSize),
			neis.WithMaxAttempts(cfg.Registry.MaxAttempts),
			neis.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Registry.TimeoutSecs) * time.Second}),
		)

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "ingest: create %s", out)
		}
		defer f.Close()

		rep, err := maintenance.Ingest(ctx, client, regions, ndjson.NewWriter(f))
		rep.Log("ingest")
		if err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return eris.Wrapf(err, "ingest: sync %s", out)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("out", "academies.ndjson", "output file")
	ingestCmd.Flags().StringSlice("region", nil, "region codes to fetch (default: registry.region_codes)")
	rootCmd.AddCommand(ingestCmd)
}

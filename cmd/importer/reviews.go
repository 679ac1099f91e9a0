package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"academy-map-api/internal/maintenance"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Raw review bookkeeping",
}

var reviewsUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Insert raw reviews from an NDJSON file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		file, _ := cmd.Flags().GetString("file")
		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			source = filepath.Base(file)
		}

		f, err := os.Open(file)
		if err != nil {
			return eris.Wrapf(err, "reviews upload: open %s", file)
		}
		defer f.Close()

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		rep, err := maintenance.UploadReviews(ctx, f, source, repo, cfg.Batch.Size)
		rep.Log("reviews-upload")
		return err
	},
}

var reviewsRecountCmd = &cobra.Command{
	Use:   "recount",
	Short: "Set total_reviews on every reputation from the raw reviews",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		rep, err := maintenance.RecountReviews(ctx, repo, repo, cfg.Batch.Size)
		rep.Log("reviews-recount")
		return err
	},
}

var reputationCmd = &cobra.Command{
	Use:   "reputation",
	Short: "Reputation scoring",
}

var reputationScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Recompute every academy reputation from the raw reviews",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		rep, err := maintenance.ScoreReputations(ctx, repo, repo, cfg.Batch.Size, time.Now())
		rep.Log("reputation-score")
		return err
	},
}

var reputationUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upsert externally collected reputations from an NDJSON file",
	Long: `Reads one reputation per line and upserts it under the trimmed, lower-cased
academy name, the key both search lookup modes use.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		file, _ := cmd.Flags().GetString("file")
		f, err := os.Open(file)
		if err != nil {
			return eris.Wrapf(err, "reputation upload: open %s", file)
		}
		defer f.Close()

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		rep, err := maintenance.UploadReputations(ctx, f, repo, cfg.Batch.Size)
		rep.Log("reputation-upload")
		return err
	},
}

func init() {
	reviewsUploadCmd.Flags().String("file", "reviews.ndjson", "NDJSON file with one review per line")
	reviewsUploadCmd.Flags().String("source", "", "source recorded on reviews without one (default: file name)")
	reviewsCmd.AddCommand(reviewsUploadCmd, reviewsRecountCmd)
	reputationUploadCmd.Flags().String("file", "reputations.ndjson", "NDJSON file with one reputation per line")
	reputationCmd.AddCommand(reputationScoreCmd, reputationUploadCmd)
	rootCmd.AddCommand(reviewsCmd, reputationCmd)
}

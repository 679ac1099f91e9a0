package main

import (
	"os"
	"os/signal"
	"syscall"

	"academy-map-api/internal/maintenance"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Insert academies from an NDJSON file",
	Long: `Reads one academy per line and inserts them in batches. Academies without
an id get a generated one. The upload stops at the first failed batch; batches
committed before it stay.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		file, _ := cmd.Flags().GetString("file")
		f, err := os.Open(file)
		if err != nil {
			return eris.Wrapf(err, "upload: open %s", file)
		}
		defer f.Close()

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		rep, err := maintenance.UploadAcademies(ctx, f, repo, cfg.Batch.Size)
		rep.Log("upload")
		return err
	},
}

func init() {
	uploadCmd.Flags().String("file", "academies.ndjson", "NDJSON file with one academy per line")
	rootCmd.AddCommand(uploadCmd)
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"academy-map-api/internal/maintenance"
	"academy-map-api/internal/service"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one NDJSON file per district",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		dir, _ := cmd.Flags().GetString("dir")

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		rep, err := maintenance.ExportByDistrict(ctx, repo, dir)
		rep.Log("export")
		return err
	},
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Write the sorted distinct course list as JSON",
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out, _ := cmd.Flags().GetString("out")

		repo, closeDB, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "courses: create %s", out)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = eris.Wrapf(cerr, "courses: close %s", out)
			}
		}()

		n, err := maintenance.ExportCourses(ctx, service.NewCourseService(repo), f)
		if err != nil {
			return err
		}
		log.Info().Int("courses", n).Str("file", out).Msg("course list written")
		return nil
	},
}

func init() {
	exportCmd.Flags().String("dir", "exports", "output directory")
	coursesCmd.Flags().String("out", "courses.json", "output file")
	rootCmd.AddCommand(exportCmd, coursesCmd)
}

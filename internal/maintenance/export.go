package maintenance

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"academy-map-api/internal/models"
	"academy-map-api/internal/ndjson"

	"github.com/rotisserie/eris"
)

// DistrictSource lists academies district by district.
type DistrictSource interface {
	ListDistricts(ctx context.Context) ([]string, error)
	ListAcademiesByDistrict(ctx context.Context, district string) ([]models.Academy, error)
}

var districtFileName = strings.NewReplacer("/", "_", `\`, "_", " ", "_")

// DistrictFile returns the export file name of a district.
func DistrictFile(district string) string {
	district = strings.TrimSpace(district)
	if district == "" {
		district = "unknown"
	}
	return districtFileName.Replace(district) + "_academies.ndjson"
}

// ExportByDistrict writes one NDJSON file per district into dir, creating dir if needed.
// Scanned counts exported academies and Written counts files.
func ExportByDistrict(ctx context.Context, src DistrictSource, dir string) (Report, error) {
	var rep Report
	logger := jobLogger("export")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rep, eris.Wrapf(err, "export: create %s", dir)
	}

	districts, err := src.ListDistricts(ctx)
	if err != nil {
		return rep, eris.Wrap(err, "export: list districts")
	}

	for _, d := range districts {
		academies, err := src.ListAcademiesByDistrict(ctx, d)
		if err != nil {
			return rep, eris.Wrapf(err, "export: district %q", d)
		}
		path := filepath.Join(dir, DistrictFile(d))
		if err := writeAcademies(path, academies); err != nil {
			return rep, err
		}
		rep.Scanned += len(academies)
		rep.Written++
		logger.Info().Str("district", d).Int("academies", len(academies)).Str("file", path).Msg("district exported")
	}
	return rep, nil
}

func writeAcademies(path string, academies []models.Academy) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "export: close %s", path)
		}
	}()

	w := ndjson.NewWriter(f)
	for _, a := range academies {
		if err := w.Write(a); err != nil {
			return eris.Wrapf(err, "export: write %s", path)
		}
	}
	return w.Flush()
}

// CourseLister returns the sorted distinct course names.
type CourseLister interface {
	Courses(ctx context.Context) ([]string, error)
}

// ExportCourses writes the course list as an indented JSON array and returns its length.
func ExportCourses(ctx context.Context, src CourseLister, w io.Writer) (int, error) {
	courses, err := src.Courses(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "export courses")
	}
	if courses == nil {
		courses = []string{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(courses); err != nil {
		return 0, eris.Wrap(err, "export courses: encode")
	}
	return len(courses), nil
}

package repository

import (
	"context"
	"fmt"

	"academy-map-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository implements the academy, reputation and review stores on PostgreSQL
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const academyColumns = `
	id,
	name,
	course,
	address,
	phone,
	latitude,
	longitude,
	geohash,
	region_code,
	region_name,
	district_area`

// FindAcademiesInGeohashRange returns at most limit academies whose geohash lies in
// [start, end], ordered by geohash.
func (r *Repository) FindAcademiesInGeohashRange(ctx context.Context, start, end string, limit int) ([]models.Academy, error) {
	sql := `
		SELECT` + academyColumns + `
		FROM academies
		WHERE geohash >= $1 AND geohash <= $2
		ORDER BY geohash
		LIMIT $3
	`

	academies, err := r.queryAcademies(ctx, sql, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute geohash range query: %w", err)
	}
	return academies, nil
}

// ListAcademies returns every stored academy.
func (r *Repository) ListAcademies(ctx context.Context) ([]models.Academy, error) {
	sql := `SELECT` + academyColumns + ` FROM academies ORDER BY id`

	academies, err := r.queryAcademies(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list academies: %w", err)
	}
	return academies, nil
}

// ListAcademiesWithoutGeohash returns academies that have not been assigned a geohash yet.
func (r *Repository) ListAcademiesWithoutGeohash(ctx context.Context) ([]models.Academy, error) {
	sql := `SELECT` + academyColumns + ` FROM academies WHERE geohash IS NULL ORDER BY id`

	academies, err := r.queryAcademies(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list academies without geohash: %w", err)
	}
	return academies, nil
}

// ListAcademiesWithoutCoordinates returns academies missing latitude or longitude,
// restricted to the given region names when any are passed.
func (r *Repository) ListAcademiesWithoutCoordinates(ctx context.Context, regionNames []string) ([]models.Academy, error) {
	sql := `SELECT` + academyColumns + `
		FROM academies
		WHERE (latitude IS NULL OR longitude IS NULL)`
	args := []any{}
	if len(regionNames) > 0 {
		sql += ` AND region_name = ANY($1)`
		args = append(args, regionNames)
	}
	sql += ` ORDER BY id`

	academies, err := r.queryAcademies(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list academies without coordinates: %w", err)
	}
	return academies, nil
}

// ListDistricts returns the distinct non-empty district names.
func (r *Repository) ListDistricts(ctx context.Context) ([]string, error) {
	sql := `SELECT DISTINCT district_area FROM academies WHERE district_area <> '' ORDER BY district_area`

	districts, err := r.queryStrings(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list districts: %w", err)
	}
	return districts, nil
}

// ListAcademiesByDistrict returns every academy of one district.
func (r *Repository) ListAcademiesByDistrict(ctx context.Context, district string) ([]models.Academy, error) {
	sql := `SELECT` + academyColumns + ` FROM academies WHERE district_area = $1 ORDER BY id`

	academies, err := r.queryAcademies(ctx, sql, district)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list academies of district: %w", err)
	}
	return academies, nil
}

// ListCourses returns the distinct course names that are not blank.
func (r *Repository) ListCourses(ctx context.Context) ([]string, error) {
	sql := `SELECT DISTINCT course FROM academies WHERE btrim(course) <> ''`

	courses, err := r.queryStrings(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list courses: %w", err)
	}
	return courses, nil
}

func (r *Repository) queryAcademies(ctx context.Context, sql string, args ...any) ([]models.Academy, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var academies []models.Academy
	for rows.Next() {
		var a models.Academy
		err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Course,
			&a.Address,
			&a.Phone,
			&a.Latitude,
			&a.Longitude,
			&a.Geohash,
			&a.RegionCode,
			&a.RegionName,
			&a.DistrictArea,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan academy: %w", err)
		}
		academies = append(academies, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return academies, nil
}

func (r *Repository) queryStrings(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return out, nil
}

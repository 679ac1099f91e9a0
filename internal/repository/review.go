package repository

import (
	"context"
	"fmt"

	"academy-map-api/internal/models"
)

const reviewColumns = `review_id, academy_name, title, text, rating, date_created, source_file`

// FindReviewsByAcademyName returns the raw reviews stored under exactly this academy name.
func (r *Repository) FindReviewsByAcademyName(ctx context.Context, academyName string) ([]models.Review, error) {
	sql := `SELECT ` + reviewColumns + ` FROM raw_reviews WHERE academy_name = $1 ORDER BY review_id`

	reviews, err := r.queryReviews(ctx, sql, academyName)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to find reviews: %w", err)
	}
	return reviews, nil
}

// ListReviews returns every raw review.
func (r *Repository) ListReviews(ctx context.Context) ([]models.Review, error) {
	sql := `SELECT ` + reviewColumns + ` FROM raw_reviews ORDER BY review_id`

	reviews, err := r.queryReviews(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list reviews: %w", err)
	}
	return reviews, nil
}

// CountReviewsByAcademy returns the number of raw reviews per stored academy name.
func (r *Repository) CountReviewsByAcademy(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT academy_name, count(review_id) FROM raw_reviews GROUP BY academy_name`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to count reviews: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("repository: failed to scan review count: %w", err)
		}
		counts[name] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return counts, nil
}

func (r *Repository) queryReviews(ctx context.Context, sql string, args ...any) ([]models.Review, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		err := rows.Scan(
			&rv.ReviewID,
			&rv.AcademyName,
			&rv.Title,
			&rv.Text,
			&rv.Rating,
			&rv.DateCreated,
			&rv.SourceFile,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return reviews, nil
}

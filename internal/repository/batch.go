package repository

import (
	"context"
	"fmt"

	"academy-map-api/internal/batch"
	"academy-map-api/internal/models"
)

// CommitBatch applies the mutations in a single transaction. Nothing of the batch is
// kept when any statement fails.
func (r *Repository) CommitBatch(ctx context.Context, mutations []batch.Mutation) error {
	if len(mutations) == 0 {
		return nil
	}
	if len(mutations) > batch.MaxSize {
		return fmt.Errorf("repository: batch of %d exceeds limit of %d", len(mutations), batch.MaxSize)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin batch: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for i, m := range mutations {
		sql, args, err := statement(m)
		if err != nil {
			return fmt.Errorf("repository: mutation %d: %w", i, err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("repository: mutation %d (%s %s): %w", i, m.Op, m.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit batch: %w", err)
	}
	return nil
}

func statement(m batch.Mutation) (string, []any, error) {
	switch m.Op {
	case batch.OpInsertAcademy:
		if m.Academy == nil {
			return "", nil, fmt.Errorf("insert academy without payload")
		}
		a := m.Academy
		return `INSERT INTO academies (id, name, course, address, phone, latitude, longitude, geohash, region_code, region_name, district_area)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			[]any{a.ID, a.Name, a.Course, a.Address, a.Phone, a.Latitude, a.Longitude, a.Geohash, a.RegionCode, a.RegionName, a.DistrictArea}, nil

	case batch.OpSetCoordinates:
		return `UPDATE academies SET latitude = $2, longitude = $3, geohash = $4 WHERE id = $1`,
			[]any{m.ID, m.Lat, m.Lng, nilIfEmpty(m.Geohash)}, nil

	case batch.OpSetGeohash:
		return `UPDATE academies SET geohash = $2 WHERE id = $1`,
			[]any{m.ID, m.Geohash}, nil

	case batch.OpDeleteAcademy:
		return `DELETE FROM academies WHERE id = $1`, []any{m.ID}, nil

	case batch.OpInsertReview:
		if m.Review == nil {
			return "", nil, fmt.Errorf("insert review without payload")
		}
		rv := m.Review
		return `INSERT INTO raw_reviews (review_id, academy_name, title, text, rating, date_created, source_file)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (review_id) DO UPDATE SET
				academy_name = EXCLUDED.academy_name,
				title = EXCLUDED.title,
				text = EXCLUDED.text,
				rating = EXCLUDED.rating,
				date_created = EXCLUDED.date_created,
				source_file = EXCLUDED.source_file`,
			[]any{rv.ReviewID, rv.AcademyName, rv.Title, rv.Text, rv.Rating, rv.DateCreated, rv.SourceFile}, nil

	// Reputation keys are stored normalized.
	case batch.OpUpsertReputation:
		if m.Reputation == nil {
			return "", nil, fmt.Errorf("upsert reputation without payload")
		}
		rep := m.Reputation
		return `INSERT INTO academy_reputations (academy_name, display_name, reputation_score_100, raw_reputation_score, total_reviews)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (academy_name) DO UPDATE SET
				display_name = EXCLUDED.display_name,
				reputation_score_100 = EXCLUDED.reputation_score_100,
				raw_reputation_score = EXCLUDED.raw_reputation_score,
				total_reviews = EXCLUDED.total_reviews`,
			[]any{models.NormalizeName(rep.AcademyName), rep.DisplayName, rep.Score, rep.RawScore, rep.TotalReviews}, nil

	case batch.OpSetTotalReviews:
		return `UPDATE academy_reputations SET total_reviews = $2 WHERE ` + foldedName + ` = $1`,
			[]any{models.NormalizeName(m.ID), m.Count}, nil
	}
	return "", nil, fmt.Errorf("unknown mutation %s", m.Op)
}

// nilIfEmpty returns nil for empty strings, allowing NULL storage in Postgres.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package repository

import (
	"context"
	"fmt"

	"academy-map-api/internal/models"
)

const reputationColumns = `academy_name, display_name, reputation_score_100, raw_reputation_score, total_reviews`

// foldedName folds the stored reputation name the way models.NormalizeName does, so
// rows written by other tools still join.
const foldedName = `lower(btrim(academy_name, E' \t\n\r\v\f'))`

// ListReputations returns every reputation ordered by score, best first.
func (r *Repository) ListReputations(ctx context.Context) ([]models.Reputation, error) {
	sql := `SELECT ` + reputationColumns + ` FROM academy_reputations ORDER BY reputation_score_100 DESC, academy_name`

	reputations, err := r.queryReputations(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list reputations: %w", err)
	}
	return reputations, nil
}

// FindReputationsByNames returns the reputations whose stored name, trimmed and
// lower-cased, is in names. Callers pass names through models.NormalizeName.
func (r *Repository) FindReputationsByNames(ctx context.Context, names []string) ([]models.Reputation, error) {
	if len(names) == 0 {
		return nil, nil
	}
	sql := `SELECT ` + reputationColumns + ` FROM academy_reputations WHERE ` + foldedName + ` = ANY($1)`

	reputations, err := r.queryReputations(ctx, sql, names)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to find reputations by name: %w", err)
	}
	return reputations, nil
}

func (r *Repository) queryReputations(ctx context.Context, sql string, args ...any) ([]models.Reputation, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reputations []models.Reputation
	for rows.Next() {
		var rep models.Reputation
		if err := rows.Scan(&rep.AcademyName, &rep.DisplayName, &rep.Score, &rep.RawScore, &rep.TotalReviews); err != nil {
			return nil, fmt.Errorf("failed to scan reputation: %w", err)
		}
		reputations = append(reputations, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return reputations, nil
}

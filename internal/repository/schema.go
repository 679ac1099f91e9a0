package repository

import (
	"context"
	"fmt"
)

// The geohash column uses the "C" collation so that range bounds ending in '~'
// sort after every base32 character regardless of the database locale.
const schema = `
CREATE TABLE IF NOT EXISTS academies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	course TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	geohash TEXT COLLATE "C",
	region_code TEXT NOT NULL DEFAULT '',
	region_name TEXT NOT NULL DEFAULT '',
	district_area TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS academies_geohash_idx ON academies (geohash);
CREATE INDEX IF NOT EXISTS academies_district_area_idx ON academies (district_area);

CREATE TABLE IF NOT EXISTS academy_reputations (
	academy_name TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	reputation_score_100 DOUBLE PRECISION NOT NULL DEFAULT 0,
	raw_reputation_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_reviews INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS academy_reputations_folded_name_idx ON academy_reputations (lower(btrim(academy_name, E' \t\n\r\v\f')));

CREATE TABLE IF NOT EXISTS raw_reviews (
	review_id TEXT PRIMARY KEY,
	academy_name TEXT NOT NULL,
	title TEXT,
	text TEXT,
	rating DOUBLE PRECISION,
	date_created TEXT,
	source_file TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS raw_reviews_academy_name_idx ON raw_reviews (academy_name);
`

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// internal/adapter/storage/schema.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the spatial tables, indexes and constraints if
// they do not exist yet. Every statement is idempotent so the schema
// can be applied on every start.
//
// The unique index on amenities.source_ref is what makes ingestion
// deduplication safe: the insert itself is the authority, not a
// pre-check in pipeline code.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		`CREATE TABLE IF NOT EXISTS areas (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			boundary geometry(Polygon, 4326) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_areas_boundary ON areas USING GIST (boundary)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			path geometry(LineString, 4326) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_path ON routes USING GIST (path)`,
		`CREATE TABLE IF NOT EXISTS amenities (
			id UUID PRIMARY KEY,
			name VARCHAR(120) NOT NULL,
			category TEXT NOT NULL,
			location geometry(Point, 4326) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			source_ref TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_amenities_location ON amenities USING GIST (location)`,
		`CREATE INDEX IF NOT EXISTS idx_amenities_category ON amenities (category)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			amenity_id UUID NOT NULL REFERENCES amenities(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, amenity_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites (user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
	}

	return nil
}

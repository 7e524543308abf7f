// internal/adapter/storage/area_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lbs/internal/domain/area"
	"lbs/internal/domain/spatial"
)

// AreaStore implements storage for areas
type AreaStore struct {
	db *pgxpool.Pool
}

// NewAreaStore creates a new area store
func NewAreaStore(db *pgxpool.Pool) *AreaStore {
	return &AreaStore{
		db: db,
	}
}

// Create saves a new area
func (s *AreaStore) Create(ctx context.Context, a area.Area) error {
	query := `
		INSERT INTO areas (id, name, boundary, created_at)
		VALUES ($1, $2, ST_SetSRID(ST_GeomFromGeoJSON($3), 4326), now())
	`

	boundaryJSON, err := marshalGeometry(a.Boundary)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, query, a.ID, a.Name, boundaryJSON); err != nil {
		return fmt.Errorf("error inserting area: %w", err)
	}

	return nil
}

// Get retrieves an area by ID
func (s *AreaStore) Get(ctx context.Context, id string) (*area.Area, error) {
	query := `
		SELECT id, name, ST_AsGeoJSON(boundary), created_at
		FROM areas
		WHERE id = $1
	`

	a, err := scanArea(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: area %s", spatial.ErrNotFound, id)
		}
		return nil, fmt.Errorf("error querying area: %w", err)
	}

	return a, nil
}

// List returns all areas ordered by name
func (s *AreaStore) List(ctx context.Context) ([]area.Area, error) {
	query := `
		SELECT id, name, ST_AsGeoJSON(boundary), created_at
		FROM areas
		ORDER BY name
	`

	return s.queryAreas(ctx, query)
}

// ListByName returns areas whose name contains the fragment, case-insensitively
func (s *AreaStore) ListByName(ctx context.Context, fragment string) ([]area.Area, error) {
	query := `
		SELECT id, name, ST_AsGeoJSON(boundary), created_at
		FROM areas
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
	`

	return s.queryAreas(ctx, query, escapeLike(fragment))
}

func (s *AreaStore) queryAreas(ctx context.Context, query string, args ...interface{}) ([]area.Area, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying areas: %w", err)
	}
	defer rows.Close()

	var areas []area.Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning area: %w", err)
		}
		areas = append(areas, *a)
	}

	return areas, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArea(row rowScanner) (*area.Area, error) {
	var a area.Area
	var boundaryJSON []byte

	if err := row.Scan(&a.ID, &a.Name, &boundaryJSON, &a.CreatedAt); err != nil {
		return nil, err
	}

	boundary, err := unmarshalPolygon(boundaryJSON)
	if err != nil {
		return nil, err
	}
	a.Boundary = boundary

	return &a, nil
}

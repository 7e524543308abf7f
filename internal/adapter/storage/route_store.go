// internal/adapter/storage/route_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/paulmach/orb"

	"lbs/internal/domain/route"
	"lbs/internal/domain/spatial"
)

// RouteStore implements storage for routes
type RouteStore struct {
	db *pgxpool.Pool
}

// NewRouteStore creates a new route store
func NewRouteStore(db *pgxpool.Pool) *RouteStore {
	return &RouteStore{
		db: db,
	}
}

// Upsert creates a route under the given name or replaces its geometry.
// Returns true when a new record was created.
func (s *RouteStore) Upsert(ctx context.Context, name string, path orb.LineString) (bool, error) {
	query := `
		INSERT INTO routes (id, name, path, created_at)
		VALUES ($1, $2, ST_SetSRID(ST_GeomFromGeoJSON($3), 4326), now())
		ON CONFLICT (name) DO UPDATE
		SET path = EXCLUDED.path
		RETURNING (xmax = 0)
	`

	pathJSON, err := marshalGeometry(path)
	if err != nil {
		return false, err
	}

	var created bool
	err = s.db.QueryRow(ctx, query, uuid.New().String(), name, pathJSON).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("error upserting route: %w", err)
	}

	return created, nil
}

// Get retrieves a route by ID
func (s *RouteStore) Get(ctx context.Context, id string) (*route.Route, error) {
	query := `
		SELECT id, name, ST_AsGeoJSON(path), created_at
		FROM routes
		WHERE id = $1
	`

	r, err := scanRoute(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: route %s", spatial.ErrNotFound, id)
		}
		return nil, fmt.Errorf("error querying route: %w", err)
	}

	return r, nil
}

// List returns all routes ordered by name
func (s *RouteStore) List(ctx context.Context) ([]route.Route, error) {
	query := `
		SELECT id, name, ST_AsGeoJSON(path), created_at
		FROM routes
		ORDER BY name
	`

	return s.queryRoutes(ctx, query)
}

// DeleteAll removes every route
func (s *RouteStore) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM routes`)
	if err != nil {
		return 0, fmt.Errorf("error deleting routes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// IntersectingArea returns routes whose path touches or crosses the
// area's polygon
func (s *RouteStore) IntersectingArea(ctx context.Context, areaID string) ([]route.Route, error) {
	query := `
		SELECT r.id, r.name, ST_AsGeoJSON(r.path), r.created_at
		FROM routes r
		JOIN areas a ON a.id = $1
		WHERE ST_Intersects(r.path, a.boundary)
		ORDER BY r.name
	`

	return s.queryRoutes(ctx, query, areaID)
}

// WithinRadius returns routes within radiusKm of the origin point.
// Distance is geodesic over the geography cast, not planar.
func (s *RouteStore) WithinRadius(ctx context.Context, origin orb.Point, radiusKm float64) ([]route.Route, error) {
	query := `
		SELECT id, name, ST_AsGeoJSON(path), created_at
		FROM routes
		WHERE ST_DWithin(path::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3 * 1000)
	`

	return s.queryRoutes(ctx, query, origin.Lon(), origin.Lat(), radiusKm)
}

func (s *RouteStore) queryRoutes(ctx context.Context, query string, args ...interface{}) ([]route.Route, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying routes: %w", err)
	}
	defer rows.Close()

	var routes []route.Route
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning route: %w", err)
		}
		routes = append(routes, *r)
	}

	return routes, rows.Err()
}

func scanRoute(row rowScanner) (*route.Route, error) {
	var r route.Route
	var pathJSON []byte

	if err := row.Scan(&r.ID, &r.Name, &pathJSON, &r.CreatedAt); err != nil {
		return nil, err
	}

	path, err := unmarshalLineString(pathJSON)
	if err != nil {
		return nil, err
	}
	r.Path = path

	return &r, nil
}

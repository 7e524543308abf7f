// internal/adapter/storage/amenity_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/paulmach/orb"

	"lbs/internal/domain/amenity"
	"lbs/internal/domain/spatial"
)

const amenityColumns = `id, name, category, ST_X(location) AS lng, ST_Y(location) AS lat, description, source_ref, created_at`

// AmenityStore implements storage and spatial lookups for amenities
type AmenityStore struct {
	db *pgxpool.Pool
}

// NewAmenityStore creates a new amenity store
func NewAmenityStore(db *pgxpool.Pool) *AmenityStore {
	return &AmenityStore{
		db: db,
	}
}

// Create saves a new amenity. A unique violation on source_ref comes
// back as amenity.ErrDuplicateSourceRef so the ingestion pipeline can
// treat the insert itself as its duplicate check.
func (s *AmenityStore) Create(ctx context.Context, a amenity.Amenity) error {
	query := `
		INSERT INTO amenities (id, name, category, location, description, source_ref, created_at)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), $6, $7, now())
	`

	var sourceRef *string
	if a.SourceRef != "" {
		sourceRef = &a.SourceRef
	}

	_, err := s.db.Exec(ctx, query,
		a.ID,
		a.Name,
		string(a.Category),
		a.Location.Lon(),
		a.Location.Lat(),
		a.Description,
		sourceRef,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", amenity.ErrDuplicateSourceRef, a.SourceRef)
		}
		return fmt.Errorf("error inserting amenity: %w", err)
	}

	return nil
}

// Get retrieves an amenity by ID
func (s *AmenityStore) Get(ctx context.Context, id string) (*amenity.Amenity, error) {
	query := `SELECT ` + amenityColumns + ` FROM amenities WHERE id = $1`

	a, err := scanAmenity(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: amenity %s", spatial.ErrNotFound, id)
		}
		return nil, fmt.Errorf("error querying amenity: %w", err)
	}

	return a, nil
}

// List returns amenities matching the filter, ordered by name
func (s *AmenityStore) List(ctx context.Context, filter amenity.Filter) ([]amenity.Amenity, error) {
	query := `SELECT ` + amenityColumns + ` FROM amenities WHERE true`

	var args []interface{}
	argIndex := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, string(filter.Category))
		argIndex++
	}

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", argIndex)
		args = append(args, escapeLike(filter.Name))
		argIndex++
	}

	query += " ORDER BY name"

	return s.queryAmenities(ctx, query, args...)
}

// Delete removes an amenity by ID
func (s *AmenityStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM amenities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting amenity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: amenity %s", spatial.ErrNotFound, id)
	}
	return nil
}

// ExistsBySourceRef reports whether an amenity with the given source
// reference exists
func (s *AmenityStore) ExistsBySourceRef(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM amenities WHERE source_ref = $1)`, ref).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking source ref: %w", err)
	}
	return exists, nil
}

// DeleteBySourceRefPrefix removes amenities whose source reference
// starts with prefix. Rows with a NULL source_ref never match, so
// directly created amenities are untouched.
func (s *AmenityStore) DeleteBySourceRefPrefix(ctx context.Context, prefix string) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM amenities WHERE source_ref LIKE $1 || '%'`, prefix)
	if err != nil {
		return 0, fmt.Errorf("error deleting amenities by source ref prefix: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Nearest returns up to limit amenities ordered by ascending geodesic
// distance from origin, optionally restricted to an area's polygon
func (s *AmenityStore) Nearest(ctx context.Context, origin orb.Point, limit int, areaID string) ([]amenity.Amenity, error) {
	query := `SELECT ` + amenityColumns + ` FROM amenities WHERE true`

	args := []interface{}{}
	argIndex := 1

	query, args, argIndex = appendAreaFilter(query, args, argIndex, areaID)

	query += fmt.Sprintf(
		" ORDER BY ST_Distance(location::geography, ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography) LIMIT $%d",
		argIndex, argIndex+1, argIndex+2,
	)
	args = append(args, origin.Lon(), origin.Lat(), limit)

	return s.queryAmenities(ctx, query, args...)
}

// WithinArea returns amenities covered by the area's polygon.
// ST_Covers rather than ST_Within: points sitting exactly on the
// boundary count as inside.
func (s *AmenityStore) WithinArea(ctx context.Context, areaID string) ([]amenity.Amenity, error) {
	query := `
		SELECT ` + amenityColumns + `
		FROM amenities
		JOIN areas a ON a.id = $1
		WHERE ST_Covers(a.boundary, location)
		ORDER BY name
	`

	return s.queryAmenities(ctx, query, areaID)
}

// WithinRadius returns amenities within radiusKm of origin ordered by
// ascending distance, optionally restricted to an area
func (s *AmenityStore) WithinRadius(ctx context.Context, origin orb.Point, radiusKm float64, areaID string) ([]amenity.Amenity, error) {
	query := `SELECT ` + amenityColumns + ` FROM amenities WHERE true`

	args := []interface{}{}
	argIndex := 1

	query, args, argIndex = appendAreaFilter(query, args, argIndex, areaID)

	query += fmt.Sprintf(
		" AND ST_DWithin(location::geography, ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography, $%d * 1000)",
		argIndex, argIndex+1, argIndex+2,
	)
	query += fmt.Sprintf(
		" ORDER BY ST_Distance(location::geography, ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography)",
		argIndex, argIndex+1,
	)
	args = append(args, origin.Lon(), origin.Lat(), radiusKm)

	return s.queryAmenities(ctx, query, args...)
}

// Search returns amenities whose name or description contains the
// query case-insensitively. Descriptions carry the operator, cuisine
// and street-address text built at ingestion time.
func (s *AmenityStore) Search(ctx context.Context, filter amenity.SearchFilter) ([]amenity.Amenity, error) {
	query := `
		SELECT ` + amenityColumns + `
		FROM amenities
		WHERE (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
	`

	args := []interface{}{escapeLike(filter.Query)}
	argIndex := 2

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, string(filter.Category))
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY name LIMIT $%d", argIndex)
	args = append(args, filter.Limit)

	return s.queryAmenities(ctx, query, args...)
}

// CountByArea returns per-area amenity counts, optionally restricted
// to one category. One grouped containment join; O(areas x amenities)
// like the per-area form, but a single round trip.
func (s *AmenityStore) CountByArea(ctx context.Context, category amenity.Category) ([]amenity.AreaCount, error) {
	query := `
		SELECT a.id, a.name, count(am.id)
		FROM areas a
		LEFT JOIN amenities am
			ON ST_Covers(a.boundary, am.location)
	`

	var args []interface{}
	if category != "" {
		query += " AND am.category = $1"
		args = append(args, string(category))
	}

	query += " GROUP BY a.id, a.name ORDER BY a.name"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying area counts: %w", err)
	}
	defer rows.Close()

	var counts []amenity.AreaCount
	for rows.Next() {
		var c amenity.AreaCount
		if err := rows.Scan(&c.AreaID, &c.AreaName, &c.Count); err != nil {
			return nil, fmt.Errorf("error scanning area count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// likeEscaper escapes LIKE metacharacters in user-supplied match text
// so a literal % or _ matches only itself. Backslash is Postgres's
// default escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// appendAreaFilter narrows a query to amenities covered by one area's
// polygon when areaID is set
func appendAreaFilter(query string, args []interface{}, argIndex int, areaID string) (string, []interface{}, int) {
	if areaID == "" {
		return query, args, argIndex
	}

	query += fmt.Sprintf(
		" AND ST_Covers((SELECT boundary FROM areas WHERE id = $%d), location)",
		argIndex,
	)
	args = append(args, areaID)
	return query, args, argIndex + 1
}

func (s *AmenityStore) queryAmenities(ctx context.Context, query string, args ...interface{}) ([]amenity.Amenity, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying amenities: %w", err)
	}
	defer rows.Close()

	var amenities []amenity.Amenity
	for rows.Next() {
		a, err := scanAmenity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning amenity: %w", err)
		}
		amenities = append(amenities, *a)
	}

	return amenities, rows.Err()
}

func scanAmenity(row rowScanner) (*amenity.Amenity, error) {
	var a amenity.Amenity
	var category string
	var lng, lat float64
	var sourceRef *string

	if err := row.Scan(&a.ID, &a.Name, &category, &lng, &lat, &a.Description, &sourceRef, &a.CreatedAt); err != nil {
		return nil, err
	}

	a.Category = amenity.Category(category)
	a.Location = orb.Point{lng, lat}
	if sourceRef != nil {
		a.SourceRef = *sourceRef
	}

	return &a, nil
}

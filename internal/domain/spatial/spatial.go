// internal/domain/spatial/spatial.go

package spatial

import (
	"context"
	"errors"
	"fmt"

	"lbs/internal/domain/amenity"
	"lbs/internal/domain/route"
)

// Sentinel errors for the query taxonomy. Handlers translate them to
// client errors; everything else is a server error.
var (
	// ErrInvalidQuery marks malformed or out-of-range caller parameters
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNotFound marks a referenced area that does not exist
	ErrNotFound = errors.New("not found")
)

// Invalidf wraps ErrInvalidQuery with a detail message
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// Limits applied by the query engine
const (
	MaxLimit           = 100
	DefaultNearLimit   = 10
	DefaultSearchLimit = 50
	DefaultRadiusKm    = 1.0
	MinSearchQueryLen  = 2
)

// NearestQuery asks for amenities ordered by distance from a point.
// AreaID optionally restricts results to one area's polygon.
type NearestQuery struct {
	Lat    float64
	Lng    float64
	Limit  int
	AreaID string
}

// RadiusQuery asks for entities within RadiusKm of a point
type RadiusQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	AreaID   string
}

// SearchQuery asks for amenities matching free text
type SearchQuery struct {
	Query    string
	Category string
	Limit    int
}

// AreaDensity is the per-area amenity count returned by Density
type AreaDensity struct {
	AreaID   string `json:"area_id"`
	AreaName string `json:"area_name"`
	Count    int    `json:"count"`
}

// Service is the spatial query engine: it validates typed query
// requests, resolves referenced areas, and delegates the geometric
// predicates to the stores. All operations are read-only and safe to
// run concurrently.
type Service interface {
	// NearestAmenities returns amenities ordered by ascending geodesic
	// distance from the query point
	NearestAmenities(ctx context.Context, q NearestQuery) ([]amenity.Amenity, error)

	// AmenitiesWithinArea returns amenities inside the area polygon,
	// boundary points included
	AmenitiesWithinArea(ctx context.Context, areaID string) ([]amenity.Amenity, error)

	// AmenitiesWithinRadius returns amenities within q.RadiusKm of the
	// query point, ordered by ascending distance
	AmenitiesWithinRadius(ctx context.Context, q RadiusQuery) ([]amenity.Amenity, error)

	// SearchAmenities returns amenities whose text fields contain the
	// query case-insensitively
	SearchAmenities(ctx context.Context, q SearchQuery) ([]amenity.Amenity, error)

	// RoutesIntersectingArea returns routes that touch or cross the
	// area polygon
	RoutesIntersectingArea(ctx context.Context, areaID string) ([]route.Route, error)

	// RoutesWithinRadius returns routes within q.RadiusKm of the query
	// point
	RoutesWithinRadius(ctx context.Context, q RadiusQuery) ([]route.Route, error)

	// Density returns, for every area, the count of amenities inside
	// its polygon, optionally restricted to one category
	Density(ctx context.Context, category string) ([]AreaDensity, error)
}

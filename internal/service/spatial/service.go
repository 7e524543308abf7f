// internal/service/spatial/service.go

package spatial

import (
	"context"
	"strings"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"lbs/internal/domain/amenity"
	"lbs/internal/domain/area"
	"lbs/internal/domain/route"
	"lbs/internal/domain/spatial"
)

// Service implements the spatial query engine. It validates query
// parameters before any database round trip, resolves referenced
// areas, and delegates the geometric predicates to the stores. It
// holds no mutable state, so any number of queries may run
// concurrently.
type Service struct {
	areas     area.Store
	amenities amenity.Store
	routes    route.Store
	logger    *zap.Logger
}

// NewService creates a new spatial query engine
func NewService(areas area.Store, amenities amenity.Store, routes route.Store, logger *zap.Logger) *Service {
	return &Service{
		areas:     areas,
		amenities: amenities,
		routes:    routes,
		logger:    logger,
	}
}

// NearestAmenities returns amenities ordered by ascending geodesic
// distance from the query point
func (s *Service) NearestAmenities(ctx context.Context, q spatial.NearestQuery) ([]amenity.Amenity, error) {
	if q.Limit <= 0 {
		return nil, spatial.Invalidf("limit must be greater than zero")
	}
	if q.Limit > spatial.MaxLimit {
		q.Limit = spatial.MaxLimit
	}

	if err := s.resolveArea(ctx, q.AreaID); err != nil {
		return nil, err
	}

	return s.amenities.Nearest(ctx, orb.Point{q.Lng, q.Lat}, q.Limit, q.AreaID)
}

// AmenitiesWithinArea returns amenities inside the area polygon,
// boundary points included
func (s *Service) AmenitiesWithinArea(ctx context.Context, areaID string) ([]amenity.Amenity, error) {
	if areaID == "" {
		return nil, spatial.Invalidf("area_id is required")
	}
	if _, err := s.areas.Get(ctx, areaID); err != nil {
		return nil, err
	}

	return s.amenities.WithinArea(ctx, areaID)
}

// AmenitiesWithinRadius returns amenities within q.RadiusKm of the
// query point, ordered by ascending distance
func (s *Service) AmenitiesWithinRadius(ctx context.Context, q spatial.RadiusQuery) ([]amenity.Amenity, error) {
	if q.RadiusKm <= 0 {
		return nil, spatial.Invalidf("km must be greater than zero")
	}

	if err := s.resolveArea(ctx, q.AreaID); err != nil {
		return nil, err
	}

	return s.amenities.WithinRadius(ctx, orb.Point{q.Lng, q.Lat}, q.RadiusKm, q.AreaID)
}

// SearchAmenities returns amenities whose text fields contain the
// query case-insensitively
func (s *Service) SearchAmenities(ctx context.Context, q spatial.SearchQuery) ([]amenity.Amenity, error) {
	text := strings.TrimSpace(q.Query)
	if len(text) < spatial.MinSearchQueryLen {
		return nil, spatial.Invalidf("q must be at least %d characters", spatial.MinSearchQueryLen)
	}

	category, err := parseOptionalCategory(q.Category)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = spatial.DefaultSearchLimit
	}
	if limit > spatial.MaxLimit {
		limit = spatial.MaxLimit
	}

	return s.amenities.Search(ctx, amenity.SearchFilter{
		Query:    text,
		Category: category,
		Limit:    limit,
	})
}

// RoutesIntersectingArea returns routes that touch or cross the area
// polygon
func (s *Service) RoutesIntersectingArea(ctx context.Context, areaID string) ([]route.Route, error) {
	if areaID == "" {
		return nil, spatial.Invalidf("area_id is required")
	}
	if _, err := s.areas.Get(ctx, areaID); err != nil {
		return nil, err
	}

	return s.routes.IntersectingArea(ctx, areaID)
}

// RoutesWithinRadius returns routes within q.RadiusKm of the query
// point
func (s *Service) RoutesWithinRadius(ctx context.Context, q spatial.RadiusQuery) ([]route.Route, error) {
	if q.RadiusKm <= 0 {
		return nil, spatial.Invalidf("km must be greater than zero")
	}

	return s.routes.WithinRadius(ctx, orb.Point{q.Lng, q.Lat}, q.RadiusKm)
}

// Density returns the per-area amenity count, optionally restricted to
// one category
func (s *Service) Density(ctx context.Context, category string) ([]spatial.AreaDensity, error) {
	cat, err := parseOptionalCategory(category)
	if err != nil {
		return nil, err
	}

	counts, err := s.amenities.CountByArea(ctx, cat)
	if err != nil {
		return nil, err
	}

	densities := make([]spatial.AreaDensity, 0, len(counts))
	for _, c := range counts {
		densities = append(densities, spatial.AreaDensity{
			AreaID:   c.AreaID,
			AreaName: c.AreaName,
			Count:    c.Count,
		})
	}

	return densities, nil
}

// resolveArea verifies an optional area reference, mapping a missing
// area to ErrNotFound before the spatial query runs
func (s *Service) resolveArea(ctx context.Context, areaID string) error {
	if areaID == "" {
		return nil
	}
	_, err := s.areas.Get(ctx, areaID)
	return err
}

func parseOptionalCategory(raw string) (amenity.Category, error) {
	if raw == "" {
		return "", nil
	}
	category, err := amenity.ParseCategory(raw)
	if err != nil {
		return "", spatial.Invalidf("%v", err)
	}
	return category, nil
}

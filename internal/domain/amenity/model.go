// internal/domain/amenity/model.go

package amenity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Category is the closed set of amenity kinds the system stores.
// External records that do not map onto one of these are rejected at
// ingestion, never stored with a fallback value.
type Category string

const (
	CategoryCafe Category = "cafe"
	CategoryGym  Category = "gym"
	CategoryATM  Category = "atm"
	CategoryPark Category = "park"
	CategoryShop Category = "shop"
)

// Categories lists every valid category
func Categories() []Category {
	return []Category{CategoryCafe, CategoryGym, CategoryATM, CategoryPark, CategoryShop}
}

// ParseCategory validates a raw category string
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	for _, valid := range Categories() {
		if c == valid {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Field length bounds enforced on every write path
const (
	MaxNameLen        = 120
	MaxDescriptionLen = 500
)

// Amenity is a point of interest with a category and a WGS84 location.
// SourceRef, when present, is the stable external-source identifier and
// the sole deduplication key for repeated ingestion runs; amenities
// created through the direct API write path carry no SourceRef.
type Amenity struct {
	ID          string
	Name        string
	Category    Category
	Location    orb.Point
	Description string
	SourceRef   string
	CreatedAt   time.Time
}

// ErrDuplicateSourceRef is returned by Store.Create when an amenity
// with the same source reference already exists. The ingestion
// pipeline treats it as its duplicate-skip signal, so the uniqueness
// guarantee lives in the storage layer rather than in a check-then-
// insert sequence.
var ErrDuplicateSourceRef = errors.New("duplicate source reference")

// Filter narrows List results
type Filter struct {
	Category Category
	Name     string
}

// SearchFilter describes a text search over amenity fields
type SearchFilter struct {
	Query    string
	Category Category
	Limit    int
}

// AreaCount is one row of a density aggregation: how many amenities
// fall inside a single area's polygon
type AreaCount struct {
	AreaID   string
	AreaName string
	Count    int
}

// Store defines persistence and spatial lookups for amenities
type Store interface {
	// Create saves a new amenity. Returns ErrDuplicateSourceRef when
	// its source reference is already taken.
	Create(ctx context.Context, a Amenity) error

	// Get retrieves an amenity by ID
	Get(ctx context.Context, id string) (*Amenity, error)

	// List returns amenities matching the filter, ordered by name
	List(ctx context.Context, filter Filter) ([]Amenity, error)

	// Delete removes an amenity by ID
	Delete(ctx context.Context, id string) error

	// ExistsBySourceRef reports whether an amenity with the given
	// source reference exists
	ExistsBySourceRef(ctx context.Context, ref string) (bool, error)

	// DeleteBySourceRefPrefix removes amenities whose source reference
	// starts with prefix, returning the number deleted. Amenities with
	// no source reference are never touched.
	DeleteBySourceRefPrefix(ctx context.Context, prefix string) (int64, error)

	// Nearest returns up to limit amenities ordered by ascending
	// geodesic distance from origin (longitude-latitude order),
	// optionally restricted to the given area's polygon
	Nearest(ctx context.Context, origin orb.Point, limit int, areaID string) ([]Amenity, error)

	// WithinArea returns amenities whose location is covered by the
	// area's polygon, boundary points included
	WithinArea(ctx context.Context, areaID string) ([]Amenity, error)

	// WithinRadius returns amenities within radiusKm of origin ordered
	// by ascending distance, optionally restricted to an area
	WithinRadius(ctx context.Context, origin orb.Point, radiusKm float64, areaID string) ([]Amenity, error)

	// Search returns amenities whose name or description contains the
	// query case-insensitively
	Search(ctx context.Context, filter SearchFilter) ([]Amenity, error)

	// CountByArea returns, for every area, the number of amenities
	// covered by its polygon, optionally restricted to one category
	CountByArea(ctx context.Context, category Category) ([]AreaCount, error)
}

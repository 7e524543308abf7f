// internal/domain/route/model.go

package route

import (
	"context"
	"time"

	"github.com/paulmach/orb"
)

// Route is a named line geometry (a walking or cycling path) in WGS84
// coordinates. Names are unique; reimporting a name replaces its
// geometry rather than creating a second record.
type Route struct {
	ID        string
	Name      string
	Path      orb.LineString
	CreatedAt time.Time
}

// Store defines persistence for routes
type Store interface {
	// Upsert creates a route under the given name, or replaces its
	// geometry if the name already exists. Returns true when a new
	// record was created.
	Upsert(ctx context.Context, name string, path orb.LineString) (bool, error)

	// Get retrieves a route by ID
	Get(ctx context.Context, id string) (*Route, error)

	// List returns all routes ordered by name
	List(ctx context.Context) ([]Route, error)

	// DeleteAll removes every route. Returns the number deleted.
	DeleteAll(ctx context.Context) (int64, error)

	// IntersectingArea returns routes whose path touches or crosses
	// the given area's polygon
	IntersectingArea(ctx context.Context, areaID string) ([]Route, error)

	// WithinRadius returns routes within radiusKm of the origin point
	// (longitude-latitude order)
	WithinRadius(ctx context.Context, origin orb.Point, radiusKm float64) ([]Route, error)
}

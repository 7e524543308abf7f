// internal/domain/area/model.go

package area

import (
	"context"
	"time"

	"github.com/paulmach/orb"
)

// Area is a named polygon of interest in WGS84 coordinates.
// Areas are loaded administratively and treated as immutable afterwards;
// ingestion and spatial queries reference them but never modify them.
type Area struct {
	ID        string
	Name      string
	Boundary  orb.Polygon
	CreatedAt time.Time
}

// Store defines persistence for areas
type Store interface {
	// Create saves a new area
	Create(ctx context.Context, a Area) error

	// Get retrieves an area by ID
	Get(ctx context.Context, id string) (*Area, error)

	// List returns all areas ordered by name
	List(ctx context.Context) ([]Area, error)

	// ListByName returns areas whose name contains the given fragment,
	// case-insensitively
	ListByName(ctx context.Context, fragment string) ([]Area, error)
}

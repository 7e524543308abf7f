// internal/domain/favorite/model.go

package favorite

import (
	"context"
	"errors"
	"time"

	"lbs/internal/domain/amenity"
)

// Favorite links a user to an amenity. At most one favorite exists per
// (user, amenity) pair; a favorite disappears when its amenity does.
type Favorite struct {
	ID        string
	UserID    string
	AmenityID string
	Amenity   *amenity.Amenity
	CreatedAt time.Time
}

// ErrAlreadyFavorited is returned when the (user, amenity) pair exists
var ErrAlreadyFavorited = errors.New("amenity already favorited")

// Store defines persistence for favorites
type Store interface {
	// Create saves a new favorite. Returns ErrAlreadyFavorited when
	// the pair already exists.
	Create(ctx context.Context, f Favorite) error

	// ListByUser returns a user's favorites, newest first, with the
	// referenced amenity populated
	ListByUser(ctx context.Context, userID string) ([]Favorite, error)

	// Delete removes a favorite owned by the given user
	Delete(ctx context.Context, userID, id string) error
}

// internal/adapter/storage/favorite_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/paulmach/orb"

	"lbs/internal/domain/amenity"
	"lbs/internal/domain/favorite"
	"lbs/internal/domain/spatial"
)

// FavoriteStore implements storage for favorites
type FavoriteStore struct {
	db *pgxpool.Pool
}

// NewFavoriteStore creates a new favorite store
func NewFavoriteStore(db *pgxpool.Pool) *FavoriteStore {
	return &FavoriteStore{
		db: db,
	}
}

// Create saves a new favorite. The (user_id, amenity_id) unique
// constraint surfaces as favorite.ErrAlreadyFavorited; a missing
// amenity surfaces as spatial.ErrNotFound.
func (s *FavoriteStore) Create(ctx context.Context, f favorite.Favorite) error {
	query := `
		INSERT INTO favorites (id, user_id, amenity_id, created_at)
		VALUES ($1, $2, $3, now())
	`

	_, err := s.db.Exec(ctx, query, f.ID, f.UserID, f.AmenityID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("%w: amenity %s", favorite.ErrAlreadyFavorited, f.AmenityID)
			case "23503":
				return fmt.Errorf("%w: amenity %s", spatial.ErrNotFound, f.AmenityID)
			}
		}
		return fmt.Errorf("error inserting favorite: %w", err)
	}

	return nil
}

// ListByUser returns a user's favorites, newest first, with the
// referenced amenity populated
func (s *FavoriteStore) ListByUser(ctx context.Context, userID string) ([]favorite.Favorite, error) {
	query := `
		SELECT
			f.id, f.user_id, f.amenity_id, f.created_at,
			a.id, a.name, a.category, ST_X(a.location), ST_Y(a.location), a.description, a.source_ref, a.created_at
		FROM favorites f
		JOIN amenities a ON a.id = f.amenity_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying favorites: %w", err)
	}
	defer rows.Close()

	var favorites []favorite.Favorite
	for rows.Next() {
		var f favorite.Favorite
		var a amenity.Amenity
		var category string
		var lng, lat float64
		var sourceRef *string

		err := rows.Scan(
			&f.ID, &f.UserID, &f.AmenityID, &f.CreatedAt,
			&a.ID, &a.Name, &category, &lng, &lat, &a.Description, &sourceRef, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning favorite: %w", err)
		}

		a.Category = amenity.Category(category)
		a.Location = orb.Point{lng, lat}
		if sourceRef != nil {
			a.SourceRef = *sourceRef
		}
		f.Amenity = &a

		favorites = append(favorites, f)
	}

	return favorites, rows.Err()
}

// Delete removes a favorite owned by the given user
func (s *FavoriteStore) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM favorites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: favorite %s", spatial.ErrNotFound, id)
	}
	return nil
}

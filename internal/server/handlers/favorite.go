// internal/server/handlers/favorite.go

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lbs/internal/domain/favorite"
	"lbs/internal/server/middleware"
)

// FavoriteHandler handles favorite requests. All of them run behind
// the auth middleware, which supplies the user id.
type FavoriteHandler struct {
	store favorite.Store
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(store favorite.Store) *FavoriteHandler {
	return &FavoriteHandler{
		store: store,
	}
}

// favoriteResponse pairs the relation with its amenity feature
type favoriteResponse struct {
	ID        string      `json:"id"`
	AmenityID string      `json:"amenity_id"`
	Amenity   interface{} `json:"amenity,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// List returns the authenticated user's favorites, newest first.
// GET /favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	favorites, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	response := make([]favoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		entry := favoriteResponse{
			ID:        f.ID,
			AmenityID: f.AmenityID,
			CreatedAt: f.CreatedAt,
		}
		if f.Amenity != nil {
			entry.Amenity = amenityFeature(f.Amenity)
		}
		response = append(response, entry)
	}

	respondWithJSON(w, http.StatusOK, response)
}

// Create favorites an amenity for the authenticated user.
// POST /favorites
func (h *FavoriteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	type createRequest struct {
		AmenityID string `json:"amenity_id"`
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AmenityID == "" {
		respondWithError(w, http.StatusBadRequest, "amenity_id is required")
		return
	}

	f := favorite.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		AmenityID: req.AmenityID,
	}

	if err := h.store.Create(r.Context(), f); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, favoriteResponse{
		ID:        f.ID,
		AmenityID: f.AmenityID,
		CreatedAt: time.Now(),
	})
}

// Delete removes one of the authenticated user's favorites.
// DELETE /favorites/{id}
func (h *FavoriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.store.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

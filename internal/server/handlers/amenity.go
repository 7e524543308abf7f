// internal/server/handlers/amenity.go

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"lbs/internal/domain/amenity"
)

// AmenityHandler handles amenity CRUD requests
type AmenityHandler struct {
	store amenity.Store
}

// NewAmenityHandler creates a new amenity handler
func NewAmenityHandler(store amenity.Store) *AmenityHandler {
	return &AmenityHandler{
		store: store,
	}
}

// List returns amenities, optionally filtered by category and name.
// GET /amenities?category&name
func (h *AmenityHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter amenity.Filter

	if categoryStr := r.URL.Query().Get("category"); categoryStr != "" {
		category, err := amenity.ParseCategory(categoryStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Category = category
	}
	filter.Name = r.URL.Query().Get("name")

	amenities, err := h.store.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, amenityCollection(amenities))
}

// Get returns one amenity as a GeoJSON feature.
// GET /amenities/{id}
func (h *AmenityHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, amenityFeature(a))
}

// Create saves a new amenity. Directly created amenities carry no
// source reference, which keeps them out of ingestion reset scope.
// POST /amenities
func (h *AmenityHandler) Create(w http.ResponseWriter, r *http.Request) {
	type createRequest struct {
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Lat         float64 `json:"lat"`
		Lng         float64 `json:"lng"`
		Description string  `json:"description"`
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || len(req.Name) > amenity.MaxNameLen {
		respondWithError(w, http.StatusBadRequest, "name is required and bounded")
		return
	}
	if len(req.Description) > amenity.MaxDescriptionLen {
		respondWithError(w, http.StatusBadRequest, "description too long")
		return
	}

	category, err := amenity.ParseCategory(req.Category)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	a := amenity.Amenity{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Category:    category,
		Location:    orb.Point{req.Lng, req.Lat},
		Description: req.Description,
	}

	if err := h.store.Create(r.Context(), a); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, amenityFeature(&a))
}

// Delete removes an amenity; its favorites cascade away with it.
// DELETE /amenities/{id}
func (h *AmenityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

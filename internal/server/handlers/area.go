// internal/server/handlers/area.go

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"lbs/internal/domain/area"
)

// AreaHandler handles area requests
type AreaHandler struct {
	store area.Store
}

// NewAreaHandler creates a new area handler
func NewAreaHandler(store area.Store) *AreaHandler {
	return &AreaHandler{
		store: store,
	}
}

// List returns all areas as a GeoJSON feature collection.
// GET /areas
func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request) {
	areas, err := h.store.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, areaCollection(areas))
}

// Get returns one area.
// GET /areas/{id}
func (h *AreaHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, areaFeature(a))
}

// Create saves a new area from a name and a GeoJSON polygon. This is
// the administrative load path; areas are immutable afterwards.
// POST /areas
func (h *AreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	type createRequest struct {
		Name     string            `json:"name"`
		Boundary *geojson.Geometry `json:"boundary"`
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Boundary == nil {
		respondWithError(w, http.StatusBadRequest, "boundary is required")
		return
	}

	boundary, ok := req.Boundary.Geometry().(orb.Polygon)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "boundary must be a polygon")
		return
	}

	a := area.Area{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Boundary: boundary,
	}

	if err := h.store.Create(r.Context(), a); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, areaFeature(&a))
}

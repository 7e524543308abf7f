// internal/server/handlers/spatial.go

package handlers

import (
	"net/http"
	"strconv"

	"lbs/internal/domain/spatial"
)

// SpatialHandler handles the spatial query endpoints
type SpatialHandler struct {
	service spatial.Service
}

// NewSpatialHandler creates a new spatial handler
func NewSpatialHandler(service spatial.Service) *SpatialHandler {
	return &SpatialHandler{
		service: service,
	}
}

// NearestAmenities returns amenities ordered by distance from a point.
// GET /amenities/nearest?lat&lng&limit&area_id
func (h *SpatialHandler) NearestAmenities(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseLatLng(w, r)
	if !ok {
		return
	}

	// Default limit, rejected when non-numeric or non-positive;
	// values above the cap are clamped by the engine
	limit := spatial.DefaultNearLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "query param 'limit' must be a positive integer")
			return
		}
		limit = parsed
	}

	amenities, err := h.service.NearestAmenities(r.Context(), spatial.NearestQuery{
		Lat:    lat,
		Lng:    lng,
		Limit:  limit,
		AreaID: r.URL.Query().Get("area_id"),
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, amenityCollection(amenities))
}

// AmenitiesWithinArea returns amenities inside an area polygon.
// GET /amenities/within?area_id
func (h *SpatialHandler) AmenitiesWithinArea(w http.ResponseWriter, r *http.Request) {
	areaID := r.URL.Query().Get("area_id")
	if areaID == "" {
		respondWithError(w, http.StatusBadRequest, "query param 'area_id' is required")
		return
	}

	amenities, err := h.service.AmenitiesWithinArea(r.Context(), areaID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, amenityCollection(amenities))
}

// AmenitiesWithinRadius returns amenities within km of a point.
// GET /amenities/radius?lat&lng&km&area_id
func (h *SpatialHandler) AmenitiesWithinRadius(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseLatLng(w, r)
	if !ok {
		return
	}

	km, ok := parseRadiusKm(w, r)
	if !ok {
		return
	}

	amenities, err := h.service.AmenitiesWithinRadius(r.Context(), spatial.RadiusQuery{
		Lat:      lat,
		Lng:      lng,
		RadiusKm: km,
		AreaID:   r.URL.Query().Get("area_id"),
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, amenityCollection(amenities))
}

// SearchAmenities returns amenities matching free text.
// GET /amenities/search?q&category&limit
func (h *SpatialHandler) SearchAmenities(w http.ResponseWriter, r *http.Request) {
	// Limit defaults, clamping silently on parse failure or excess
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		switch {
		case err != nil || parsed > spatial.MaxLimit:
			limit = spatial.MaxLimit
		case parsed > 0:
			limit = parsed
		}
	}

	amenities, err := h.service.SearchAmenities(r.Context(), spatial.SearchQuery{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, amenityCollection(amenities))
}

// RoutesIntersectingArea returns routes touching or crossing an area.
// GET /routes/intersecting?area_id
func (h *SpatialHandler) RoutesIntersectingArea(w http.ResponseWriter, r *http.Request) {
	areaID := r.URL.Query().Get("area_id")
	if areaID == "" {
		respondWithError(w, http.StatusBadRequest, "query param 'area_id' is required")
		return
	}

	routes, err := h.service.RoutesIntersectingArea(r.Context(), areaID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, routeCollection(routes))
}

// RoutesWithinRadius returns routes within km of a point.
// GET /routes/radius?lat&lng&km
func (h *SpatialHandler) RoutesWithinRadius(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseLatLng(w, r)
	if !ok {
		return
	}

	km, ok := parseRadiusKm(w, r)
	if !ok {
		return
	}

	routes, err := h.service.RoutesWithinRadius(r.Context(), spatial.RadiusQuery{
		Lat:      lat,
		Lng:      lng,
		RadiusKm: km,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, routeCollection(routes))
}

// Density returns the per-area amenity count.
// GET /areas/density?category
func (h *SpatialHandler) Density(w http.ResponseWriter, r *http.Request) {
	densities, err := h.service.Density(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, densities)
}

// parseLatLng parses the required lat/lng query params, writing a
// client error when either is missing or non-numeric
func parseLatLng(w http.ResponseWriter, r *http.Request) (lat, lng float64, ok bool) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr == "" || lngStr == "" {
		respondWithError(w, http.StatusBadRequest, "query params 'lat' and 'lng' are required floats")
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "query params 'lat' and 'lng' are required floats")
		return 0, 0, false
	}

	lng, err = strconv.ParseFloat(lngStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "query params 'lat' and 'lng' are required floats")
		return 0, 0, false
	}

	return lat, lng, true
}

// parseRadiusKm parses the optional km query param, defaulting to 1.0
// when omitted. An explicit non-numeric value is a client error; a
// non-positive value is rejected by the engine.
func parseRadiusKm(w http.ResponseWriter, r *http.Request) (float64, bool) {
	kmStr := r.URL.Query().Get("km")
	if kmStr == "" {
		return spatial.DefaultRadiusKm, true
	}

	km, err := strconv.ParseFloat(kmStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "query param 'km' must be a float")
		return 0, false
	}

	return km, true
}

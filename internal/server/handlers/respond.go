// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lbs/internal/domain/amenity"
	"lbs/internal/domain/favorite"
	"lbs/internal/domain/spatial"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError translates the error taxonomy into status
// codes: invalid queries and missing references are client errors,
// everything else a server error.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, spatial.ErrInvalidQuery):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, spatial.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, favorite.ErrAlreadyFavorited):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, amenity.ErrDuplicateSourceRef):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

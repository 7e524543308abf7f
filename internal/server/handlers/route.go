// internal/server/handlers/route.go

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lbs/internal/domain/route"
)

// RouteHandler handles route requests. Routes are written by the
// import pipeline, so the HTTP surface is read-only.
type RouteHandler struct {
	store route.Store
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(store route.Store) *RouteHandler {
	return &RouteHandler{
		store: store,
	}
}

// List returns all routes as a GeoJSON feature collection.
// GET /routes
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes, err := h.store.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, routeCollection(routes))
}

// Get returns one route.
// GET /routes/{id}
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	rt, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, routeFeature(rt))
}

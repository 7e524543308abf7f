// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lbs/internal/config"
	"lbs/internal/domain/amenity"
	"lbs/internal/domain/area"
	"lbs/internal/domain/favorite"
	"lbs/internal/domain/route"
	"lbs/internal/domain/spatial"
	"lbs/internal/server/handlers"
	authmiddleware "lbs/internal/server/middleware"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// Stores bundles the entity repositories the handlers read and write
type Stores struct {
	Areas     area.Store
	Routes    route.Store
	Amenities amenity.Store
	Favorites favorite.Store
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, authCfg config.AuthConfig, spatialService spatial.Service, stores Stores) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	spatialHandler := handlers.NewSpatialHandler(spatialService)
	amenityHandler := handlers.NewAmenityHandler(stores.Amenities)
	areaHandler := handlers.NewAreaHandler(stores.Areas)
	routeHandler := handlers.NewRouteHandler(stores.Routes)
	favoriteHandler := handlers.NewFavoriteHandler(stores.Favorites)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Amenities API: spatial queries first, then CRUD
			r.Route("/amenities", func(r chi.Router) {
				r.Get("/nearest", spatialHandler.NearestAmenities)
				r.Get("/within", spatialHandler.AmenitiesWithinArea)
				r.Get("/radius", spatialHandler.AmenitiesWithinRadius)
				r.Get("/search", spatialHandler.SearchAmenities)

				r.Get("/", amenityHandler.List)
				r.Post("/", amenityHandler.Create)
				r.Get("/{id}", amenityHandler.Get)
				r.Delete("/{id}", amenityHandler.Delete)
			})

			// Areas API
			r.Route("/areas", func(r chi.Router) {
				r.Get("/density", spatialHandler.Density)

				r.Get("/", areaHandler.List)
				r.Post("/", areaHandler.Create)
				r.Get("/{id}", areaHandler.Get)
			})

			// Routes API
			r.Route("/routes", func(r chi.Router) {
				r.Get("/intersecting", spatialHandler.RoutesIntersectingArea)
				r.Get("/radius", spatialHandler.RoutesWithinRadius)

				r.Get("/", routeHandler.List)
				r.Get("/{id}", routeHandler.Get)
			})

			// Favorites API, behind the auth boundary
			r.Route("/favorites", func(r chi.Router) {
				r.Use(authmiddleware.Auth(authCfg.TokenSecret))
				r.Get("/", favoriteHandler.List)
				r.Post("/", favoriteHandler.Create)
				r.Delete("/{id}", favoriteHandler.Delete)
			})
		})
	})

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

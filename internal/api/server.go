// Package api provides the HTTP API server and handlers for the BookMeUp application.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/store"
	"github.com/bookmeup/bookmeup-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.Store
	services  *Services
	validator *validation.Validator
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Owner-ID"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig("BookMeUp API", "1.0.0")
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:     st,
		services:  services,
		validator: validation.New(),
		router:    router,
		api:       api,
		logger:    logger,
	}

	s.registerHealthRoutes()
	s.registerBookmarkRoutes()
	s.registerTagRoutes()
	s.registerCollectionRoutes()
	s.registerNoteRoutes()
	s.registerActivityRoutes()
	s.registerSearchRoutes()
	s.registerDuplicateRoutes()
	s.registerLinkHealthRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requireOwner resolves the X-Owner-ID header to a known user. Identity
// comes from the fronting proxy; the server only checks the owner exists.
func (s *Server) requireOwner(ctx context.Context, ownerID string) (string, error) {
	if ownerID == "" {
		return "", apperrors.Unauthorized("missing X-Owner-ID header")
	}
	user, err := s.store.GetUser(ctx, ownerID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return "", apperrors.Unauthorized("unknown owner")
		}
		return "", apperrors.Internal("resolve owner", err)
	}
	return user.ID, nil
}

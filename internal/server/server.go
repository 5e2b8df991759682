// Package server provides the HTTP server for the ProMesto API. It wires
// configuration, the database pool, repositories, services, and handlers
// together and manages the server lifecycle including graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/config"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/database"
	"github.com/promesto/backend/internal/handlers"
	"github.com/promesto/backend/internal/repository"
	"github.com/promesto/backend/internal/service"
	"github.com/promesto/backend/internal/utils/ratelimit"
	"github.com/promesto/backend/migrations"
	"github.com/promesto/backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler manages sign-in, session, and profile endpoints
	AuthHandler *handlers.AuthHandler

	// PlaceHandler manages place lists, CRUD, and toggles
	PlaceHandler *handlers.PlaceHandler

	// NoteHandler manages the notes dashboard
	NoteHandler *handlers.NoteHandler

	// ViewDBHandler manages the admin table browser
	ViewDBHandler *handlers.ViewDBHandler
}

// Server represents the ProMesto API server. It owns the database pool
// and every component built on top of it.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// router handles HTTP routing
	router chi.Router

	// jwtService issues and validates session tokens
	jwtService *auth.JWTService

	// viewDBService owns the table browser target pools
	viewDBService *service.ViewDBService

	// limiterStore holds the per-client rate limit buckets
	limiterStore *ratelimit.Store

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// Initialization order matters: database, then repositories, then
// services, then handlers, then routes. The pool created here is handed
// down explicitly; nothing below reaches for a global connection.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.setupComponents(); err != nil {
		return nil, fmt.Errorf("failed to set up components: %w", err)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase connects to the primary database, runs migrations, and
// seeds starter data.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(&s.Config.Database)
	if err != nil {
		return err
	}

	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	seeder := scripts.NewSeeder(db)
	if err := seeder.SeedDatabase(context.Background()); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return nil
}

// setupComponents builds repositories, services, and handlers on top of
// the connected pool.
func (s *Server) setupComponents() error {
	// All repository traffic goes through the retrying executor
	executor := database.NewExecutor(s.Db)

	userRepo := repository.NewUserRepository(executor)
	placeRepo := repository.NewPlaceRepository(executor)
	likeRepo := repository.NewLikeRepository(executor)
	noteRepo := repository.NewNoteRepository(executor)

	cache, err := service.NewListCache(s.Config.Cache.ListPages)
	if err != nil {
		return err
	}

	s.jwtService = auth.NewJWTService(&s.Config.JWT)
	verifier := auth.NewGoogleVerifier(&s.Config.GoogleOAuth)

	authService := service.NewAuthService(verifier, userRepo, s.jwtService)
	placeService := service.NewPlaceService(placeRepo, likeRepo, cache)
	queryService := service.NewQueryService(placeRepo, noteRepo, cache)
	s.viewDBService = service.NewViewDBService(s.Config)

	s.Handlers = &Handlers{
		AuthHandler:   handlers.NewAuthHandler(authService),
		PlaceHandler:  handlers.NewPlaceHandler(placeService, queryService),
		NoteHandler:   handlers.NewNoteHandler(queryService),
		ViewDBHandler: handlers.NewViewDBHandler(s.viewDBService),
	}

	s.limiterStore = ratelimit.NewStore(ratelimit.Rate{
		RequestsPerSecond: constants.DefaultRateLimitPerSecond,
		Burst:             constants.DefaultRateLimitBurst,
	}, 5*time.Minute)
	s.limiterStore.SetRate(constants.RateLimitCategoryAuth, ratelimit.Rate{
		RequestsPerSecond: constants.AuthRateLimitPerSecond,
		Burst:             constants.AuthRateLimitBurst,
	})

	return nil
}

// Start starts the HTTP server and blocks until a server error occurs
// or a shutdown signal is received.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests before closing the database pools.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.viewDBService.Close()
	s.Db.Close()
	log.Info().Msg("Database connections closed")

	return nil
}

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/middleware"
	"github.com/promesto/backend/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
// - Health check and version endpoints (unprotected)
// - Google OAuth sign-in and session endpoints
// - Place list, CRUD, and toggle endpoints
// - The notes dashboard
// - The admin table browser (authentication plus admin key)
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	r.Use(corsMiddleware(s.Config.CORS.AllowedOrigins))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())

	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogging())
	}

	jwtProvider := auth.NewJWTAuthProvider(s.jwtService)

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, func(w http.ResponseWriter, r *http.Request) {
			if err := s.Db.HealthCheck(r.Context()); err != nil {
				log.Error().Err(err).Msg("Health check failed")
				utils.Error(w, http.StatusServiceUnavailable, constants.CodeUnavailable, "Service is not healthy", nil)
				return
			}

			utils.JSON(w, http.StatusOK, map[string]string{
				"status":  "healthy",
				"version": s.Config.App.Version,
			})
		})

		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, http.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})
	})

	// API routes
	r.Route(constants.APIBasePath, func(r chi.Router) {
		// Authentication routes
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(s.limiterStore, constants.RateLimitCategoryAuth))

				r.Get("/google/url", s.Handlers.AuthHandler.GetGoogleAuthURL)
				r.Post("/google", s.Handlers.AuthHandler.GoogleSignIn)
				r.Post("/refresh", s.Handlers.AuthHandler.RefreshToken)
			})

			// The session probe succeeds for anonymous callers too
			r.Group(func(r chi.Router) {
				r.Use(auth.OptionalAuth(jwtProvider))
				r.Get("/check", s.Handlers.AuthHandler.CheckAuth)
			})
		})

		// Profile routes
		r.Route("/users", func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtProvider))
			r.Get("/me", s.Handlers.AuthHandler.GetCurrentUser)
		})

		// Place routes
		r.Route("/places", func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiterStore, constants.RateLimitCategoryAPI))

			// List views authenticate optionally: mine and favorites answer
			// anonymous callers with an empty page, public lists for everyone
			r.Group(func(r chi.Router) {
				r.Use(auth.OptionalAuth(jwtProvider))

				r.Get("/mine", s.Handlers.PlaceHandler.ListMine)
				r.Get("/public", s.Handlers.PlaceHandler.ListPublic)
				r.Get("/favorites", s.Handlers.PlaceHandler.ListFavorites)
			})

			// Mutations require a session
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(jwtProvider))

				r.Post("/", s.Handlers.PlaceHandler.CreatePlace)
				r.Put("/{id}", s.Handlers.PlaceHandler.UpdatePlace)
				r.Delete("/{id}", s.Handlers.PlaceHandler.DeletePlace)
				r.Post("/{id}/visibility", s.Handlers.PlaceHandler.ToggleVisibility)
				r.Post("/{id}/favorite", s.Handlers.PlaceHandler.ToggleFavorite)
				r.Post("/{id}/like", s.Handlers.PlaceHandler.ToggleLike)
			})
		})

		// Notes dashboard
		r.Route("/notes", func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtProvider))
			r.Get("/", s.Handlers.NoteHandler.ListNotes)
		})

		// Admin table browser: a session plus the admin key
		r.Route("/admin/db", func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtProvider))
			r.Use(auth.RequireAdminKey(&s.Config.Admin))

			r.Route("/{target}", func(r chi.Router) {
				r.Get("/tables", s.Handlers.ViewDBHandler.ListTables)
				r.Get("/{table}", s.Handlers.ViewDBHandler.ListRows)
				r.Post("/{table}", s.Handlers.ViewDBHandler.CreateRow)
				r.Put("/{table}/{id}", s.Handlers.ViewDBHandler.UpdateRow)
				r.Delete("/{table}/{id}", s.Handlers.ViewDBHandler.DeleteRow)
			})
		})
	})

	s.router = r
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// corsMiddleware adds CORS headers for allowed origins and answers
// OPTIONS preflight requests.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")

					if r.Method != http.MethodOptions {
						next.ServeHTTP(w, r)
						return
					}

					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID, X-Admin-Key")
					w.Header().Set("Access-Control-Max-Age", "300")

					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			// Unknown origin: continue without CORS headers
			next.ServeHTTP(w, r)
		})
	}
}

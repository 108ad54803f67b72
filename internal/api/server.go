// Package api provides the HTTP API server and handlers for the
// ExLibris application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/exlibrismoi/exlibris-server/internal/http/response"
	"github.com/exlibrismoi/exlibris-server/internal/media/images"
	"github.com/exlibrismoi/exlibris-server/internal/ratelimit"
	"github.com/exlibrismoi/exlibris-server/internal/service"
	"github.com/exlibrismoi/exlibris-server/internal/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService     *service.AuthService
	bookService     *service.BookService
	loanService     *service.LoanService
	scanService     *service.ScanService
	socialService   *service.SocialService
	profileService  *service.ProfileService
	discoverService *service.DiscoverService
	images          *images.Storage
	sseHandler      *sse.Handler
	authLimiter     *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	bookService *service.BookService,
	loanService *service.LoanService,
	scanService *service.ScanService,
	socialService *service.SocialService,
	profileService *service.ProfileService,
	discoverService *service.DiscoverService,
	images *images.Storage,
	sseHandler *sse.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:     authService,
		bookService:     bookService,
		loanService:     loanService,
		scanService:     scanService,
		socialService:   socialService,
		profileService:  profileService,
		discoverService: discoverService,
		images:          images,
		sseHandler:      sseHandler,
		authLimiter:     ratelimit.New(1, 10),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-owned resources.
func (s *Server) Close() {
	s.authLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited per IP).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimitByIP)
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.With(s.requireAuth).Post("/logout", s.handleLogout)
		})

		// Users and the social graph.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Post("/me/photo", s.handleSetProfilePhoto)
			r.Get("/me/friends", s.handleListFriends)
			r.Post("/me/friends", s.handleAddFriend)
			r.Get("/search", s.handleSearchUsers)
			r.Get("/{id}", s.handleGetUser)
			r.Get("/{id}/books", s.handleGetUserBooks)
		})

		// Catalog.
		r.Route("/books", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListBooks)
			r.Get("/{id}", s.handleGetBook)
			r.Patch("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
		})

		// Scan-then-shelve flow.
		r.Route("/scan", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/lookup", s.handleScanLookup)
			r.Get("/session", s.handleScanSession)
			r.Delete("/session", s.handleScanDiscard)
			r.Post("/shelve", s.handleShelve)
		})

		// Loans.
		r.Route("/loans", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateLoan)
			r.Get("/lending", s.handleListLending)
			r.Get("/borrowed", s.handleListBorrowed)
			r.Post("/{id}/return", s.handleReturnLoan)
		})

		// Discover.
		r.With(s.requireAuth).Get("/discover/bestsellers", s.handleBestSellers)

		// Stored covers and profile images.
		r.With(s.requireAuth).Get("/files/*", s.handleGetFile)

		// SSE event stream.
		r.With(s.requireAuth).Get("/events", s.handleEvents)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

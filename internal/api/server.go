// Package api provides the HTTP API server and handlers for the ByajBook application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kripanidhi/byajbook-server/internal/http/response"
	"github.com/kripanidhi/byajbook-server/internal/service"
	"github.com/kripanidhi/byajbook-server/internal/upload"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService   *service.AuthService
	accessService *service.AccessService
	bookService   *service.BookService
	staffService  *service.StaffService
	personService *service.PersonService
	uploadService *service.UploadService
	uploadStorage *upload.Storage
	authLimiter   *RateLimiter
	uploadLimiter *RateLimiter
	router        *chi.Mux
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	accessService *service.AccessService,
	bookService *service.BookService,
	staffService *service.StaffService,
	personService *service.PersonService,
	uploadService *service.UploadService,
	uploadStorage *upload.Storage,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:   authService,
		accessService: accessService,
		bookService:   bookService,
		staffService:  staffService,
		personService: personService,
		uploadService: uploadService,
		uploadStorage: uploadStorage,
		authLimiter:   NewRateLimiter(20, time.Minute, 5),
		uploadLimiter: NewRateLimiter(30, time.Minute, 10),
		router:        chi.NewRouter(),
		logger:        logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Uploaded KYC documents (public read).
	s.router.Get("/uploads/kyc/{filename}", s.handleServeKYCDocument)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited per IP).
		r.Route("/auth", func(r chi.Router) {
			r.Use(RateLimitMiddleware(s.authLimiter, s.logger))
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// Protected user endpoints.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
		})

		// Branch books.
		r.Route("/books", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateBook)
			r.Get("/", s.handleListBooks)
			r.Get("/{id}", s.handleGetBook)
			r.Patch("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
		})

		// Staff management.
		r.Route("/staff", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateStaff)
			r.Get("/", s.handleListStaff)
			r.Get("/{userID}", s.handleGetStaff)
			r.Patch("/{userID}", s.handleUpdateStaff)
			r.Delete("/{userID}", s.handleDeleteStaff)
		})

		// Staff-targeted branch access.
		r.Route("/staff-branches", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/assign", s.handleAssignStaffBranches)
			r.Get("/", s.handleGetStaffBranches)
			r.Get("/{staffUserID}", s.handleGetStaffBranches)
		})

		// User-targeted branch access.
		r.Route("/user-branches", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/assign", s.handleAssignUserBranches)
			r.Get("/", s.handleGetUserBranches)
			r.Get("/me", s.handleGetUserBranches)
			r.Get("/{userID}", s.handleGetUserBranches)
		})

		// Borrowers.
		r.Route("/people", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreatePerson)
			r.Get("/", s.handleListPeople)
			r.Get("/{id}", s.handleGetPerson)
			r.Patch("/{id}", s.handleUpdatePerson)
			r.Delete("/{id}", s.handleDeletePerson)
		})

		// KYC document upload (rate limited per IP).
		r.Route("/upload", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Use(RateLimitMiddleware(s.uploadLimiter, s.logger))
			r.Post("/kyc", s.handleUploadKYC)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

// handleServeKYCDocument serves a stored KYC document from disk.
func (s *Server) handleServeKYCDocument(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		response.BadRequest(w, "Filename is required", s.logger)
		return
	}

	if !s.uploadStorage.Exists(filename) {
		response.NotFound(w, "Document not found", s.logger)
		return
	}

	http.ServeFile(w, r, s.uploadStorage.Path(filename))
}

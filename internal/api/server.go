package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"renthub/internal/auth"
	"renthub/internal/config"
	"renthub/internal/domain"
	"renthub/internal/models"
	"renthub/internal/service"
)

// Services bundles everything the HTTP layer dispatches to.
type Services struct {
	Auth      *service.AuthService
	Property  *service.PropertyService
	Booking   *service.BookingService
	Rating    *service.RatingService
	Admin     *service.AdminService
	Analytics *service.AnalyticsService
	Chat      *service.ChatService
}

type Server struct {
	cfg    config.ServerConfig
	logger *zerolog.Logger
	repo   domain.Repository
	tokens *auth.TokenManager
	cache  domain.ListingCache
	svc    Services
	server *http.Server
}

func NewServer(cfg config.ServerConfig, repo domain.Repository, tokens *auth.TokenManager, cache domain.ListingCache, svc Services, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		tokens: tokens,
		cache:  cache,
		svc:    svc,
	}

	limiter := newRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})

	handler := s.requestIDMiddleware(s.loggingMiddleware(limiter.middleware(corsHandler.Handler(s.routes()))))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Timeouts.ReadHeader,
		WriteTimeout:      cfg.Timeouts.Write,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/profile", s.requireAuth(s.handleGetProfile))
	mux.HandleFunc("PUT /api/auth/profile", s.requireAuth(s.handleUpdateProfile))

	mux.HandleFunc("GET /api/properties", s.handleListProperties)
	mux.HandleFunc("GET /api/properties/{id}", s.handleGetProperty)
	mux.HandleFunc("GET /api/properties/owner/my-properties", s.requireRole(s.handleMyProperties, models.RoleOwner, models.RoleAdmin))
	mux.HandleFunc("POST /api/properties", s.requireRole(s.handleCreateProperty, models.RoleOwner, models.RoleAdmin))
	mux.HandleFunc("PUT /api/properties/{id}", s.requireRole(s.handleUpdateProperty, models.RoleOwner, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/properties/{id}", s.requireRole(s.handleDeleteProperty, models.RoleOwner, models.RoleAdmin))

	mux.HandleFunc("POST /api/bookings", s.requireRole(s.handleCreateBooking, models.RoleTenant))
	mux.HandleFunc("GET /api/bookings/my-bookings", s.requireRole(s.handleMyBookings, models.RoleTenant))
	mux.HandleFunc("DELETE /api/bookings/{id}", s.requireRole(s.handleCancelBooking, models.RoleTenant))
	mux.HandleFunc("GET /api/bookings/requests", s.requireRole(s.handleBookingRequests, models.RoleOwner, models.RoleAdmin))
	mux.HandleFunc("GET /api/bookings/stats", s.requireRole(s.handleBookingStats, models.RoleOwner, models.RoleAdmin))
	mux.HandleFunc("PATCH /api/bookings/{id}/status", s.requireRole(s.handleDecideBooking, models.RoleOwner, models.RoleAdmin))

	mux.HandleFunc("POST /api/ratings/property", s.requireAuth(s.handleRateProperty))
	mux.HandleFunc("POST /api/ratings/user", s.requireAuth(s.handleRateUser))
	mux.HandleFunc("GET /api/ratings/property/{id}", s.handlePropertyRatings)
	mux.HandleFunc("GET /api/ratings/user/{id}", s.handleUserRatings)

	mux.HandleFunc("GET /api/admin/stats", s.requireRole(s.handleAdminStats, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/users", s.requireRole(s.handleAdminUsers, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/properties", s.requireRole(s.handleAdminProperties, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/bookings", s.requireRole(s.handleAdminBookings, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/admin/users/{id}", s.requireRole(s.handleAdminDeleteUser, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/admin/properties/{id}", s.requireRole(s.handleAdminDeleteProperty, models.RoleAdmin))
	mux.HandleFunc("PATCH /api/admin/users/{id}/role", s.requireRole(s.handleAdminUpdateRole, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/export/bookings", s.requireRole(s.handleExportBookings, models.RoleAdmin))
	mux.HandleFunc("GET /api/admin/export/users", s.requireRole(s.handleExportUsers, models.RoleAdmin))

	mux.HandleFunc("GET /api/analytics/financial", s.requireRole(s.handleFinancialAnalytics, models.RoleOwner, models.RoleAdmin))
	mux.HandleFunc("GET /api/analytics/properties", s.requireRole(s.handlePropertyAnalytics, models.RoleOwner, models.RoleAdmin))
	mux.HandleFunc("GET /api/analytics/activities", s.requireRole(s.handleActivities, models.RoleOwner, models.RoleAdmin))

	mux.HandleFunc("POST /api/chatbot/message", s.requireRole(s.handleChatMessage, models.RoleTenant, models.RoleOwner, models.RoleAdmin))

	return mux
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

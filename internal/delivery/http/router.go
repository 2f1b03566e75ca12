package http

import (
	"net/http"

	"car-rental-admin/internal/delivery/http/handler"
	"car-rental-admin/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	bookingHandler    *handler.BookingHandler
	eventHandler      *handler.EventHandler
	supplierHandler   *handler.SupplierHandler
	carHandler        *handler.CarHandler
	auditLogHandler   *handler.AuditLogHandler
	pageHandler       *handler.PageHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	rateLimiter       *middleware.RateLimiter
}

func NewRouter(
	authHandler *handler.AuthHandler,
	bookingHandler *handler.BookingHandler,
	eventHandler *handler.EventHandler,
	supplierHandler *handler.SupplierHandler,
	carHandler *handler.CarHandler,
	auditLogHandler *handler.AuditLogHandler,
	pageHandler *handler.PageHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		bookingHandler:    bookingHandler,
		eventHandler:      eventHandler,
		supplierHandler:   supplierHandler,
		carHandler:        carHandler,
		auditLogHandler:   auditLogHandler,
		pageHandler:       pageHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		rateLimiter:       rateLimiter,
	}
}

// Setup registers every route and returns the root handler with global middleware applied
func (r *Router) Setup() http.Handler {
	r.router.HandleFunc("/about", r.pageHandler.About).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.pageHandler.Health).Methods(http.MethodGet)

	// Auth routes (public, rate limited by IP)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/login", r.rateLimiter.Limit(http.HandlerFunc(r.authHandler.Login))).Methods(http.MethodPost)
	auth.Handle("/refresh-token", r.rateLimiter.Limit(http.HandlerFunc(r.authHandler.RefreshToken))).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Back office routes (admin or supplier)
	backOffice := api.NewRoute().Subrouter()
	backOffice.Use(r.authMiddleware.Authenticate)
	backOffice.Use(middleware.RequireBackOffice)

	// Static paths are registered before the {page}/{size} pattern
	backOffice.Handle("/bookings/status", r.rateLimiter.Limit(http.HandlerFunc(r.bookingHandler.UpdateStatus))).Methods(http.MethodPost)
	backOffice.Handle("/bookings/delete", r.rateLimiter.Limit(http.HandlerFunc(r.bookingHandler.DeleteBookings))).Methods(http.MethodPost)
	backOffice.HandleFunc("/bookings/events", r.eventHandler.Stream).Methods(http.MethodGet)
	backOffice.HandleFunc("/bookings/{page:[0-9]+}/{size:[0-9]+}", r.bookingHandler.GetBookings).Methods(http.MethodPost)

	backOffice.HandleFunc("/suppliers", r.supplierHandler.GetAllSuppliers).Methods(http.MethodGet)
	backOffice.HandleFunc("/cars", r.carHandler.GetAll).Methods(http.MethodGet)
	backOffice.HandleFunc("/cars/{id}", r.carHandler.GetByID).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// CORS must see preflight requests before route matching rejects OPTIONS
	return r.loggingMiddleware.Handle(r.corsMiddleware.Handle(r.router))
}

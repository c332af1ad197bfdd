package rest

import (
	"net/http"

	"postviewer/infrastructure/session"
	"postviewer/interfaces/http/rest/handlers"
	"postviewer/interfaces/http/rest/middleware"
	apperrors "postviewer/pkg/errors"
	"postviewer/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig holds the HTTP settings the router needs.
type RouterConfig struct {
	SessionCookie  string
	SecureCookies  bool
	EnableCORS     bool
	AllowedOrigins []string
	Debug          bool
}

// Router creates and configures the HTTP router
type Router struct {
	config   RouterConfig
	sessions *session.Store
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil, which also
// disables /metrics.
func NewRouter(
	config RouterConfig,
	sessions *session.Store,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:   config,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	errorHandler := apperrors.NewErrorHandler(rt.logger, rt.config.Debug)
	pageHandler := handlers.NewPageHandler(errorHandler, rt.metrics, rt.logger)
	apiHandler := handlers.NewAPIHandler(errorHandler, pageHandler, rt.logger)

	// Health check
	router.Group(func(r chi.Router) {
		r.Use(middleware.Logger(rt.logger))
		r.Get("/health", rt.healthCheck)
		r.Get("/ready", rt.readinessCheck)
		if rt.metrics != nil {
			r.Handle("/metrics", rt.metrics.Handler())
		}
	})

	// Session routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(rt.sessions, middleware.SessionOptions{
			CookieName: rt.config.SessionCookie,
			Secure:     rt.config.SecureCookies,
		}))
		r.Use(middleware.Logger(rt.logger))

		r.Get("/", pageHandler.Show)
		r.Post("/select", pageHandler.Select)
		r.Post("/posts/{postID}/toggle", pageHandler.Toggle)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/state", apiHandler.State)
			r.Post("/selection", apiHandler.Selection)
			r.Post("/posts/{postID}/toggle", apiHandler.Toggle)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

package api

import (
	"net/http"
	"time"

	"github.com/futig/wrapgen/internal/api/docs"
	"github.com/futig/wrapgen/internal/api/middleware"
	"github.com/futig/wrapgen/internal/api/web"
	workflowapi "github.com/futig/wrapgen/internal/api/workflow"
	"github.com/futig/wrapgen/internal/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(workflowHandler *workflowapi.Handler, corsCfg config.CORSConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.Metrics)                      // Count requests
	r.Use(middleware.CORS(corsCfg))                // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	r.Get("/", web.Index)
	workflowapi.RegisterRoutes(r, workflowHandler)

	return r
}

package middleware

import (
	"net/http"

	"github.com/futig/wrapgen/internal/config"
	"github.com/go-chi/cors"
)

// CORS lets the page be served from another origin
func CORS(cfg config.CORSConfig) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           int(cfg.MaxAge.Seconds()),
	})
}

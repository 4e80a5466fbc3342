package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/consultjules/receipts/internal/auth"
	"github.com/consultjules/receipts/internal/metrics"
	"github.com/consultjules/receipts/internal/middleware"
)

// RouterConfig carries the dependencies and settings the router needs.
type RouterConfig struct {
	Auth           *AuthHandler
	Receipts       *ReceiptHandler
	JWT            *auth.JWTManager
	Collector      *metrics.Collector
	Registry       *prometheus.Registry
	AllowedOrigins []string
}

// NewRouter wires all routes and cross-cutting middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(cfg.Collector.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Receipt System API is running"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.Auth.Register)
		r.Post("/login", cfg.Auth.Login)
	})

	r.Route("/receipt", func(r chi.Router) {
		r.Post("/create", cfg.Receipts.Create)
		r.Get("/render/{id}", cfg.Receipts.Render)
		r.Get("/all", cfg.Receipts.List)
		// Deletion is destructive, so it requires a valid token.
		r.With(middleware.RequireAuth(cfg.JWT)).Delete("/{id}", cfg.Receipts.Delete)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	return r
}

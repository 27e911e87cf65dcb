package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/web"
)

// middlewares run outermost first. Recovery sits innermost so a panic still
// ends its span and produces an access log line with status 500.
var middlewares = []func(http.Handler) http.Handler{
	observability.RequestIDMiddleware,
	observability.TracingMiddleware,
	observability.LoggingMiddleware,
	observability.RecoverMiddleware,
}

// NewRouter wires the middleware chain, the JSON calculator API and the
// HTML pages.
func NewRouter(cfg config.Config) (http.Handler, error) {
	pages, err := web.New(cfg)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middlewares...)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r)
	pages.RegisterRoutes(r)

	return r, nil
}

package handlers

import (
	"net/http"

	"github.com/a2sh3r/expresswash/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler, secretKey string, limiter *middleware.ClientLimiter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.NewLoggingMiddleware())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewGzipMiddleware())
	r.Use(middleware.NewHashMiddleware(secretKey))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid URL format", http.StatusNotFound)
	})

	r.Get("/healthz", handler.Health)

	limit := func(r chi.Router) {
		if limiter != nil {
			r.Use(middleware.RateLimitMiddleware(limiter))
		}
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			limit(r)

			r.Post("/auth/login", handler.Login)
			r.Get("/pricing", handler.GetPricing)
			r.Post("/bill", handler.Bill)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTMiddleware(secretKey))
			limit(r)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", handler.CreateOrder)
				r.Get("/", handler.ListOrders)
				r.Get("/export", handler.ExportOrders)
				r.Get("/{id}", handler.GetOrder)
				r.Put("/{id}", handler.UpdateOrder)
				r.Delete("/{id}", handler.DeleteOrder)
			})
			r.Get("/analytics/summary", handler.Summary)
		})
	})

	return r
}

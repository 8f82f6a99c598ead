package httpapi

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, metricsMiddleware)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)

		r.Post("/setup", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/logout", s.handleLogout)
			r.Get("/users/{email}", s.handleGetUser)
			r.Put("/update/{id}", s.handleUpdateUser)
			r.Delete("/delete/user/{id}", s.handleDeleteUser)

			r.Post("/create/vault/entry", s.handleCreateSecret)
			r.Get("/retrieve/vault/entries", s.handleListSecrets)
			r.Get("/retrieve/vault/entries/{id}", s.handleGetSecretByID)
			r.Get("/retrieve/vault/entry/key/{key}", s.handleGetSecretByKey)
			r.Get("/retrieve/vault/entry/{createdBy}", s.handleGetSecretsByAuthor)
			r.Delete("/delete/{id}", s.handleDeleteSecret)
		})
	})

	return r
}

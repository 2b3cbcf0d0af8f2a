package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/session", h.createSession)
		r.Get("/api/version", h.getServerVersion)
	})

	// vault operations require a valid session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/vault/initialize", h.initialize)
		r.Post("/api/vault/deposit", h.deposit)
		r.Post("/api/vault/withdraw", h.withdraw)
		r.Post("/api/vault/close", h.closeVault)
		r.Get("/api/vault", h.status)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

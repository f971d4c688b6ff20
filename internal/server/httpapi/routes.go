package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the chi router. Register, salt lookup and login are public;
// everything touching blobs requires a valid session.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Post("/register", h.handleRegister)
	r.Get("/salt", h.handleGetSalt)
	r.Post("/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)

		r.Post("/history", h.handleAddHistory)
		r.Get("/sync/count", h.handleCount)
		r.Post("/sync/history", h.handleSyncHistory)
	})

	return r
}

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmpoweredVote/candymap/internal/middleware"
)

// SetupRoutes registers the account endpoints on r. limit wraps the
// credential endpoints.
func SetupRoutes(r chi.Router, h *Handler, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/register", h.RegisterHandler)
	r.With(limit).Post("/login", h.LoginHandler)
	r.With(middleware.RequireIdentity).Get("/me", h.MeHandler)
}

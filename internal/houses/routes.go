package houses

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the building endpoints on r. The test endpoints are
// served only when dev is set.
func SetupRoutes(r chi.Router, h *Handler, dev bool) {
	r.Get("/house/random", h.RandomHouseHandler)
	r.Get("/house/{id}", h.GetHouseHandler)
	r.Get("/homes/in", h.HomesInHandler)
	r.Post("/house/{id}", h.SubmitHandler)
	r.Delete("/house/{id}", h.DeleteHandler)

	if dev {
		r.Get("/test", h.CatalogHandler)
		r.Get("/test/fillAll", h.FillAllHandler)
	} else {
		r.Get("/test", testingDisabled)
		r.Get("/test/fillAll", testingDisabled)
	}
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notegenius/server/internal/notes"
)

// RegisterNoteRoutes wires the note list/detail endpoints. Callers are
// expected to mount these behind the verified-session gate.
func RegisterNoteRoutes(r fiber.Router, h *notes.Handler) {
	r.Get("/notes", h.List)
	r.Post("/notes", h.Create)
	r.Get("/notes/:id", h.Get)
	r.Delete("/notes/:id", h.Delete)
	r.Post("/notes/:id/summary", h.Summarize)
}

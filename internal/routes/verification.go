package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notegenius/server/internal/verification"
)

// RegisterVerificationRoutes wires the account-verification flow endpoints.
func RegisterVerificationRoutes(r fiber.Router, h *verification.Handler) {
	r.Get("/verification/countries", h.Countries)

	r.Post("/verification/sessions", h.Start)
	r.Get("/verification/sessions/:id", h.State)
	r.Post("/verification/sessions/:id/details", h.SubmitDetails)
	r.Post("/verification/sessions/:id/code", h.SubmitCode)
	r.Post("/verification/sessions/:id/resend", h.Resend)
	r.Post("/verification/sessions/:id/back", h.GoBack)
}

package notes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes note endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a note HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type noteResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
	AIGenerated bool     `json:"ai_generated"`
	CreatedAt   string   `json:"created_at"`
}

func toResponse(note Note) noteResponse {
	return noteResponse{
		ID:          note.ID,
		Title:       note.Title,
		Content:     note.Content,
		Tags:        note.Tags,
		Summary:     note.Summary,
		AIGenerated: note.AIGenerated,
		CreatedAt:   note.CreatedAt.Format(time.RFC3339),
	}
}

// List returns notes, filtered by the q query parameter when present.
func (h *Handler) List(c *fiber.Ctx) error {
	found, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]noteResponse, 0, len(found))
	for _, note := range found {
		out = append(out, toResponse(note))
	}
	return c.JSON(fiber.Map{"notes": out})
}

// Create stores a new note.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	note, err := h.service.Create(c.UserContext(), CreateInput{Title: req.Title, Content: req.Content, Tags: req.Tags})
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			return fiber.NewError(http.StatusBadRequest, "Please fill in both title and content")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(note))
}

// Get returns a single note.
func (h *Handler) Get(c *fiber.Ctx) error {
	note, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "note not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(toResponse(note))
}

// Delete removes a note.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "note not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// Summarize kicks off asynchronous summary generation and returns
// immediately. Resubmitting cancels the previous run.
func (h *Handler) Summarize(c *fiber.Ctx) error {
	if err := h.service.GenerateSummary(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "note not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"status": "generating"})
}

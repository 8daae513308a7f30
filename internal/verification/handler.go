package verification

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the verification flow over HTTP.
type Handler struct {
	service    *Service
	logger     *slog.Logger
	redirectTo string
}

// NewHandler constructs a verification HTTP handler. redirectTo is the
// navigation target returned once a session is verified.
func NewHandler(service *Service, logger *slog.Logger, redirectTo string) *Handler {
	return &Handler{service: service, logger: logger, redirectTo: redirectTo}
}

type detailsRequest struct {
	Name        string `json:"name"`
	Channel     string `json:"channel"`
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type identityResponse struct {
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Contact string `json:"contact"`
}

// Start opens a new verification session.
func (h *Handler) Start(c *fiber.Ctx) error {
	id, snap := h.service.Start(c.UserContext())
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"session_id": id,
		"state":      snap.State,
	})
}

// State reports the session's current step for rendering.
func (h *Handler) State(c *fiber.Ctx) error {
	snap, err := h.service.Snapshot(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, Result{}, err)
	}
	body := fiber.Map{"state": snap.State}
	if snap.Draft.Channel != "" {
		body["channel"] = snap.Draft.Channel
		body["contact"] = snap.Draft.Identity().MaskedContact()
	}
	return c.JSON(body)
}

// SubmitDetails accepts the identity draft and triggers code issuance.
func (h *Handler) SubmitDetails(c *fiber.Ctx) error {
	var req detailsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	channel, _ := ParseChannel(req.Channel)
	draft := Draft{
		Name:        req.Name,
		Channel:     channel,
		Email:       req.Email,
		CountryCode: req.CountryCode,
		PhoneNumber: req.PhoneNumber,
	}

	res, err := h.service.SubmitDetails(c.UserContext(), c.Params("id"), draft)
	if err != nil {
		return h.fail(c, res, err)
	}
	return h.ok(c, res)
}

// SubmitCode validates a candidate code against the session's challenge.
func (h *Handler) SubmitCode(c *fiber.Ctx) error {
	var req codeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.SubmitCode(c.UserContext(), c.Params("id"), req.Code)
	if err != nil {
		return h.fail(c, res, err)
	}
	return h.ok(c, res)
}

// Resend replaces the session's challenge with a fresh code.
func (h *Handler) Resend(c *fiber.Ctx) error {
	res, err := h.service.Resend(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, res, err)
	}
	return h.ok(c, res)
}

// GoBack returns the session to the details step.
func (h *Handler) GoBack(c *fiber.Ctx) error {
	res, err := h.service.GoBack(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, res, err)
	}
	return h.ok(c, res)
}

// Countries serves the country-code catalog for the phone entry step.
func (h *Handler) Countries(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default":   DefaultCountryCode,
		"countries": Countries(),
	})
}

func (h *Handler) ok(c *fiber.Ctx, res Result) error {
	body := fiber.Map{"state": res.State}
	if res.Message != (Message{}) {
		body["message"] = res.Message
	}
	if res.Identity != nil {
		body["identity"] = identityResponse{
			Name:    res.Identity.Name,
			Channel: string(res.Identity.Channel),
			Contact: res.Identity.Contact(),
		}
		body["redirect_to"] = h.redirectTo
	}
	return c.JSON(body)
}

func (h *Handler) fail(c *fiber.Ctx, res Result, err error) error {
	status := http.StatusBadRequest
	var invalid *InvalidTransitionError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.As(err, &invalid):
		status = http.StatusConflict
	}

	ch := ChannelEmail
	if snap, snapErr := h.service.Snapshot(c.UserContext(), c.Params("id")); snapErr == nil && snap.Draft.Channel != "" {
		ch = snap.Draft.Channel
	}

	if h.logger != nil {
		h.logger.Info("verification rejected",
			slog.String("session_id", c.Params("id")),
			slog.String("state", string(res.State)),
			slog.Any("error", err),
		)
	}

	body := fiber.Map{"message": UserMessage(err, ch)}
	if res.State != "" {
		body["state"] = res.State
	}
	return c.Status(status).JSON(body)
}

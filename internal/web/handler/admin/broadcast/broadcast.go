// Package broadcast lets capability holders push announcements and
// administrators push alerts onto the realtime channel.
package broadcast

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/identity"
	"github.com/staffdesk/staffdesk/internal/realtime"
	"github.com/staffdesk/staffdesk/internal/web/handler"
)

const (
	// Path is the path to the broadcast endpoint. It sits outside the
	// admin prefix: sending broadcasts is granted by the
	// broadcast_messages capability, not by role.
	Path = handler.APIRootPath + "/broadcast"

	// AlertPath is the path to the targeted alert endpoint, an
	// admin-only surface.
	AlertPath = handler.AdminRootPath + "/alert"
)

// Request is the announcement body. An empty recipient list means
// everyone.
type Request struct {
	Title      string   `json:"title" validate:"required"`
	Recipients []string `json:"recipients"`
}

// AlertRequest is the targeted alert body.
type AlertRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

// Service is the broadcast handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	deps     *handler.Deps
	validate *validator.Validate
}

// Handler is the broadcast handler.
var Handler = Service{}

// Init initializes the broadcast handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps
	s.validate = validator.New()

	app.Post(Path, s.Broadcast)
	app.Post(AlertPath, s.Alert)

	return nil
}

// Broadcast announces to the named recipients, or to everyone when no
// recipients are named. The sender must hold the broadcast_messages
// capability; admin-like roles pass through the evaluator's bypass.
func (s *Service) Broadcast(c *fiber.Ctx) error {
	id, _, err := handler.CurrentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	if !identity.HasCapability(id, identity.CapBroadcastMessages) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "access denied",
		})
	}

	req := new(Request)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed request body",
		})
	}

	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	ev := realtime.NewBroadcastEvent(req.Title, req.Recipients)

	if len(req.Recipients) == 0 {
		err = s.deps.Hub.Broadcast(c.Context(), ev)
	} else {
		err = s.deps.Hub.Publish(c.Context(), req.Recipients, ev)
	}

	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("broadcast publish failed")

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "realtime channel unavailable",
		})
	}

	log.Info().
		Str("sender_id", id.ID).
		Str("title", req.Title).
		Int("recipients", len(req.Recipients)).
		Msg("broadcast sent")

	return c.JSON(fiber.Map{
		"status": "sent",
	})
}

// Alert delivers a free-text alert to one employee.
func (s *Service) Alert(c *fiber.Ctx) error {
	req := new(AlertRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed request body",
		})
	}

	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "recipientId and message are required",
		})
	}

	ev := realtime.NewAdminAlertEvent(req.Message)

	if err := s.deps.Hub.Publish(c.Context(), []string{req.RecipientID}, ev); err != nil {
		log.Error().Err(err).Str("recipient_id", req.RecipientID).Msg("alert publish failed")

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "realtime channel unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "sent",
	})
}

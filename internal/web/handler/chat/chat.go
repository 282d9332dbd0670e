// Package chat accepts outgoing direct messages and hands them to the
// realtime hub for delivery.
package chat

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/realtime"
	"github.com/staffdesk/staffdesk/internal/web/handler"
)

const (
	// Path is the path to the chat endpoint.
	Path = handler.APIRootPath + "/chat"
)

// SendRequest is the outgoing message body.
type SendRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

// Service is the chat handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	deps     *handler.Deps
	validate *validator.Validate
}

// Handler is the chat handler.
var Handler = Service{}

// Init initializes the chat handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps
	s.validate = validator.New()

	app.Post(Path+"/send", s.Send)

	return nil
}

// Send publishes one direct message to its recipient's channel. The
// sender identity is stamped from the session, never from the body.
func (s *Service) Send(c *fiber.Ctx) error {
	id, _, err := handler.CurrentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	req := new(SendRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed request body",
		})
	}

	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "recipientId and content are required",
		})
	}

	ev := realtime.NewMessageEvent(realtime.MessagePayload{
		ID:         uuid.NewString(),
		SenderID:   id.ID,
		SenderRole: string(id.Role),
		Content:    req.Content,
	})

	if err := s.deps.Hub.Publish(c.Context(), []string{req.RecipientID}, ev); err != nil {
		log.Error().Err(err).Str("recipient_id", req.RecipientID).Msg("message publish failed")

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "realtime channel unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"id":     ev.Message.ID,
		"status": "sent",
	})
}

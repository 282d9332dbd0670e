// Package notification exposes the aggregated notification feed.
package notification

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/notifications"
	"github.com/staffdesk/staffdesk/internal/web/handler"
)

const (
	// Path is the path to the notification feed.
	Path = handler.APIRootPath + "/notifications"
)

// Service is the notification handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the notification handler.
var Handler = Service{}

// Init initializes the notification handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Put("/read-all", s.ReadAll)
		router.Put("/:id/read", s.Read)
	})

	return nil
}

// List returns the aggregated feed with the badge for the current
// identity.
func (s *Service) List(c *fiber.Ctx) error {
	id, _, err := handler.CurrentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	list, err := s.deps.Notifications.Load(c.Context(), id.ID)
	if err != nil {
		log.Error().Err(err).Str("employee_id", id.ID).Msg("notification load failed")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "backend unavailable",
		})
	}

	return s.respond(c, list)
}

// Read marks a single notification as read. Synthetic entries are left
// untouched and still reported back unchanged.
func (s *Service) Read(c *fiber.Ctx) error {
	id, _, err := handler.CurrentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	list, err := s.deps.Notifications.Load(c.Context(), id.ID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "backend unavailable",
		})
	}

	list, err = s.deps.Notifications.MarkRead(c.Context(), list, c.Params("id"))
	if err != nil {
		log.Error().Err(err).Str("employee_id", id.ID).Msg("mark read failed")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "backend unavailable",
		})
	}

	return s.respond(c, list)
}

// ReadAll marks every server-origin notification as read.
func (s *Service) ReadAll(c *fiber.Ctx) error {
	id, _, err := handler.CurrentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	list, err := s.deps.Notifications.Load(c.Context(), id.ID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "backend unavailable",
		})
	}

	list, err = s.deps.Notifications.MarkAllRead(c.Context(), list, id.ID)
	if err != nil {
		log.Error().Err(err).Str("employee_id", id.ID).Msg("mark all read failed")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "backend unavailable",
		})
	}

	return s.respond(c, list)
}

func (s *Service) respond(c *fiber.Ctx, list []notifications.Notification) error {
	unread := notifications.UnreadCount(list)

	return c.JSON(fiber.Map{
		"notifications": list,
		"badge": fiber.Map{
			"unread": unread,
			"label":  notifications.BadgeLabel(unread),
		},
	})
}

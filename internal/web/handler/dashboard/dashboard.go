// Package dashboard provides the dashboard handler composing the
// portal landing view.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/notifications"
	"github.com/staffdesk/staffdesk/internal/web/handler"
	"github.com/staffdesk/staffdesk/internal/web/navigation"
)

const (
	// Path is the path to the dashboard endpoint.
	Path = handler.RootPath + "dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps

	app.Get(Path, s.Get)

	return nil
}

// Get composes the dashboard view for the current identity: the
// variant, the navigation menu and the notification badge.
func (s *Service) Get(c *fiber.Ctx) error {
	id, _, err := handler.CurrentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	// a notification fetch failure degrades the badge, not the page
	list, err := s.deps.Notifications.Load(c.Context(), id.ID)
	if err != nil {
		log.Warn().Err(err).Str("employee_id", id.ID).Msg("notification load failed")

		list = nil
	}

	unread := notifications.UnreadCount(list)

	log.Debug().
		Str("employee_id", id.ID).
		Str("variant", string(navigation.SelectVariant(id))).
		Int("unread", unread).
		Msg("dashboard composed")

	return c.JSON(fiber.Map{
		"navigation": fiber.Map{
			"context": nav,
			"menu":    navigation.Build(id),
		},
		"variant":  navigation.SelectVariant(id),
		"identity": id.Redacted(),
		"badge": fiber.Map{
			"unread": unread,
			"label":  notifications.BadgeLabel(unread),
		},
	})
}

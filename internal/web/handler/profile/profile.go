// Package profile serves the signed-in employee's own record.
package profile

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffdesk/staffdesk/internal/backend"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/identity"
	"github.com/staffdesk/staffdesk/internal/web/handler"
	"github.com/staffdesk/staffdesk/internal/web/session"
)

const (
	// Path is the path to the profile endpoint.
	Path = "/profile"
)

// Service is the profile handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps

	app.Get(Path, s.Get)

	return nil
}

// Get returns the current employee record, refreshed from the backend.
// The refreshed identity is written back to the session so later
// requests see it.
func (s *Service) Get(c *fiber.Ctx) error {
	id, sessionID, err := handler.CurrentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	employee, err := s.deps.Backend.Employee(c.Context(), id.ID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "employee record not found",
			})
		}

		log.Warn().Err(err).Str("employee_id", id.ID).Msg("profile refresh failed, serving session copy")

		return s.respond(c, id)
	}

	fresh := employee.Identity()

	sessData := &session.Data{Identity: *fresh}
	if err := sessData.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Str("employee_id", id.ID).Msg("session refresh write failed")
	}

	return s.respond(c, fresh)
}

func (s *Service) respond(c *fiber.Ctx, id *identity.Identity) error {
	return c.JSON(fiber.Map{
		"identity": id.Redacted(),
		"hasPhoto": id.ProfileImage != "",
	})
}

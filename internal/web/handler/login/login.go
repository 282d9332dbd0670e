package login

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffdesk/staffdesk/internal/backend"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/web/handler"
	"github.com/staffdesk/staffdesk/internal/web/navigation"
	"github.com/staffdesk/staffdesk/internal/web/session"
)

const (
	// Path is the path to the login endpoint.
	Path = "/login"
)

// Request is the login request body.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	deps     *handler.Deps
	validate *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps
	s.validate = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get tells an unauthenticated client that credentials are required.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"title": s.cfg.Title,
		"login": Path,
	})
}

// Post handles the credential submission. The credential check itself
// happens in the HR backend; this handler only establishes the session.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed request body",
		})
	}

	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}

	employee, err := s.deps.Backend.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidCredentials) {
			// the rejection stays inline with the login flow, no redirect
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid email or password",
			})
		}

		log.Error().Err(err).Msg("backend login call failed")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "backend unavailable",
		})
	}

	id := employee.Identity()
	if !id.Active {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "account is inactive",
		})
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	sessData := &session.Data{Identity: *id}

	if err = sessData.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Str("employee_id", id.ID).Str("role", string(id.Role)).Msg("login successful")

	return c.JSON(fiber.Map{
		"identity":   id.Redacted(),
		"variant":    navigation.SelectVariant(id),
		"navigation": navigation.Build(id),
	})
}

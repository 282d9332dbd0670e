// Package permissions provides the administration surface for
// employee capability and role management.
package permissions

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffdesk/staffdesk/internal/backend"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/identity"
	"github.com/staffdesk/staffdesk/internal/realtime"
	"github.com/staffdesk/staffdesk/internal/web/handler"
	"github.com/staffdesk/staffdesk/internal/web/navigation"
)

const (
	// Path is the path to the permission management endpoint.
	Path = handler.AdminRootPath + "/permissions"
)

// UpdateRequest is the permission update body.
type UpdateRequest struct {
	Permissions []string `json:"permissions"`
	Role        string   `json:"role" validate:"required"`
	Active      bool     `json:"active"`
}

// Service is the permission management handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	deps     *handler.Deps
	validate *validator.Validate
}

// Handler is the permission management handler.
var Handler = Service{}

// Init initializes the permission management handler. Role gating for
// the whole /admin prefix happens in the routing middleware.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps
	s.validate = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Put("/:id", s.Update)
	})

	return nil
}

// Get lists every employee next to the capability catalogue, grouped
// the way the management screen renders it.
func (s *Service) Get(c *fiber.Ctx) error {
	employees, err := s.deps.Backend.Employees(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("employee list fetch failed")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "backend unavailable",
		})
	}

	nav := navigation.NewContext("Permissions", "admin", "permissions").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Permissions", Path, true)

	return c.JSON(fiber.Map{
		"navigation": nav,
		"employees":  employees,
		"catalogue":  identity.CatalogByCategory(),
	})
}

// Update replaces one employee's permission set, role and active flag
// in the backend, then announces the change on the realtime channel so
// every live session of that employee picks it up.
func (s *Service) Update(c *fiber.Ctx) error {
	employeeID := c.Params("id")

	req := new(UpdateRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed request body",
		})
	}

	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "role is required",
		})
	}

	if identity.ParseRole(req.Role) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown role",
		})
	}

	update := backend.PermissionsUpdate{
		Permissions: req.Permissions,
		Role:        req.Role,
		Active:      req.Active,
	}

	if err := s.deps.Backend.UpdatePermissions(c.Context(), employeeID, update); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "employee not found",
			})
		}

		log.Error().Err(err).Str("employee_id", employeeID).Msg("permission update failed")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "backend unavailable",
		})
	}

	ev := realtime.NewPermissionsEvent(realtime.PermissionsPayload{
		EmployeeID:  employeeID,
		Permissions: req.Permissions,
		Role:        req.Role,
		Active:      req.Active,
	})

	// broadcast so every instance holding a session for this employee
	// sees the change; everyone else ignores it by id
	if err := s.deps.Hub.Broadcast(c.Context(), ev); err != nil {
		log.Error().Err(err).Str("employee_id", employeeID).Msg("permission event publish failed")
	}

	log.Info().
		Str("employee_id", employeeID).
		Str("role", req.Role).
		Bool("active", req.Active).
		Strs("permissions", req.Permissions).
		Msg("permissions updated")

	return c.JSON(fiber.Map{
		"status": "updated",
	})
}

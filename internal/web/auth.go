package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffdesk/staffdesk/internal/web/handler/dashboard"
	"github.com/staffdesk/staffdesk/internal/web/handler/login"
	"github.com/staffdesk/staffdesk/internal/web/session"
)

// AuthMiddleware is a Fiber middleware that enforces routing decisions
// for every request.
func AuthMiddleware(c *fiber.Ctx) error {
	sessData := new(session.Data)

	// a read failure (missing or corrupt record) leaves the zero value,
	// which Guard treats as unauthenticated
	if cookie := c.Cookies(session.CookieName); cookie != "" {
		_ = sessData.Read(cookie)
	}

	switch Guard(&sessData.Identity, false, c.OriginalURL()) {
	case DecisionLogin:
		return c.Redirect(login.Path)
	case DecisionDashboard:
		return c.Redirect(dashboard.Path)
	case DecisionDenied:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "access denied",
		})
	}

	return c.Next()
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/staffdesk/staffdesk/internal/backend"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/identity"
	"github.com/staffdesk/staffdesk/internal/notifications"
	"github.com/staffdesk/staffdesk/internal/realtime"
	"github.com/staffdesk/staffdesk/internal/web/session"
)

// Deps carries the shared services every handler may need.
type Deps struct {
	Backend       backend.API
	Hub           *realtime.Hub
	Notifications *notifications.Service
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps) error
}

// ErrNoSession is returned when a request carries no usable session.
var ErrNoSession = errors.New("no valid session")

// CurrentIdentity resolves the identity behind the request's session
// cookie. It returns the identity together with the session id so
// handlers can write back refreshed session data.
func CurrentIdentity(c *fiber.Ctx) (*identity.Identity, string, error) {
	sessionID := c.Cookies(session.CookieName)
	if sessionID == "" {
		return nil, "", ErrNoSession
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil {
		return nil, "", errors.Wrap(ErrNoSession, err.Error())
	}

	if !sessData.Valid() {
		return nil, "", ErrNoSession
	}

	return &sessData.Identity, sessionID, nil
}

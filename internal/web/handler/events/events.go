// Package events streams realtime portal events to the browser over
// server-sent events.
package events

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/realtime"
	"github.com/staffdesk/staffdesk/internal/web/handler"
)

const (
	// Path is the path to the event stream endpoint.
	Path = handler.APIRootPath + "/events"

	// streamBuffer bounds pending events per client; a slow reader
	// drops newer events rather than blocking the hub dispatch.
	streamBuffer = 64

	// keepAliveInterval paces the SSE comment frames that surface a
	// gone client between events.
	keepAliveInterval = 30 * time.Second
)

// Service is the event stream handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the event stream handler.
var Handler = Service{}

// Init initializes the event stream handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps

	app.Get(Path, s.Stream)

	return nil
}

// Stream attaches the client to the realtime hub and relays every
// event type over an SSE stream until the client disconnects.
func (s *Service) Stream(c *fiber.Ctx) error {
	id, _, err := handler.CurrentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	conn, err := s.deps.Hub.Connect(c.Context(), id.ID)
	if err != nil {
		log.Error().Err(err).Str("employee_id", id.ID).Msg("hub connect failed")

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "realtime channel unavailable",
		})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	events := make(chan realtime.Event, streamBuffer)

	unsubs := make([]func(), 0, len(realtime.EventTypes()))
	for _, t := range realtime.EventTypes() {
		unsubs = append(unsubs, conn.Subscribe(t, func(ev realtime.Event) {
			select {
			case events <- ev:
			default:
				log.Warn().Str("employee_id", id.ID).Str("type", string(ev.Type)).
					Msg("slow event stream client, dropping event")
			}
		}))
	}

	employeeID := id.ID

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			for _, unsub := range unsubs {
				unsub()
			}

			log.Debug().Str("employee_id", employeeID).Msg("event stream closed")
		}()

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case ev := <-events:
				if err := writeEvent(w, ev); err != nil {
					// the client went away, drop the attachment silently
					return
				}
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}

				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

// writeEvent emits one SSE frame and flushes it to the client.
func writeEvent(w *bufio.Writer, ev realtime.Event) error {
	data, err := ev.Encode()
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}

	return w.Flush()
}

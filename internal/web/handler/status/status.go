// Package status serves the liveness probe and the Prometheus
// metrics endpoint.
package status

import (
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/web/handler"
)

const (
	// Path is the path to the liveness probe.
	Path = "/checkalive"

	// MetricsPath is the path to the Prometheus metrics endpoint.
	MetricsPath = "/metrics"
)

// Service is the status handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	alive *atomic.Bool
}

// Handler is the status handler.
var Handler = Service{}

// Init initializes the status handler. The alive flag is owned by the
// web service and flips to false during graceful shutdown so load
// balancers drain this instance.
func (s *Service) Init(app *fiber.App, cfg *config.Config, alive *atomic.Bool) error {
	if app == nil || cfg == nil || alive == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.cfg = cfg
	s.alive = alive

	app.Get(Path, s.CheckAlive)

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get(MetricsPath, func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	return nil
}

// CheckAlive reports instance liveness.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "shutting down",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

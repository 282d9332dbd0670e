package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/staffdesk/staffdesk/internal/config"
	fiberlogger "github.com/staffdesk/staffdesk/internal/logger/adapter/fiber"
	"github.com/staffdesk/staffdesk/internal/web/handler"
	"github.com/staffdesk/staffdesk/internal/web/handler/admin/broadcast"
	"github.com/staffdesk/staffdesk/internal/web/handler/admin/permissions"
	"github.com/staffdesk/staffdesk/internal/web/handler/chat"
	"github.com/staffdesk/staffdesk/internal/web/handler/dashboard"
	"github.com/staffdesk/staffdesk/internal/web/handler/events"
	"github.com/staffdesk/staffdesk/internal/web/handler/login"
	"github.com/staffdesk/staffdesk/internal/web/handler/logout"
	"github.com/staffdesk/staffdesk/internal/web/handler/notification"
	"github.com/staffdesk/staffdesk/internal/web/handler/profile"
	"github.com/staffdesk/staffdesk/internal/web/handler/status"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the portal.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait interrupt or shutdown request through /shutdown
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, deps *handler.Deps) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if deps == nil {
		return nil, errors.New("deps cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access logging, liveness probe calls stay out of the log
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: status.Path,
	}))

	// routing decisions for every request
	app.Use(AuthMiddleware)

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	// init handlers (they register their own routes)
	handlers := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&dashboard.Handler,
		&notification.Handler,
		&events.Handler,
		&chat.Handler,
		&permissions.Handler,
		&broadcast.Handler,
		&profile.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, cfg, deps); err != nil {
			return nil, err
		}
	}

	if err := status.Handler.Init(app, cfg, &service.alive); err != nil {
		return nil, err
	}

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service, nil
}

package daemon

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/staffdesk/staffdesk/internal/backend"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/internal/db/controller/sessionstore"
	"github.com/staffdesk/staffdesk/internal/db/models"
	"github.com/staffdesk/staffdesk/internal/logger"
	"github.com/staffdesk/staffdesk/internal/notifications"
	"github.com/staffdesk/staffdesk/internal/realtime"
	"github.com/staffdesk/staffdesk/internal/web"
	"github.com/staffdesk/staffdesk/internal/web/handler"
	"github.com/staffdesk/staffdesk/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	hub        *realtime.Hub
	bridge     *bridge
}

// Start runs the identity refresh bridge and the web service. It blocks
// until the web service stops. Shutdown signals drain the instance
// first: checkalive flips to 503 while the load balancer removes it.
func (d *Daemon) Start() error {
	if err := d.bridge.Start(context.Background()); err != nil {
		return errors.Wrap(err, "failed to start identity refresh bridge")
	}

	defer d.hub.Close()

	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}

	db, err := gorm.Open(sqlite.Open(cfg.DB.Path), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session database")
	}

	if err = db.AutoMigrate(&models.Session{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate session database")
	}

	// durable client-side identity cache
	sessionStorage, err := sessionstore.New(db)
	if err != nil {
		return nil, err
	}

	session.Init(sessionStorage)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	hub := realtime.NewHub(rdb)

	api := backend.New(cfg.Backend.URL, cfg.Backend.APIKey, cfg.Backend.Timeout)

	deps := &handler.Deps{
		Backend:       api,
		Hub:           hub,
		Notifications: notifications.New(api),
	}

	webService, err := web.New(cfg, deps)
	if err != nil {
		return nil, err
	}

	log.Info().Str("backend", cfg.Backend.URL).Str("redis", cfg.Redis.Addr).Msg("daemon wired")

	return &Daemon{
		cfg:        cfg,
		webService: webService,
		hub:        hub,
		bridge:     newBridge(db, hub),
	}, nil
}

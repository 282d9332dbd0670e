package config

import (
	"time"

	"github.com/staffdesk/staffdesk/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Backend holds the settings for the external HR backend API.
// The portal delegates every business operation (employee records, tasks,
// payroll, broadcasts, audit) to this API and never persists them itself.
type Backend struct {
	URL     string        // base URL of the HR backend API
	APIKey  string        // API key sent with every backend request
	Timeout time.Duration // per request timeout, 0 = default
}

// Redis holds the connection settings for the realtime event bus.
type Redis struct {
	Addr string
}

// DB holds the local sqlite database settings.
// The portal database stores only session records (the durable client-side
// identity cache); everything else lives in the backend.
type DB struct {
	Path string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Backend   Backend
	Redis     Redis
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string  // domain name for the webserver
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	Session      Session // session settings
}

package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIRootPath is the prefix for JSON API routes.
	APIRootPath = "/api"

	// AdminRootPath is the prefix for administration routes.
	AdminRootPath = "/admin"

	// ErrNilDepsFatalLogMsg is used if app, cfg or deps var pointer is nil.
	ErrNilDepsFatalLogMsg = "app, cfg or deps is nil"
)

package realtime

import (
	"errors"
)

var (
	// ErrInvalidEvent is returned for unknown event tags or a payload that
	// does not match the tag.
	ErrInvalidEvent = errors.New("invalid realtime event")

	// ErrHubClosed is returned when connecting through a hub that has shut
	// down.
	ErrHubClosed = errors.New("realtime hub is closed")
)

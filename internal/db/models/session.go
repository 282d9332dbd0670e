// Package models defines the records the portal persists locally.
// The portal database holds sessions only; employee, notification and
// payroll data stay in the HR backend.
package models

import (
	"time"
)

// Session is one persisted portal session. The payload is the serialized
// session data (the cached identity) keyed by the session id the browser
// cookie carries. Reading survives restarts, which is what lets the portal
// skip a full re-login at startup.
type Session struct {
	// ID is the session identifier from the browser cookie.
	ID string `gorm:"primaryKey;size:64"`
	// Payload is the serialized session data.
	Payload []byte
	// ExpiresAt is when the session stops being valid.
	ExpiresAt time.Time `gorm:"index"`
	// CreatedAt is the timestamp when the session was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the session was last updated (managed by GORM).
	UpdatedAt time.Time
}

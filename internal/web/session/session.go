// Package session owns the cached identity of a signed-in portal user.
// Sessions are written once at login, replaced wholesale when a
// permissions_updated event names the identity, and destroyed on logout or
// forced deactivation. A corrupt stored record reads back as "no identity",
// never a crash.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/storage"

	"github.com/staffdesk/staffdesk/internal/identity"
)

// CookieName is the browser cookie carrying the session id.
const CookieName = "session"

// Store is the global session store instance.
var Store storage.Storage

// Data represents the session data structure.
type Data struct {
	Identity identity.Identity
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID. Missing and
// malformed records return an error; callers treat that as "no identity".
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Get(sessionID)
	if err != nil {
		return err
	}

	return json.Unmarshal(byteData, s)
}

// Valid reports whether the session carries a usable identity.
func (s *Data) Valid() bool {
	return s.Identity.ID != "" && s.Identity.Active
}

// Init initializes the session store with the provided storage backend.
func Init(store storage.Storage) {
	if store == nil {
		panic("storage is nil")
	}

	Store = store
}

// Destroy removes a session and reports whether a live session was
// actually cleared. The guard makes forced logout idempotent: a
// permissions_updated event delivered twice clears the session exactly
// once, the second delivery sees no session and does nothing.
func Destroy(sessionID string) bool {
	if sessionID == "" {
		return false
	}

	data := new(Data)
	if err := data.Read(sessionID); err != nil || data.Identity.ID == "" {
		return false
	}

	if err := Store.Delete(sessionID); err != nil {
		return false
	}

	return true
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
